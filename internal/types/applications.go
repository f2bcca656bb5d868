package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Resume is one entry of the user's resume list (GET /users/{userId}/resumes).
type Resume struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// CoverLetter is one entry of the user's cover-letter list
// (GET /agent/{userId}/cover-letters).
type CoverLetter struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// ApplyRequest is the body of POST /jobs/{id}/apply. CoverLetterID is a
// pointer so that "no cover letter chosen" serializes as an explicit null.
type ApplyRequest struct {
	UserID        int  `json:"user_id" validate:"required"`
	ResumeID      int  `json:"resume_id" validate:"required"`
	CoverLetterID *int `json:"cover_letter_id"`
}

// Validate validates the ApplyRequest using the validator.
func (r *ApplyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Application is the persisted application detail for a (job, user) pair,
// returned by GET /jobs/{id}/application/{userId}. Once one exists the job
// is a permanent member of the applied set for the rest of the session.
type Application struct {
	JobID          int       `json:"job_id"`
	ResumeID       int       `json:"resume_id"`
	ResumeName     string    `json:"resume_name"`
	ResumeURL      string    `json:"resume_url,omitempty"`
	CoverLetterID  *int      `json:"cover_letter_id,omitempty"`
	CoverLetterURL string    `json:"cover_letter_url,omitempty"`
	AppliedAt      time.Time `json:"applied_at"`
}

// HasCoverLetter reports whether a cover letter was attached.
func (a *Application) HasCoverLetter() bool {
	return a.CoverLetterID != nil
}
