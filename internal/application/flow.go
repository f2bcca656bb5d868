// Package application runs the apply modal: gather the user's resumes and
// cover letters, let them pick, submit, and settle the applied membership.
package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/datahiredevops/datahire-workspace/internal/types"
)

// API is the slice of the remote client the flow needs.
type API interface {
	Resumes(ctx context.Context, userID int) ([]types.Resume, error)
	CoverLetters(ctx context.Context, userID int) ([]types.CoverLetter, error)
	Apply(ctx context.Context, jobID int, req types.ApplyRequest) error
	ApplicationDetail(ctx context.Context, jobID, userID int) (*types.Application, error)
}

// State is the modal's lifecycle position.
type State int

// Modal states. Submitting returns to GatheringChoices on failure so the
// user can retry without re-gathering.
const (
	StateClosed State = iota
	StateGathering
	StateChoosing
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateGathering:
		return "gathering"
	case StateChoosing:
		return "choosing"
	case StateSubmitting:
		return "submitting"
	}
	return "unknown"
}

// Guard errors for the flow's entry points.
var (
	ErrAlreadyApplied = errors.New("job already applied to")
	ErrBusy           = errors.New("apply flow already in progress")
	ErrNotChoosing    = errors.New("modal is not open for choices")
	ErrUnknownChoice  = errors.New("choice is not in the gathered list")
)

// Flow is the apply modal for one job at a time. Initiate gathers both
// choice lists concurrently and opens the modal only once both arrive.
// Choosing a resume is the terminal action of the form: Confirm submits
// immediately, there is no separate submit step.
type Flow struct {
	mu sync.Mutex

	api    API
	userID int

	jobID         int
	state         State
	resumes       []types.Resume
	coverLetters  []types.CoverLetter
	coverLetterID *int

	isApplied func(jobID int) bool
	onApplied func(jobID int, app *types.Application)
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithAppliedCheck wires the membership lookup that guards Initiate against
// duplicate submissions.
func WithAppliedCheck(fn func(jobID int) bool) FlowOption {
	return func(f *Flow) { f.isApplied = fn }
}

// WithOnApplied registers a callback invoked after a successful submission,
// carrying the persisted application detail when it could be fetched.
func WithOnApplied(fn func(jobID int, app *types.Application)) FlowOption {
	return func(f *Flow) { f.onApplied = fn }
}

// NewFlow creates a closed flow for the user.
func NewFlow(api API, userID int, opts ...FlowOption) *Flow {
	f := &Flow{api: api, userID: userID, state: StateClosed}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Initiate starts the flow for a job. Both choice lists are fetched
// concurrently and the modal opens only when both have arrived; if either
// fetch fails the modal stays closed and the error is returned. Initiate
// blocks until the gather settles.
func (f *Flow) Initiate(ctx context.Context, jobID int) error {
	f.mu.Lock()
	if f.state != StateClosed {
		f.mu.Unlock()
		return ErrBusy
	}
	if f.isApplied != nil && f.isApplied(jobID) {
		f.mu.Unlock()
		return ErrAlreadyApplied
	}
	f.jobID = jobID
	f.state = StateGathering
	f.mu.Unlock()

	var (
		resumes []types.Resume
		letters []types.CoverLetter
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resumes, err = f.api.Resumes(gctx, f.userID)
		return err
	})
	g.Go(func() error {
		var err error
		letters, err = f.api.CoverLetters(gctx, f.userID)
		return err
	})
	if err := g.Wait(); err != nil {
		f.mu.Lock()
		f.state = StateClosed
		f.jobID = 0
		f.mu.Unlock()
		return fmt.Errorf("gathering apply choices: %w", err)
	}

	f.mu.Lock()
	f.resumes = resumes
	f.coverLetters = letters
	f.coverLetterID = nil
	f.state = StateChoosing
	f.mu.Unlock()
	return nil
}

// ChooseCoverLetter records the optional cover-letter pick. Passing an id
// not present in the gathered list is rejected.
func (f *Flow) ChooseCoverLetter(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateChoosing {
		return ErrNotChoosing
	}
	for i := range f.coverLetters {
		if f.coverLetters[i].ID == id {
			chosen := id
			f.coverLetterID = &chosen
			return nil
		}
	}
	return ErrUnknownChoice
}

// ClearCoverLetter drops the cover-letter pick; the submission will carry an
// explicit null.
func (f *Flow) ClearCoverLetter() {
	f.mu.Lock()
	f.coverLetterID = nil
	f.mu.Unlock()
}

// Confirm submits the application with the given resume. On success the
// modal closes, the applied callback fires and the persisted application
// detail is fetched for display. On failure the modal returns to choosing
// so the user can retry, and the applied membership is untouched.
func (f *Flow) Confirm(ctx context.Context, resumeID int) error {
	f.mu.Lock()
	if f.state != StateChoosing {
		f.mu.Unlock()
		return ErrNotChoosing
	}
	known := false
	for i := range f.resumes {
		if f.resumes[i].ID == resumeID {
			known = true
			break
		}
	}
	if !known {
		f.mu.Unlock()
		return ErrUnknownChoice
	}
	jobID := f.jobID
	req := types.ApplyRequest{
		UserID:        f.userID,
		ResumeID:      resumeID,
		CoverLetterID: f.coverLetterID,
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	if err := f.api.Apply(ctx, jobID, req); err != nil {
		f.mu.Lock()
		f.state = StateChoosing
		f.mu.Unlock()
		return fmt.Errorf("applying to job %d: %w", jobID, err)
	}

	f.mu.Lock()
	f.state = StateClosed
	f.resumes = nil
	f.coverLetters = nil
	f.coverLetterID = nil
	f.jobID = 0
	onApplied := f.onApplied
	f.mu.Unlock()

	if onApplied != nil {
		app, err := f.api.ApplicationDetail(ctx, jobID, f.userID)
		if err != nil {
			// The submission itself succeeded; the detail is cosmetic.
			log.Printf("[apply] application detail for job %d failed: %v", jobID, err)
		}
		onApplied(jobID, app)
	}
	return nil
}

// Cancel abandons the flow and closes the modal. Safe in any state except
// mid-submission.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return ErrBusy
	}
	f.state = StateClosed
	f.resumes = nil
	f.coverLetters = nil
	f.coverLetterID = nil
	f.jobID = 0
	return nil
}

// State returns the modal's current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Choices returns the gathered lists for rendering the open modal.
func (f *Flow) Choices() ([]types.Resume, []types.CoverLetter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resumes, f.coverLetters
}
