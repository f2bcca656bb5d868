// Package types provides type definitions for the records exchanged with the
// DataHire API and shared across the workspace packages.
package types

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Job is a single listing as returned by GET /jobs. Jobs are created
// server-side; the client only reads them and refetches the full collection
// once per workspace session.
type Job struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Company      string `json:"company"`
	CompanyLogo  string `json:"company_logo,omitempty"`
	Location     string `json:"location"`
	Type         string `json:"type"`
	Salary       string `json:"salary,omitempty"`
	Description  string `json:"description"`
	Requirements string `json:"requirements,omitempty"`
}

// DescriptionText returns the job description as plain text. Descriptions may
// arrive as HTML fragments; markup is stripped and whitespace normalized. If
// the fragment cannot be parsed the raw description is returned unchanged.
func (j *Job) DescriptionText() string {
	return stripHTML(j.Description)
}

// RequirementsText returns the requirements field as plain text.
func (j *Job) RequirementsText() string {
	return stripHTML(j.Requirements)
}

// stripHTML extracts text content from an HTML fragment.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	doc.Find("script, style").Remove()
	return cleanWhitespace(doc.Text())
}

// cleanWhitespace collapses blank lines and trims each remaining line.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
