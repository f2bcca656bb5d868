package api

import (
	"context"
	"fmt"

	"github.com/datahiredevops/datahire-workspace/internal/schemas"
	"github.com/datahiredevops/datahire-workspace/internal/types"
)

// Resumes fetches the user's resume list.
func (c *Client) Resumes(ctx context.Context, userID int) ([]types.Resume, error) {
	var resumes []types.Resume
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%d/resumes", userID), &resumes, nil); err != nil {
		return nil, err
	}
	return resumes, nil
}

// CoverLetters fetches the user's cover-letter list.
func (c *Client) CoverLetters(ctx context.Context, userID int) ([]types.CoverLetter, error) {
	var letters []types.CoverLetter
	if err := c.getJSON(ctx, fmt.Sprintf("/agent/%d/cover-letters", userID), &letters, nil); err != nil {
		return nil, err
	}
	return letters, nil
}

// Apply submits an application for the job. The request is validated locally
// before it goes on the wire.
func (c *Client) Apply(ctx context.Context, jobID int, req types.ApplyRequest) error {
	if err := req.Validate(); err != nil {
		return &Error{Path: fmt.Sprintf("/jobs/%d/apply", jobID), Message: "invalid apply request", Cause: err}
	}
	return c.postJSON(ctx, fmt.Sprintf("/jobs/%d/apply", jobID), req, nil, nil)
}

// ApplicationDetail fetches the persisted application for a (job, user) pair.
func (c *Client) ApplicationDetail(ctx context.Context, jobID, userID int) (*types.Application, error) {
	var app types.Application
	path := fmt.Sprintf("/jobs/%d/application/%d", jobID, userID)
	if err := c.getJSON(ctx, path, &app, schemas.ValidateApplication); err != nil {
		return nil, err
	}
	return &app, nil
}

// Chat sends one assistant message and returns the reply text.
func (c *Client) Chat(ctx context.Context, userID int, message string) (string, error) {
	var resp types.ChatResponse
	req := types.ChatRequest{UserID: userID, Message: message}
	if err := c.postJSON(ctx, "/agent/chat", req, &resp, nil); err != nil {
		return "", err
	}
	return resp.Response, nil
}
