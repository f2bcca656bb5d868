package api

import (
	"context"
	"fmt"

	"github.com/datahiredevops/datahire-workspace/internal/types"
)

// Jobs fetches the full job collection for a workspace session.
func (c *Client) Jobs(ctx context.Context) ([]types.Job, error) {
	var jobs []types.Job
	if err := c.getJSON(ctx, "/jobs", &jobs, nil); err != nil {
		return nil, err
	}
	return jobs, nil
}

// SavedJobIDs fetches the ids of jobs the user has liked.
func (c *Client) SavedJobIDs(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	if err := c.getJSON(ctx, fmt.Sprintf("/jobs/saved/%d", userID), &ids, nil); err != nil {
		return nil, err
	}
	return ids, nil
}

// AppliedJobIDs fetches the ids of jobs the user has applied to.
func (c *Client) AppliedJobIDs(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	if err := c.getJSON(ctx, fmt.Sprintf("/jobs/applied/%d", userID), &ids, nil); err != nil {
		return nil, err
	}
	return ids, nil
}

// SimpleScore fetches the match percentage for one (job, user) pair.
func (c *Client) SimpleScore(ctx context.Context, jobID, userID int) (int, error) {
	var resp types.ScoreResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/jobs/%d/simple-score/%d", jobID, userID), &resp, nil); err != nil {
		return 0, err
	}
	return resp.Score, nil
}

// ToggleLike flips the server-side liked membership for a job.
func (c *Client) ToggleLike(ctx context.Context, jobID, userID int) error {
	return c.postJSON(ctx, fmt.Sprintf("/jobs/%d/toggle-like?user_id=%d", jobID, userID), nil, nil, nil)
}
