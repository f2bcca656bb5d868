package api

import (
	"context"
	"fmt"

	"github.com/datahiredevops/datahire-workspace/internal/schemas"
	"github.com/datahiredevops/datahire-workspace/internal/types"
)

// MatchAnalysis fetches the detailed score breakdown for one (job, user)
// pair. The response is schema-checked before decoding.
func (c *Client) MatchAnalysis(ctx context.Context, jobID, userID int) (*types.MatchAnalysis, error) {
	var analysis types.MatchAnalysis
	path := fmt.Sprintf("/jobs/%d/match/%d", jobID, userID)
	if err := c.getJSON(ctx, path, &analysis, schemas.ValidateMatchAnalysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// OptimizedStatus reports whether a persisted optimization already exists for
// the (job, user) pair, and carries its scores when it does.
func (c *Client) OptimizedStatus(ctx context.Context, jobID, userID int) (*types.OptimizedStatus, error) {
	var status types.OptimizedStatus
	path := fmt.Sprintf("/jobs/%d/optimized-status/%d", jobID, userID)
	if err := c.getJSON(ctx, path, &status, schemas.ValidateOptimizedStatus); err != nil {
		return nil, err
	}
	return &status, nil
}

// Optimize submits the current score and runs a server-side resume
// optimization for the job.
func (c *Client) Optimize(ctx context.Context, jobID, userID, currentScore int) (*types.OptimizationResult, error) {
	var result types.OptimizationResult
	path := fmt.Sprintf("/jobs/%d/optimize/%d", jobID, userID)
	req := types.OptimizeRequest{CurrentScore: currentScore}
	if err := c.postJSON(ctx, path, req, &result, nil); err != nil {
		return nil, err
	}
	return &result, nil
}
