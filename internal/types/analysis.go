package types

// ScoreResponse is the payload of GET /jobs/{id}/simple-score/{userId}.
type ScoreResponse struct {
	Score int `json:"score"`
}

// Breakdown holds the per-dimension sub-scores of a match analysis.
type Breakdown struct {
	Experience int `json:"exp"`
	Skill      int `json:"skill"`
	Industry   int `json:"industry"`
}

// MatchAnalysis is the detailed score breakdown for one (job, user) pair,
// returned by GET /jobs/{id}/match/{userId}. It is valid only for the
// currently selected job and is re-fetched on every reselection.
type MatchAnalysis struct {
	MatchScore    int       `json:"matchScore"`
	Breakdown     Breakdown `json:"breakdown"`
	Reason        string    `json:"reason"`
	Skills        []string  `json:"skills"`
	MatchedSkills []string  `json:"matched_skills"`
}

// MissingSkills returns the job skills absent from the matched list.
func (a *MatchAnalysis) MissingSkills() []string {
	matched := make(map[string]bool, len(a.MatchedSkills))
	for _, s := range a.MatchedSkills {
		matched[s] = true
	}
	var missing []string
	for _, s := range a.Skills {
		if !matched[s] {
			missing = append(missing, s)
		}
	}
	return missing
}

// OptimizedStatus is the payload of GET /jobs/{id}/optimized-status/{userId}.
// When Exists is true a persisted optimization supersedes the raw analysis
// and the score fields are populated.
type OptimizedStatus struct {
	Exists        bool   `json:"exists"`
	OriginalScore int    `json:"original_score,omitempty"`
	NewScore      int    `json:"new_score,omitempty"`
	Summary       string `json:"summary,omitempty"`
}

// Result converts a positive status into an OptimizationResult.
func (s *OptimizedStatus) Result() *OptimizationResult {
	if !s.Exists {
		return nil
	}
	return &OptimizationResult{
		OriginalScore: s.OriginalScore,
		NewScore:      s.NewScore,
		Summary:       s.Summary,
	}
}

// OptimizationResult is the outcome of a resume optimization for a specific
// job, either freshly produced by POST /jobs/{id}/optimize/{userId} or
// reconstructed from a persisted optimized-status.
type OptimizationResult struct {
	OriginalScore int    `json:"original_score"`
	NewScore      int    `json:"new_score"`
	Summary       string `json:"summary,omitempty"`
}

// Improvement returns the score delta produced by the optimization.
func (r *OptimizationResult) Improvement() int {
	return r.NewScore - r.OriginalScore
}

// OptimizeRequest is the body of POST /jobs/{id}/optimize/{userId}.
type OptimizeRequest struct {
	CurrentScore int `json:"current_score"`
}
