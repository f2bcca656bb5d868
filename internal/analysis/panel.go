// Package analysis drives the detail pane for the selected job: the match
// breakdown, the persisted-or-fresh optimization result, and the application
// fragment for jobs already applied to.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/datahiredevops/datahire-workspace/internal/types"
)

// API is the slice of the remote client the panel needs.
type API interface {
	OptimizedStatus(ctx context.Context, jobID, userID int) (*types.OptimizedStatus, error)
	MatchAnalysis(ctx context.Context, jobID, userID int) (*types.MatchAnalysis, error)
	Optimize(ctx context.Context, jobID, userID, currentScore int) (*types.OptimizationResult, error)
	ApplicationDetail(ctx context.Context, jobID, userID int) (*types.Application, error)
}

// Phase is the panel's presentation state.
type Phase int

// Panel phases. OptimizationReady supersedes AnalysisReady: once an
// optimization exists for the selected job the raw analysis is not shown.
const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseAnalysisReady
	PhaseOptimizationReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseAnalysisReady:
		return "analysis"
	case PhaseOptimizationReady:
		return "optimized"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// ErrNotReady is returned when Optimize is called outside AnalysisReady.
var ErrNotReady = errors.New("no analysis loaded to optimize")

// View is a copy of the panel state for rendering.
type View struct {
	JobID        int
	Phase        Phase
	Analysis     *types.MatchAnalysis
	Optimization *types.OptimizationResult
	Application  *types.Application
	Err          error
}

// Panel holds the detail-pane state for exactly one selected job at a time.
// Selecting a job discards everything loaded for the previous one; nothing
// is cached per job, so every reselection re-fetches. In-flight responses
// are keyed by a generation counter and dropped when they arrive for a
// selection that is no longer current.
type Panel struct {
	mu sync.Mutex

	api    API
	userID int

	jobID        int
	gen          uint64
	phase        Phase
	analysis     *types.MatchAnalysis
	optimization *types.OptimizationResult
	application  *types.Application
	err          error

	onChange func(View)
}

// NewPanel creates an idle panel for the user.
func NewPanel(api API, userID int) *Panel {
	return &Panel{api: api, userID: userID, phase: PhaseIdle}
}

// OnChange registers a callback invoked after every committed state change.
func (p *Panel) OnChange(fn func(View)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Select makes jobID the panel's subject and loads its content. The two
// fetches are strictly ordered: the persisted-optimization check runs first
// and the raw analysis is fetched only when no optimization exists. Select
// blocks until the load settles; run it from its own goroutine to keep the
// caller responsive. A Select issued while another is in flight wins: the
// older load's result is discarded on arrival.
func (p *Panel) Select(ctx context.Context, jobID int) {
	p.mu.Lock()
	p.jobID = jobID
	p.gen++
	gen := p.gen
	p.phase = PhaseLoading
	p.analysis = nil
	p.optimization = nil
	p.application = nil
	p.err = nil
	p.mu.Unlock()
	p.changed()

	status, err := p.api.OptimizedStatus(ctx, jobID, p.userID)
	if err != nil {
		p.commitError(gen, fmt.Errorf("checking optimization status: %w", err))
		return
	}
	if status.Exists {
		p.commitOptimization(gen, status.Result())
		return
	}

	analysis, err := p.api.MatchAnalysis(ctx, jobID, p.userID)
	if err != nil {
		p.commitError(gen, fmt.Errorf("loading match analysis: %w", err))
		return
	}
	p.commitAnalysis(gen, analysis)
}

// LoadApplication fetches the persisted application fragment for the current
// selection. It renders alongside the analysis or optimization and is not a
// state-machine branch; callers invoke it only for jobs in the applied set.
func (p *Panel) LoadApplication(ctx context.Context) {
	p.mu.Lock()
	jobID, gen := p.jobID, p.gen
	p.mu.Unlock()

	app, err := p.api.ApplicationDetail(ctx, jobID, p.userID)
	if err != nil {
		log.Printf("[analysis] application detail for job %d failed: %v", jobID, err)
		return
	}

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		return
	}
	p.application = app
	p.mu.Unlock()
	p.changed()
}

// Optimize submits the current analysis score for optimization. On success
// the optimization replaces the analysis for the rest of the session. On
// failure the error is returned to surface to the user and the panel stays
// in AnalysisReady.
func (p *Panel) Optimize(ctx context.Context) (*types.OptimizationResult, error) {
	p.mu.Lock()
	if p.phase != PhaseAnalysisReady || p.analysis == nil {
		p.mu.Unlock()
		return nil, ErrNotReady
	}
	jobID, gen := p.jobID, p.gen
	currentScore := p.analysis.MatchScore
	p.mu.Unlock()

	result, err := p.api.Optimize(ctx, jobID, p.userID, currentScore)
	if err != nil {
		return nil, fmt.Errorf("optimizing resume for job %d: %w", jobID, err)
	}

	p.commitOptimization(gen, result)
	return result, nil
}

// View returns a copy of the current panel state.
func (p *Panel) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

func (p *Panel) viewLocked() View {
	return View{
		JobID:        p.jobID,
		Phase:        p.phase,
		Analysis:     p.analysis,
		Optimization: p.optimization,
		Application:  p.application,
		Err:          p.err,
	}
}

// commitAnalysis installs a loaded analysis unless the selection moved on.
func (p *Panel) commitAnalysis(gen uint64, analysis *types.MatchAnalysis) {
	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		return
	}
	p.analysis = analysis
	p.phase = PhaseAnalysisReady
	p.mu.Unlock()
	p.changed()
}

func (p *Panel) commitOptimization(gen uint64, result *types.OptimizationResult) {
	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		return
	}
	p.optimization = result
	p.analysis = nil
	p.phase = PhaseOptimizationReady
	p.mu.Unlock()
	p.changed()
}

func (p *Panel) commitError(gen uint64, err error) {
	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		return
	}
	p.err = err
	p.phase = PhaseError
	p.mu.Unlock()
	p.changed()
}

// changed invokes the registered callback with a fresh view.
func (p *Panel) changed() {
	p.mu.Lock()
	fn := p.onChange
	view := p.viewLocked()
	p.mu.Unlock()
	if fn != nil {
		fn(view)
	}
}
