// Package scores loads per-job match scores for the visible list. Each list
// item requests its own score; the loader spreads the resulting fan-out with
// a per-job stagger delay and drops responses that arrive after the item was
// cancelled.
package scores

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultStaggerUnit is the delay step applied per stagger bucket.
const DefaultStaggerUnit = 500 * time.Millisecond

// staggerBuckets is the number of waves the fan-out is spread into.
const staggerBuckets = 5

// Fetcher fetches one job's match percentage for a user.
type Fetcher interface {
	SimpleScore(ctx context.Context, jobID, userID int) (int, error)
}

// State describes what the cache knows about one job's score. Absence of a
// score means "not yet loaded", not zero.
type State int

// Cache states for a job id.
const (
	StateUnknown State = iota
	StateLoaded
	StateFailed
)

// Loader caches (job, user) match scores. By default each load waits
// (jobID mod 5) * unit before firing, spreading a freshly mounted list into
// five waves. This is an admission heuristic, not rate limiting: two jobs in
// the same bucket still fire together, and the bucket is keyed on id, not
// list position, so reordering the list does not change the groups.
// WithConcurrencyLimit replaces the heuristic with a bounded worker pool.
type Loader struct {
	mu sync.Mutex

	fetcher Fetcher
	userID  int
	unit    time.Duration
	sem     chan struct{}

	scores  map[int]int
	states  map[int]State
	pending map[int]context.CancelFunc

	onLoad func(jobID, score int)
}

// Option configures a Loader.
type Option func(*Loader)

// WithStaggerUnit overrides the stagger delay step.
func WithStaggerUnit(d time.Duration) Option {
	return func(l *Loader) { l.unit = d }
}

// WithConcurrencyLimit switches the loader from the stagger heuristic to a
// pool allowing at most n simultaneous fetches.
func WithConcurrencyLimit(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.sem = make(chan struct{}, n)
		}
	}
}

// WithOnLoad registers a callback invoked after every settled load.
func WithOnLoad(fn func(jobID, score int)) Option {
	return func(l *Loader) { l.onLoad = fn }
}

// NewLoader creates a loader for one user's scores.
func NewLoader(fetcher Fetcher, userID int, opts ...Option) *Loader {
	l := &Loader{
		fetcher: fetcher,
		userID:  userID,
		unit:    DefaultStaggerUnit,
		scores:  make(map[int]int),
		states:  make(map[int]State),
		pending: make(map[int]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// StaggerDelay returns the delay a job waits before its fetch fires.
func (l *Loader) StaggerDelay(jobID int) time.Duration {
	return time.Duration(jobID%staggerBuckets) * l.unit
}

// Load schedules a score fetch for the job. Already-settled and already-
// pending jobs are left alone. The fetch runs in the background; Cancel
// discards it if the list item unmounts first.
func (l *Loader) Load(ctx context.Context, jobID int) {
	l.mu.Lock()
	if l.states[jobID] != StateUnknown {
		l.mu.Unlock()
		return
	}
	if _, inFlight := l.pending[jobID]; inFlight {
		l.mu.Unlock()
		return
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	l.pending[jobID] = cancel
	l.mu.Unlock()

	go l.run(fetchCtx, jobID)
}

// run waits out the admission delay (or a pool slot), performs the fetch and
// commits the result unless the job was cancelled in the meantime.
func (l *Loader) run(ctx context.Context, jobID int) {
	if l.sem != nil {
		select {
		case l.sem <- struct{}{}:
			defer func() { <-l.sem }()
		case <-ctx.Done():
			l.drop(jobID)
			return
		}
	} else if delay := l.StaggerDelay(jobID); delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			l.drop(jobID)
			return
		}
	}

	score, err := l.fetcher.SimpleScore(ctx, jobID, l.userID)
	if ctx.Err() != nil {
		// Cancelled while in flight; the response is stale.
		l.drop(jobID)
		return
	}

	state := StateLoaded
	if err != nil {
		// Historically a failed fetch presents as 0%. The cache keeps the
		// failure distinct so callers can tell it from a genuine zero.
		log.Printf("[scores] score fetch for job %d failed: %v", jobID, err)
		score, state = 0, StateFailed
	}

	l.mu.Lock()
	delete(l.pending, jobID)
	l.scores[jobID] = score
	l.states[jobID] = state
	onLoad := l.onLoad
	l.mu.Unlock()

	if onLoad != nil {
		onLoad(jobID, score)
	}
}

// drop clears the pending record for a cancelled job without touching the
// cache.
func (l *Loader) drop(jobID int) {
	l.mu.Lock()
	delete(l.pending, jobID)
	l.mu.Unlock()
}

// Cancel aborts a pending load, as when the job's list item unmounts. A
// settled score is kept.
func (l *Loader) Cancel(jobID int) {
	l.mu.Lock()
	cancel, ok := l.pending[jobID]
	l.mu.Unlock()
	if ok {
		cancel()
	}
}

// Close aborts every pending load.
func (l *Loader) Close() {
	l.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(l.pending))
	for _, cancel := range l.pending {
		cancels = append(cancels, cancel)
	}
	l.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// Score returns the presented score for a job and whether it has settled.
// Failed loads present as 0, indistinguishable from a genuine zero match,
// to preserve the workspace's observable behavior.
func (l *Loader) Score(jobID int) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.states[jobID] == StateUnknown {
		return 0, false
	}
	return l.scores[jobID], true
}

// StateOf returns the cache state for a job.
func (l *Loader) StateOf(jobID int) State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.states[jobID]
}
