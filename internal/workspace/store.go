package workspace

import (
	"context"
	"log"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/datahiredevops/datahire-workspace/internal/types"
)

// LikePersister persists like toggles to the remote API. The store applies
// the toggle optimistically and only logs a remote failure; it never rolls
// the local set back.
type LikePersister interface {
	ToggleLike(ctx context.Context, jobID, userID int) error
}

// Snapshot is a read-only view of the workspace state handed to listeners
// and the presentation layer. The Visible slice is shared between snapshots
// taken from the same state generation; callers must not mutate it.
type Snapshot struct {
	Visible      []types.Job
	Tab          Tab
	Query        string
	SelectedID   int
	HasSelection bool
	Liked        []int
	Applied      []int
	Hidden       []int
}

// SelectedJob returns the selected job from the visible list.
func (s Snapshot) SelectedJob() (types.Job, bool) {
	if !s.HasSelection {
		return types.Job{}, false
	}
	for _, job := range s.Visible {
		if job.ID == s.SelectedID {
			return job, true
		}
	}
	return types.Job{}, false
}

// Store is the single owner of the workspace's mutable state. List items and
// the detail pane receive read-only snapshots; mutation intent flows back in
// through the toggle/hide/mark methods. All methods are safe for concurrent
// use; listeners are invoked outside the lock.
type Store struct {
	mu sync.Mutex

	jobs    []types.Job
	liked   mapset.Set[int]
	applied mapset.Set[int]
	hidden  mapset.Set[int]
	tab     Tab
	query   string

	selectedID   int
	hasSelection bool

	// visible is recomputed on every mutation so reads between mutations
	// return the identical slice.
	visible []types.Job

	remote    LikePersister
	userID    int
	listeners []func(Snapshot)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLikePersister wires the remote API used for optimistic like toggles.
func WithLikePersister(remote LikePersister, userID int) StoreOption {
	return func(s *Store) {
		s.remote = remote
		s.userID = userID
	}
}

// NewStore creates an empty workspace on the recommended tab.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		liked:   mapset.NewSet[int](),
		applied: mapset.NewSet[int](),
		hidden:  mapset.NewSet[int](),
		tab:     TabRecommended,
		visible: []types.Job{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a listener called after every state change.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// SetJobs replaces the canonical job collection, as on workspace mount.
func (s *Store) SetJobs(jobs []types.Job) {
	s.mu.Lock()
	s.jobs = jobs
	s.notify(s.reconcile())
}

// SeedMemberships replaces the liked and applied sets from their persisted
// server-side state. Hidden stays local-only.
func (s *Store) SeedMemberships(likedIDs, appliedIDs []int) {
	s.mu.Lock()
	s.liked = mapset.NewSet(likedIDs...)
	s.applied = mapset.NewSet(appliedIDs...)
	s.notify(s.reconcile())
}

// SetTab switches the active tab.
func (s *Store) SetTab(tab Tab) {
	if !tab.Valid() {
		return
	}
	s.mu.Lock()
	s.tab = tab
	s.notify(s.reconcile())
}

// SetQuery updates the search query.
func (s *Store) SetQuery(query string) {
	s.mu.Lock()
	s.query = query
	s.notify(s.reconcile())
}

// Select manually selects a job. The request is ignored unless the job is
// currently visible, so selection can never point outside the filtered list.
func (s *Store) Select(jobID int) {
	s.mu.Lock()
	for _, job := range s.visible {
		if job.ID == jobID {
			s.selectedID = jobID
			s.hasSelection = true
			s.notify(s.snapshotLocked())
			return
		}
	}
	s.mu.Unlock()
}

// ToggleLike flips liked membership for the job. The local set is updated
// first; the remote call runs in the background and a failure is only
// logged, matching the optimistic contract.
func (s *Store) ToggleLike(ctx context.Context, jobID int) {
	s.mu.Lock()
	if s.liked.Contains(jobID) {
		s.liked.Remove(jobID)
	} else {
		s.liked.Add(jobID)
	}
	remote, userID := s.remote, s.userID
	s.notify(s.reconcile())

	if remote != nil {
		go func() {
			if err := remote.ToggleLike(ctx, jobID, userID); err != nil {
				log.Printf("[workspace] toggle-like for job %d failed: %v", jobID, err)
			}
		}()
	}
}

// Hide adds the job to the hidden set, suppressing it on every tab.
func (s *Store) Hide(jobID int) {
	s.mu.Lock()
	s.hidden.Add(jobID)
	s.notify(s.reconcile())
}

// MarkApplied records a successful application. Applied membership is
// monotonic within a session; there is no unmark.
func (s *Store) MarkApplied(jobID int) {
	s.mu.Lock()
	s.applied.Add(jobID)
	s.notify(s.reconcile())
}

// IsApplied reports whether the job is in the applied set.
func (s *Store) IsApplied(jobID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied.Contains(jobID)
}

// IsLiked reports whether the job is in the liked set.
func (s *Store) IsLiked(jobID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liked.Contains(jobID)
}

// Snapshot returns the current read-only view.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Selected returns the selected job id, if any.
func (s *Store) Selected() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID, s.hasSelection
}

// reconcile recomputes the visible list and re-derives selection: an
// existing selection survives iff still visible, otherwise the first
// visible job is selected, or nothing when the list is empty. Must be
// called with the lock held; returns the post-change snapshot.
func (s *Store) reconcile() Snapshot {
	s.visible = Visible(s.jobs, s.tab, s.query, s.liked, s.applied, s.hidden)

	if s.hasSelection {
		still := false
		for _, job := range s.visible {
			if job.ID == s.selectedID {
				still = true
				break
			}
		}
		if !still {
			s.hasSelection = false
		}
	}
	if !s.hasSelection && len(s.visible) > 0 {
		s.selectedID = s.visible[0].ID
		s.hasSelection = true
	}
	return s.snapshotLocked()
}

// snapshotLocked builds a Snapshot. Must be called with the lock held.
func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Visible:      s.visible,
		Tab:          s.tab,
		Query:        s.query,
		SelectedID:   s.selectedID,
		HasSelection: s.hasSelection,
		Liked:        s.liked.ToSlice(),
		Applied:      s.applied.ToSlice(),
		Hidden:       s.hidden.ToSlice(),
	}
}

// notify releases the lock and invokes listeners with snap.
func (s *Store) notify(snap Snapshot) {
	listeners := make([]func(Snapshot), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}
