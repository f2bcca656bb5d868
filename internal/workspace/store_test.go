package workspace

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/datahiredevops/datahire-workspace/internal/types"
)

func newPopulatedStore(t *testing.T, jobIDs ...int) *Store {
	t.Helper()
	s := NewStore()
	s.SetJobs(jobList(jobIDs...))
	return s
}

func TestSelectionDefaultsToFirstVisible(t *testing.T) {
	s := newPopulatedStore(t, 1, 2, 3)
	id, ok := s.Selected()
	if !ok || id != 1 {
		t.Fatalf("expected selection 1, got %d (ok=%v)", id, ok)
	}
}

func TestSelectionEmptyListIsNone(t *testing.T) {
	s := NewStore()
	s.SetJobs(nil)
	if _, ok := s.Selected(); ok {
		t.Fatal("expected no selection for empty list")
	}
}

func TestSelectIgnoresInvisibleJob(t *testing.T) {
	s := newPopulatedStore(t, 1, 2)
	s.Hide(2)
	s.Select(2)
	if id, _ := s.Selected(); id == 2 {
		t.Fatal("selected a hidden job")
	}
}

func TestSelectionSurvivesUnrelatedChange(t *testing.T) {
	s := newPopulatedStore(t, 1, 2, 3)
	s.Select(2)
	s.Hide(3)
	if id, ok := s.Selected(); !ok || id != 2 {
		t.Fatalf("selection should survive hiding another job, got %d", id)
	}
}

func TestSelectionFallsBackWhenHidden(t *testing.T) {
	s := newPopulatedStore(t, 1, 2, 3)
	s.Select(2)
	s.Hide(2)
	id, ok := s.Selected()
	if !ok || id != 1 {
		t.Fatalf("expected fallback to first visible (1), got %d (ok=%v)", id, ok)
	}
}

// Switching to a tab where the manual selection is absent silently falls
// back to that tab's first job. There is no per-tab selection memory; this
// is the intended behavior, not a bug.
func TestTabSwitchDropsForeignSelection(t *testing.T) {
	s := newPopulatedStore(t, 1, 2, 3)
	s.SeedMemberships([]int{3}, nil)
	s.Select(2)

	s.SetTab(TabLiked)
	if id, ok := s.Selected(); !ok || id != 3 {
		t.Fatalf("expected liked tab to select 3, got %d (ok=%v)", id, ok)
	}

	// Switching back does not restore the old selection.
	s.SetTab(TabRecommended)
	if id, _ := s.Selected(); id != 1 {
		t.Fatalf("expected first recommended job 1, got %d", id)
	}
}

func TestSelectionAlwaysMemberOfVisible(t *testing.T) {
	s := newPopulatedStore(t, 1, 2, 3, 4)
	s.SeedMemberships([]int{2, 4}, []int{3})

	mutations := []func(){
		func() { s.SetTab(TabLiked) },
		func() { s.SetQuery("acme") },
		func() { s.Hide(2) },
		func() { s.SetTab(TabApplied) },
		func() { s.SetQuery("") },
		func() { s.SetTab(TabRecommended) },
		func() { s.MarkApplied(1) },
	}
	for i, mutate := range mutations {
		mutate()
		snap := s.Snapshot()
		if !snap.HasSelection {
			if len(snap.Visible) != 0 {
				t.Fatalf("step %d: no selection while %d jobs visible", i, len(snap.Visible))
			}
			continue
		}
		found := false
		for _, j := range snap.Visible {
			if j.ID == snap.SelectedID {
				found = true
			}
		}
		if !found {
			t.Fatalf("step %d: selection %d not in visible %v", i, snap.SelectedID, ids(snap.Visible))
		}
	}
}

func TestMarkAppliedRemovesFromRecommended(t *testing.T) {
	s := newPopulatedStore(t, 1, 2)
	s.MarkApplied(1)

	snap := s.Snapshot()
	for _, j := range snap.Visible {
		if j.ID == 1 {
			t.Fatal("applied job still on recommended tab")
		}
	}
	if !s.IsApplied(1) {
		t.Fatal("job 1 should be applied")
	}
}

func TestToggleLikeTwiceRestoresMembership(t *testing.T) {
	s := newPopulatedStore(t, 1)
	ctx := context.Background()

	s.ToggleLike(ctx, 1)
	if !s.IsLiked(1) {
		t.Fatal("expected job 1 liked after first toggle")
	}
	s.ToggleLike(ctx, 1)
	if s.IsLiked(1) {
		t.Fatal("expected job 1 unliked after second toggle")
	}
}

type recordingPersister struct {
	mu    sync.Mutex
	calls []int
	err   error
	done  chan struct{}
}

func (p *recordingPersister) ToggleLike(_ context.Context, jobID, _ int) error {
	p.mu.Lock()
	p.calls = append(p.calls, jobID)
	p.mu.Unlock()
	close(p.done)
	return p.err
}

func TestToggleLikeIsOptimistic(t *testing.T) {
	p := &recordingPersister{done: make(chan struct{}), err: context.DeadlineExceeded}
	s := NewStore(WithLikePersister(p, 3))
	s.SetJobs(jobList(1))

	s.ToggleLike(context.Background(), 1)

	// Local set flips immediately, before (and regardless of) the remote
	// call's result.
	if !s.IsLiked(1) {
		t.Fatal("local liked set not updated optimistically")
	}
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatal("remote toggle never called")
	}
	if s.IsLiked(1) != true {
		t.Fatal("remote failure must not roll back the local set")
	}
}

func TestListenersObserveChanges(t *testing.T) {
	s := newPopulatedStore(t, 1, 2)

	var mu sync.Mutex
	var seen []Snapshot
	s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		seen = append(seen, snap)
		mu.Unlock()
	})

	s.SetTab(TabLiked)
	s.SetQuery("x")

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if seen[0].Tab != TabLiked || seen[1].Query != "x" {
		t.Fatalf("notifications out of order: %+v", seen)
	}
}

func TestSnapshotVisibleStableBetweenMutations(t *testing.T) {
	s := newPopulatedStore(t, 1, 2)
	a := s.Snapshot().Visible
	b := s.Snapshot().Visible
	if &a[0] != &b[0] {
		t.Fatal("visible slice should be shared between reads of the same generation")
	}
}

func TestSelectedJob(t *testing.T) {
	s := NewStore()
	s.SetJobs([]types.Job{{ID: 1, Title: "Backend Engineer", Company: "Acme"}})
	job, ok := s.Snapshot().SelectedJob()
	if !ok || job.Title != "Backend Engineer" {
		t.Fatalf("unexpected selected job %+v (ok=%v)", job, ok)
	}
}
