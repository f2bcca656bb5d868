package scores

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeFetcher returns canned scores and records which jobs were fetched.
type fakeFetcher struct {
	mu      sync.Mutex
	scores  map[int]int
	err     error
	calls   []int
	block   chan struct{} // when non-nil, fetches wait here
	inUse   atomic.Int32
	maxSeen atomic.Int32
}

func (f *fakeFetcher) SimpleScore(ctx context.Context, jobID, _ int) (int, error) {
	cur := f.inUse.Add(1)
	defer f.inUse.Add(-1)
	for {
		prev := f.maxSeen.Load()
		if cur <= prev || f.maxSeen.CompareAndSwap(prev, cur) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, jobID)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if f.err != nil {
		return 0, f.err
	}
	return f.scores[jobID], nil
}

func (f *fakeFetcher) called(jobID int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.calls {
		if id == jobID {
			return true
		}
	}
	return false
}

func waitSettled(t *testing.T, l *Loader, jobID int) int {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if score, ok := l.Score(jobID); ok {
			return score
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("score for job %d never settled", jobID)
	return 0
}

func TestStaggerDelayBuckets(t *testing.T) {
	l := NewLoader(&fakeFetcher{}, 3)

	// id mod 5 == 0 fires immediately; id mod 5 == 2 waits two units.
	if d := l.StaggerDelay(5); d != 0 {
		t.Errorf("job 5: expected 0 delay, got %v", d)
	}
	if d := l.StaggerDelay(7); d != 1000*time.Millisecond {
		t.Errorf("job 7: expected 1s delay, got %v", d)
	}

	// Same bucket, same delay: the heuristic does not separate collisions.
	if l.StaggerDelay(3) != l.StaggerDelay(13) {
		t.Error("jobs 3 and 13 share a bucket and must share a delay")
	}
}

func TestLoadCachesScore(t *testing.T) {
	f := &fakeFetcher{scores: map[int]int{10: 77}}
	l := NewLoader(f, 3, WithStaggerUnit(0))

	l.Load(context.Background(), 10)
	if got := waitSettled(t, l, 10); got != 77 {
		t.Fatalf("expected 77, got %d", got)
	}
	if l.StateOf(10) != StateLoaded {
		t.Fatal("expected StateLoaded")
	}

	// A settled job is not refetched.
	l.Load(context.Background(), 10)
	time.Sleep(20 * time.Millisecond)
	f.mu.Lock()
	n := len(f.calls)
	f.mu.Unlock()
	if n != 1 {
		t.Fatalf("expected a single fetch, got %d", n)
	}
}

func TestLoadFailurePresentsAsZero(t *testing.T) {
	f := &fakeFetcher{err: errors.New("boom")}
	l := NewLoader(f, 3, WithStaggerUnit(0))

	l.Load(context.Background(), 6)
	if got := waitSettled(t, l, 6); got != 0 {
		t.Fatalf("failed fetch must present as 0, got %d", got)
	}
	// The cache still knows the difference.
	if l.StateOf(6) != StateFailed {
		t.Fatal("expected StateFailed")
	}
}

func TestCancelBeforeFire(t *testing.T) {
	f := &fakeFetcher{scores: map[int]int{9: 50}}
	l := NewLoader(f, 3, WithStaggerUnit(time.Hour))

	l.Load(context.Background(), 9)
	l.Cancel(9)

	time.Sleep(50 * time.Millisecond)
	if f.called(9) {
		t.Fatal("cancelled job must not fire its fetch")
	}
	if _, ok := l.Score(9); ok {
		t.Fatal("cancelled job must stay unknown")
	}
}

func TestCancelInFlightDropsResponse(t *testing.T) {
	f := &fakeFetcher{scores: map[int]int{5: 64}, block: make(chan struct{})}
	l := NewLoader(f, 3, WithStaggerUnit(0))

	l.Load(context.Background(), 5)
	deadline := time.Now().Add(2 * time.Second)
	for !f.called(5) && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}

	l.Cancel(5)
	close(f.block)

	time.Sleep(50 * time.Millisecond)
	if _, ok := l.Score(5); ok {
		t.Fatal("late response for a cancelled item must not mutate state")
	}
}

func TestOnLoadCallback(t *testing.T) {
	f := &fakeFetcher{scores: map[int]int{1: 42}}
	done := make(chan int, 1)
	l := NewLoader(f, 3, WithStaggerUnit(0), WithOnLoad(func(jobID, score int) {
		if jobID == 1 {
			done <- score
		}
	}))

	l.Load(context.Background(), 1)
	select {
	case score := <-done:
		if score != 42 {
			t.Fatalf("expected 42, got %d", score)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("onLoad never fired")
	}
}

func TestConcurrencyLimitBoundsFanOut(t *testing.T) {
	f := &fakeFetcher{scores: map[int]int{}, block: make(chan struct{})}
	for id := 1; id <= 8; id++ {
		f.scores[id] = id
	}
	l := NewLoader(f, 3, WithConcurrencyLimit(2))

	for id := 1; id <= 8; id++ {
		l.Load(context.Background(), id)
	}
	time.Sleep(100 * time.Millisecond)
	close(f.block)

	for id := 1; id <= 8; id++ {
		waitSettled(t, l, id)
	}
	if max := f.maxSeen.Load(); max > 2 {
		t.Fatalf("pool allowed %d simultaneous fetches, limit is 2", max)
	}
}

func TestCloseAbortsPending(t *testing.T) {
	f := &fakeFetcher{scores: map[int]int{2: 30}}
	l := NewLoader(f, 3, WithStaggerUnit(time.Hour))

	l.Load(context.Background(), 2)
	l.Close()

	time.Sleep(50 * time.Millisecond)
	if f.called(2) {
		t.Fatal("Close must abort pending loads")
	}
}
