package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sprinkler-jobs/internal/domain"
)

type countingRefresher struct {
	n int32
}

func (r *countingRefresher) Refresh(context.Context) { atomic.AddInt32(&r.n, 1) }

func (r *countingRefresher) count() int { return int(atomic.LoadInt32(&r.n)) }

type stubLister struct {
	countingRefresher
	kind domain.ListKind
	jobs []domain.Job
}

func (l *stubLister) Kind() domain.ListKind { return l.kind }
func (l *stubLister) Jobs() []domain.Job    { return l.jobs }

type memoryStore struct {
	mu        sync.Mutex
	snapshots map[domain.ListKind]*domain.Snapshot
	err       error
}

func (s *memoryStore) Save(_ context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.snapshots == nil {
		s.snapshots = map[domain.ListKind]*domain.Snapshot{}
	}
	s.snapshots[snap.List] = snap
	return nil
}

func (s *memoryStore) Get(_ context.Context, list domain.ListKind) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[list]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return snap, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAddRejectsBadSchedule(t *testing.T) {
	s := NewCronRefresher(nil, time.Second, discardLogger())
	if err := s.Add("active", "whenever", &countingRefresher{}); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestRunNowPublishesJobLists(t *testing.T) {
	store := &memoryStore{}
	s := NewCronRefresher(store, time.Second, discardLogger())

	lister := &stubLister{
		kind: domain.ListWaiting,
		jobs: []domain.Job{domain.NewJob("court1", domain.Seconds(30))},
	}
	courts := &countingRefresher{}
	if err := s.Add("waiting", "@every 1h", lister); err != nil {
		t.Fatal(err)
	}
	if err := s.Add("courts", "@every 1h", courts); err != nil {
		t.Fatal(err)
	}

	s.RunNow()

	if lister.count() != 1 || courts.count() != 1 {
		t.Fatalf("expected one refresh each, got %d and %d", lister.count(), courts.count())
	}
	snap, err := store.Get(context.Background(), domain.ListWaiting)
	if err != nil {
		t.Fatalf("snapshot not published: %v", err)
	}
	if len(snap.Jobs) != 1 || snap.Jobs[0].SprinklerID != "court1" || snap.TakenAt.IsZero() {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestPublishFailureDoesNotStopRefresh(t *testing.T) {
	store := &memoryStore{err: errors.New("etcd down")}
	s := NewCronRefresher(store, time.Second, discardLogger())
	lister := &stubLister{kind: domain.ListActive}
	if err := s.Add("active", "@every 1h", lister); err != nil {
		t.Fatal(err)
	}
	s.RunNow()
	s.RunNow()
	if lister.count() != 2 {
		t.Errorf("expected two refreshes, got %d", lister.count())
	}
}

func TestAddReplacesAndRemove(t *testing.T) {
	s := NewCronRefresher(nil, 0, discardLogger())
	first, second := &countingRefresher{}, &countingRefresher{}
	if err := s.Add("active", "@every 1h", first); err != nil {
		t.Fatal(err)
	}
	if err := s.Add("active", "@every 1h", second); err != nil {
		t.Fatal(err)
	}
	s.RunNow()
	if first.count() != 0 || second.count() != 1 {
		t.Errorf("replacement failed: first=%d second=%d", first.count(), second.count())
	}

	s.Remove("active")
	s.Remove("unknown")
	s.RunNow()
	if second.count() != 1 {
		t.Errorf("removed target still refreshed: %d", second.count())
	}
}

func TestStartRunsScheduleUntilCancelled(t *testing.T) {
	s := NewCronRefresher(nil, time.Second, discardLogger())
	r := &countingRefresher{}
	if err := s.Add("active", "@every 1s", r); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for r.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if r.count() == 0 {
		t.Error("scheduled refresh never ran")
	}
}
