// internal/scheduler/cron_refresher.go
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sprinkler-jobs/internal/domain"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CronRefresher periodically refreshes view-models so the console always
// shows a recent server state.
type CronRefresher struct {
	cron    *cron.Cron
	store   domain.SnapshotStore
	timeout time.Duration
	logger  *slog.Logger
	tracer  trace.Tracer

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// NewCronRefresher creates a refresher. store may be nil, in which case job
// lists are not published anywhere. timeout bounds a single refresh run.
func NewCronRefresher(store domain.SnapshotStore, timeout time.Duration, logger *slog.Logger) *CronRefresher {
	return &CronRefresher{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		store:   store,
		timeout: timeout,
		logger:  logger.With("component", "cron-refresher"),
		tracer:  otel.Tracer("sprinkler-jobs-scheduler"),
		entries: make(map[string]cron.EntryID),
	}
}

// Start runs the schedule until ctx is cancelled, then waits for running
// refreshes to finish.
func (s *CronRefresher) Start(ctx context.Context) error {
	s.logger.Info("cron refresher started")
	s.cron.Start()
	<-ctx.Done()
	s.logger.Info("cron refresher stopping...")
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("cron refresher stopped")
	return ctx.Err()
}

// Add schedules r under name, replacing an earlier entry with that name.
// Job lists are published to the snapshot store after every refresh.
func (s *CronRefresher) Add(name, schedule string, r domain.Refresher) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.entries[name]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, name)
	}

	wrapper := &refreshJob{
		name:      name,
		refresher: r,
		store:     s.store,
		timeout:   s.timeout,
		logger:    s.logger.With("target", name),
		tracer:    s.tracer,
	}

	entryID, err := s.cron.AddJob(schedule, wrapper)
	if err != nil {
		return fmt.Errorf("failed to schedule refresh of %s with %q: %w", name, schedule, err)
	}
	s.entries[name] = entryID
	s.logger.Info("scheduled refresh", "target", name, "schedule", schedule)
	return nil
}

// Remove unschedules name. Unknown names are ignored.
func (s *CronRefresher) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.entries[name]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, name)
		s.logger.Info("unscheduled refresh", "target", name)
	}
}

// RunNow performs one refresh of every scheduled target.
func (s *CronRefresher) RunNow() {
	s.mu.Lock()
	ids := make([]cron.EntryID, 0, len(s.entries))
	for _, id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		if entry := s.cron.Entry(id); entry.Valid() {
			entry.WrappedJob.Run()
		}
	}
}

// refreshJob adapts a Refresher to cron.Job.
type refreshJob struct {
	name      string
	refresher domain.Refresher
	store     domain.SnapshotStore
	timeout   time.Duration
	logger    *slog.Logger
	tracer    trace.Tracer
}

func (j *refreshJob) Run() {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	ctx, span := j.tracer.Start(ctx, "scheduler.Refresh",
		trace.WithAttributes(attribute.String("refresh.target", j.name)))
	defer span.End()

	j.refresher.Refresh(ctx)

	lister, ok := j.refresher.(domain.JobLister)
	if !ok || j.store == nil {
		return
	}
	snapshot := &domain.Snapshot{
		List:    lister.Kind(),
		TakenAt: time.Now().UTC(),
		Jobs:    lister.Jobs(),
	}
	if err := j.store.Save(ctx, snapshot); err != nil {
		j.logger.Error("failed to publish snapshot", "error", err)
		span.RecordError(err)
	}
}
