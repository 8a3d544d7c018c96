package usecase

import (
	"context"
	"log/slog"
	"sync"

	"sprinkler-jobs/internal/domain"
	"sprinkler-jobs/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// jobList is the state shared by the list controllers: one collection on
// the server and the last snapshot of it.
type jobList struct {
	kind    domain.ListKind
	gateway domain.JobGateway
	logger  *slog.Logger
	tracer  trace.Tracer

	mu   sync.RWMutex
	jobs []domain.Job
}

func newJobList(kind domain.ListKind, gateway domain.JobGateway, logger *slog.Logger) *jobList {
	return &jobList{
		kind:    kind,
		gateway: gateway,
		logger:  logger.With("component", string(kind)+"-jobs"),
		tracer:  otel.Tracer("sprinkler-jobs-usecase"),
		jobs:    []domain.Job{},
	}
}

// Kind reports which collection the list mirrors.
func (l *jobList) Kind() domain.ListKind {
	return l.kind
}

// Jobs returns a copy of the jobs currently displayed.
func (l *jobList) Jobs() []domain.Job {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Job, len(l.jobs))
	copy(out, l.jobs)
	return out
}

// Refresh replaces the list with the server's collection. Any failure
// empties the list.
func (l *jobList) Refresh(ctx context.Context) {
	ctx, span := l.tracer.Start(ctx, "usecase.Refresh", trace.WithAttributes(
		attribute.String("job.list", string(l.kind)),
	))
	defer span.End()

	jobs, err := l.gateway.List(ctx, l.kind)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch list")
		l.logger.Warn("refresh failed, clearing list", "error", err)
		metrics.ListRefreshTotal.WithLabelValues(string(l.kind), "error").Inc()
		jobs = []domain.Job{}
	} else {
		metrics.ListRefreshTotal.WithLabelValues(string(l.kind), "ok").Inc()
	}
	span.SetAttributes(attribute.Int("job.count", len(jobs)))
	l.set(jobs)
}

// Remove deletes the sprinkler's job from this collection and refreshes.
// A failed delete changes nothing.
func (l *jobList) Remove(ctx context.Context, sprinklerID string) {
	ctx, span := l.tracer.Start(ctx, "usecase.Remove", trace.WithAttributes(
		attribute.String("job.list", string(l.kind)),
		attribute.String("job.sprinkler_id", sprinklerID),
	))
	defer span.End()

	if err := l.gateway.Remove(ctx, l.kind, sprinklerID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to remove job")
		l.logger.Warn("remove failed", "sprinkler_id", sprinklerID, "error", err)
		return
	}
	l.Refresh(ctx)
}

func (l *jobList) set(jobs []domain.Job) {
	if jobs == nil {
		jobs = []domain.Job{}
	}
	l.mu.Lock()
	l.jobs = jobs
	l.mu.Unlock()
	metrics.ListJobs.WithLabelValues(string(l.kind)).Set(float64(len(jobs)))
}
