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

const courtsList = "courts"

// CourtsController is the view-model of the per-court status board.
type CourtsController struct {
	gateway domain.JobGateway
	logger  *slog.Logger
	tracer  trace.Tracer

	mu     sync.RWMutex
	courts []domain.Court
}

func NewCourtsController(gateway domain.JobGateway, logger *slog.Logger) *CourtsController {
	return &CourtsController{
		gateway: gateway,
		logger:  logger.With("component", "courts"),
		tracer:  otel.Tracer("sprinkler-jobs-usecase"),
		courts:  []domain.Court{},
	}
}

// Courts returns a copy of the courts currently displayed.
func (c *CourtsController) Courts() []domain.Court {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Court, len(c.courts))
	copy(out, c.courts)
	return out
}

// Refresh reloads the board; a failure empties it.
func (c *CourtsController) Refresh(ctx context.Context) {
	ctx, span := c.tracer.Start(ctx, "usecase.RefreshCourts")
	defer span.End()

	courts, err := c.gateway.ListCourts(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch courts")
		c.logger.Warn("refresh failed, clearing courts", "error", err)
		metrics.ListRefreshTotal.WithLabelValues(courtsList, "error").Inc()
		courts = []domain.Court{}
	} else {
		metrics.ListRefreshTotal.WithLabelValues(courtsList, "ok").Inc()
	}

	c.mu.Lock()
	c.courts = courts
	c.mu.Unlock()
	metrics.ListJobs.WithLabelValues(courtsList).Set(float64(len(courts)))
}

// SetDuration asks the server to water a court for the given duration text,
// parsed like the add-job form. Success refreshes the board.
func (c *CourtsController) SetDuration(ctx context.Context, sprinklerID, duration string) {
	d := domain.ParseDuration(duration)
	ctx, span := c.tracer.Start(ctx, "usecase.SetCourtDuration", trace.WithAttributes(
		attribute.String("job.sprinkler_id", sprinklerID),
		attribute.String("job.duration", d.String()),
	))
	defer span.End()

	if err := c.gateway.SetCourtDuration(ctx, sprinklerID, d); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set court duration")
		c.logger.Warn("set court duration failed", "sprinkler_id", sprinklerID, "error", err)
		return
	}
	c.Refresh(ctx)
}
