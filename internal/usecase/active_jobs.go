package usecase

import (
	"context"
	"log/slog"
	"sync"

	"sprinkler-jobs/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// JobForm holds the raw text of the add-job inputs.
type JobForm struct {
	SprinklerID string `json:"sprinkler_id"`
	Duration    string `json:"duration"`
}

// ActiveJobsController is the view-model of the active jobs list and the
// add-job form next to it.
type ActiveJobsController struct {
	*jobList

	formMu sync.Mutex
	form   JobForm
}

// NewActiveJobsController creates an ActiveJobsController with an empty list.
func NewActiveJobsController(gateway domain.JobGateway, logger *slog.Logger) *ActiveJobsController {
	return &ActiveJobsController{
		jobList: newJobList(domain.ListActive, gateway, logger),
	}
}

// SetForm replaces the form inputs.
func (c *ActiveJobsController) SetForm(form JobForm) {
	c.formMu.Lock()
	c.form = form
	c.formMu.Unlock()
}

// Form returns the current form inputs.
func (c *ActiveJobsController) Form() JobForm {
	c.formMu.Lock()
	defer c.formMu.Unlock()
	return c.form
}

// AddJob submits the form as a new low priority job and clears the form.
// On success the active list is refreshed once; a failed submit is dropped.
func (c *ActiveJobsController) AddJob(ctx context.Context) {
	c.formMu.Lock()
	form := c.form
	c.form = JobForm{}
	c.formMu.Unlock()

	c.submit(ctx, form)
}

// AddJobFrom is AddJob for inputs that arrive with the request, such as a
// console POST. form is submitted as given and the shared form is cleared,
// so concurrent callers never submit each other's inputs.
func (c *ActiveJobsController) AddJobFrom(ctx context.Context, form JobForm) {
	c.formMu.Lock()
	c.form = JobForm{}
	c.formMu.Unlock()

	c.submit(ctx, form)
}

func (c *ActiveJobsController) submit(ctx context.Context, form JobForm) {
	job := domain.NewJob(form.SprinklerID, domain.ParseDuration(form.Duration))

	ctx, span := c.tracer.Start(ctx, "usecase.AddJob", trace.WithAttributes(
		attribute.String("job.sprinkler_id", job.SprinklerID),
		attribute.String("job.duration", job.Duration.String()),
	))
	defer span.End()

	receipt, err := c.gateway.Submit(ctx, job)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit job")
		c.logger.Warn("add job failed", "sprinkler_id", job.SprinklerID, "error", err)
		return
	}
	c.logger.Info("job added", "sprinkler_id", job.SprinklerID, "job_id", receipt.JobID)
	c.Refresh(ctx)
}
