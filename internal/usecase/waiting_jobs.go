package usecase

import (
	"log/slog"

	"sprinkler-jobs/internal/domain"
)

// WaitingJobsController is the view-model of the waiting jobs list.
type WaitingJobsController struct {
	*jobList
}

// NewWaitingJobsController creates a WaitingJobsController with an empty list.
func NewWaitingJobsController(gateway domain.JobGateway, logger *slog.Logger) *WaitingJobsController {
	return &WaitingJobsController{
		jobList: newJobList(domain.ListWaiting, gateway, logger),
	}
}
