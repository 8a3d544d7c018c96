package http

import (
	"sprinkler-jobs/internal/domain"
	"sprinkler-jobs/internal/usecase"
)

// AddJobRequest is the body of POST /view/jobs/active. Duration is the raw
// form text; it is parsed, not validated.
type AddJobRequest struct {
	SprinklerID string `json:"sprinkler_id"`
	Duration    string `json:"duration"`
}

// ToForm converts the request to the controller's form inputs.
func (r *AddJobRequest) ToForm() usecase.JobForm {
	return usecase.JobForm{
		SprinklerID: r.SprinklerID,
		Duration:    r.Duration,
	}
}

// SetCourtRequest is the body of POST /view/courts/{sprinkler_id}.
type SetCourtRequest struct {
	Duration string `json:"duration"`
}

// JobListResponse is what every /view/jobs endpoint returns.
type JobListResponse struct {
	List domain.ListKind `json:"list"`
	Jobs []domain.Job    `json:"jobs"`
}

// CourtsResponse is what every /view/courts endpoint returns.
type CourtsResponse struct {
	Courts []domain.Court `json:"courts"`
}
