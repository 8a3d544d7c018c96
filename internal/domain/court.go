package domain

import (
	"encoding/json"
	"fmt"
)

// CourtStatus tells whether a court's sprinkler currently has a job.
type CourtStatus string

const (
	CourtActive   CourtStatus = "active"
	CourtInactive CourtStatus = "inactive"
)

// Court is one entry of GET /courts. The server sends either the job that
// occupies the court or a bare {"sprinkler_id", "status": "inactive"}.
type Court struct {
	SprinklerID string      `json:"sprinkler_id" yaml:"sprinkler_id"`
	Status      CourtStatus `json:"status" yaml:"status"`
	Job         *Job        `json:"job,omitempty" yaml:"job,omitempty"`
}

func (c *Court) UnmarshalJSON(data []byte) error {
	var probe struct {
		SprinklerID string      `json:"sprinkler_id"`
		Status      CourtStatus `json:"status"`
		Job         *Job        `json:"job"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("invalid court entry: %w", err)
	}

	if probe.Status != "" && probe.Status != CourtActive {
		*c = Court{SprinklerID: probe.SprinklerID, Status: probe.Status}
		return nil
	}
	if probe.Job != nil {
		*c = Court{SprinklerID: probe.SprinklerID, Status: CourtActive, Job: probe.Job}
		return nil
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return fmt.Errorf("invalid job for court %s: %w", probe.SprinklerID, err)
	}
	*c = Court{SprinklerID: job.SprinklerID, Status: CourtActive, Job: &job}
	return nil
}
