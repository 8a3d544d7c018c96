package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ListKind names one of the job collections served under /jobs.
type ListKind string

const (
	ListActive  ListKind = "active"
	ListWaiting ListKind = "waiting"
)

// ParseListKind maps a path segment or CLI argument onto a ListKind.
func ParseListKind(s string) (ListKind, error) {
	switch k := ListKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ListActive, ListWaiting:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownListKind, s)
	}
}

// Duration is a job runtime in whole seconds. A Duration parsed from text
// without a leading integer is invalid and travels on the wire as null.
type Duration struct {
	Seconds int
	Valid   bool
}

// Seconds returns a valid Duration.
func Seconds(n int) Duration {
	return Duration{Seconds: n, Valid: true}
}

// ParseDuration reads the leading integer of s. Surrounding whitespace and
// a sign are accepted and anything after the digits is ignored, so "12s"
// and "12.7" both give 12. Input with no leading digits is invalid.
func ParseDuration(s string) Duration {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return Duration{}
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// out of int range
		return Duration{}
	}
	return Seconds(n)
}

func (d Duration) String() string {
	if !d.Valid {
		return "NaN"
	}
	return strconv.Itoa(d.Seconds)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(d.Seconds)), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = Duration{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return fmt.Errorf("duration must be a number or null, got %s", data)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be a number or null: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*d = Seconds(int(i))
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("invalid duration %s: %w", n, err)
	}
	*d = Seconds(int(f))
	return nil
}

// MarshalYAML renders an invalid Duration as null.
func (d Duration) MarshalYAML() (interface{}, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.Seconds, nil
}

// Job is a scheduled irrigation task for one sprinkler. This client only
// ever creates Jobs for submission; everything else is a server snapshot.
type Job struct {
	SprinklerID  string   `json:"sprinkler_id" yaml:"sprinkler_id"`
	Duration     Duration `json:"duration" yaml:"duration"`
	HighPriority bool     `json:"high_priority" yaml:"high_priority"`

	// Set by the server, never sent.
	JobID     int      `json:"job_id,omitempty" yaml:"job_id,omitempty"`
	StartTime *float64 `json:"start_time,omitempty" yaml:"start_time,omitempty"`
}

// NewJob builds the value the add form submits. High priority cannot be
// requested from this client.
func NewJob(sprinklerID string, duration Duration) Job {
	return Job{
		SprinklerID:  sprinklerID,
		Duration:     duration,
		HighPriority: false,
	}
}

// Receipt is what the server acknowledges on job submission.
type Receipt struct {
	JobID int `json:"job_id"`
}
