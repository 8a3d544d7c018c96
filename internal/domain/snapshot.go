package domain

import (
	"context"
	"errors"
	"time"
)

// ErrSnapshotNotFound is returned when no snapshot was published for a list.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is the list a controller held at a point in time.
type Snapshot struct {
	List    ListKind  `json:"list" yaml:"list"`
	TakenAt time.Time `json:"taken_at" yaml:"taken_at"`
	Jobs    []Job     `json:"jobs" yaml:"jobs"`
}

// SnapshotStore keeps the latest snapshot of each job list.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *Snapshot) error
	Get(ctx context.Context, list ListKind) (*Snapshot, error)
}
