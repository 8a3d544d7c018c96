package domain

import (
	"context"
	"errors"
)

var (
	// ErrUnexpectedStatus is wrapped by gateway errors for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrUnknownListKind is returned for a list name other than active or waiting.
	ErrUnknownListKind = errors.New("unknown job list")
)

// JobGateway is the REST surface of the sprinkler job service.
type JobGateway interface {
	// List returns the jobs currently in the given collection.
	List(ctx context.Context, kind ListKind) ([]Job, error)
	// ListAll returns every job the server knows about.
	ListAll(ctx context.Context) ([]Job, error)
	// Submit posts a new job.
	Submit(ctx context.Context, job Job) (Receipt, error)
	// Remove deletes the job of a sprinkler from the given collection.
	Remove(ctx context.Context, kind ListKind, sprinklerID string) error
	// ListCourts returns the status of every court.
	ListCourts(ctx context.Context) ([]Court, error)
	// SetCourtDuration starts a job on a court or changes the running one.
	SetCourtDuration(ctx context.Context, sprinklerID string, duration Duration) error
}
