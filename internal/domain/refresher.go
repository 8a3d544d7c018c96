package domain

import "context"

// Refresher is a view-model that reloads its state from the server.
// Failures are absorbed by the implementation.
type Refresher interface {
	Refresh(ctx context.Context)
}

// JobLister is a Refresher over a job collection.
type JobLister interface {
	Refresher
	Kind() ListKind
	Jobs() []Job
}
