package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"sprinkler-jobs/internal/domain"
)

var errBackend = errors.New("backend unavailable")

// fakeGateway records calls and serves canned lists.
type fakeGateway struct {
	mu sync.Mutex

	lists     map[domain.ListKind][]domain.Job
	courts    []domain.Court
	listErr   error
	submitErr error
	removeErr error
	courtErr  error

	listCalls  map[domain.ListKind]int
	courtCalls int
	submitted  []domain.Job
	removed    []string
	durations  map[string]domain.Duration
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		lists:     map[domain.ListKind][]domain.Job{},
		listCalls: map[domain.ListKind]int{},
		durations: map[string]domain.Duration{},
	}
}

func (g *fakeGateway) List(_ context.Context, kind domain.ListKind) ([]domain.Job, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls[kind]++
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]domain.Job{}, g.lists[kind]...), nil
}

func (g *fakeGateway) ListAll(ctx context.Context) ([]domain.Job, error) {
	active, err := g.List(ctx, domain.ListActive)
	if err != nil {
		return nil, err
	}
	waiting, err := g.List(ctx, domain.ListWaiting)
	if err != nil {
		return nil, err
	}
	return append(active, waiting...), nil
}

func (g *fakeGateway) Submit(_ context.Context, job domain.Job) (domain.Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.submitErr != nil {
		return domain.Receipt{}, g.submitErr
	}
	g.submitted = append(g.submitted, job)
	g.lists[domain.ListActive] = append(g.lists[domain.ListActive], job)
	return domain.Receipt{JobID: len(g.submitted)}, nil
}

func (g *fakeGateway) Remove(_ context.Context, kind domain.ListKind, sprinklerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.removeErr != nil {
		return g.removeErr
	}
	g.removed = append(g.removed, string(kind)+"/"+sprinklerID)
	kept := g.lists[kind][:0]
	for _, j := range g.lists[kind] {
		if j.SprinklerID != sprinklerID {
			kept = append(kept, j)
		}
	}
	g.lists[kind] = kept
	return nil
}

func (g *fakeGateway) ListCourts(context.Context) ([]domain.Court, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.courtCalls++
	if g.courtErr != nil {
		return nil, g.courtErr
	}
	return append([]domain.Court{}, g.courts...), nil
}

func (g *fakeGateway) SetCourtDuration(_ context.Context, sprinklerID string, d domain.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.courtErr != nil {
		return g.courtErr
	}
	g.durations[sprinklerID] = d
	return nil
}

func (g *fakeGateway) calls(kind domain.ListKind) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listCalls[kind]
}

func (g *fakeGateway) fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listErr = err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
