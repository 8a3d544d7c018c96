// internal/infra/etcd/etcd_snapshot_store.go
package etcd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"sprinkler-jobs/internal/domain"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	SnapshotDir = "/sprinkler/snapshots/"
)

// KV is the part of the etcd client the store needs.
type KV interface {
	Put(ctx context.Context, key, val string, opts ...clientv3.OpOption) (*clientv3.PutResponse, error)
	Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error)
}

type etcdSnapshotStore struct {
	kv     KV
	logger *slog.Logger
	tracer trace.Tracer
}

// NewEtcdSnapshotStore creates a SnapshotStore backed by etcd. Pass a
// *clientv3.Client or its KV.
func NewEtcdSnapshotStore(kv KV, logger *slog.Logger) domain.SnapshotStore {
	return &etcdSnapshotStore{
		kv:     kv,
		logger: logger.With("component", "snapshot-store"),
		tracer: otel.Tracer("sprinkler-jobs-etcd-store"),
	}
}

// SnapshotKey is where the snapshot of a list lives.
func SnapshotKey(list domain.ListKind) string {
	return path.Join(SnapshotDir, string(list))
}

// Save overwrites the snapshot of snapshot.List.
func (s *etcdSnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	ctx, span := s.tracer.Start(ctx, "repo.etcd.SaveSnapshot")
	defer span.End()

	payload, err := json.Marshal(snapshot)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal snapshot")
		return fmt.Errorf("failed to marshal %s snapshot to JSON: %w", snapshot.List, err)
	}

	key := SnapshotKey(snapshot.List)
	span.SetAttributes(
		attribute.String("job.list", string(snapshot.List)),
		attribute.String("etcd.key", key),
		attribute.Int("job.count", len(snapshot.Jobs)),
	)

	if _, err := s.kv.Put(ctx, key, string(payload)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to put snapshot to etcd")
		return fmt.Errorf("failed to save %s snapshot to etcd: %w", snapshot.List, err)
	}
	s.logger.Debug("snapshot published", "list", snapshot.List, "jobs", len(snapshot.Jobs))
	return nil
}

// Get returns the last snapshot saved for list.
func (s *etcdSnapshotStore) Get(ctx context.Context, list domain.ListKind) (*domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "repo.etcd.GetSnapshot")
	defer span.End()

	key := SnapshotKey(list)
	span.SetAttributes(attribute.String("job.list", string(list)), attribute.String("etcd.key", key))

	resp, err := s.kv.Get(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get snapshot from etcd")
		return nil, fmt.Errorf("failed to get %s snapshot from etcd: %w", list, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, domain.ErrSnapshotNotFound
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(resp.Kvs[0].Value, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s snapshot from JSON: %w", list, err)
	}
	return &snapshot, nil
}
