package usecase

import (
	"context"
	"time"
)

// SnapshotCache is the redis boundary for serialized ranking snapshots and
// per-user refresh locks. All methods degrade to no-ops when the backend is
// down.
type SnapshotCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}
