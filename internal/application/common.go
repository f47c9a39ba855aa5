package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/youssefbibani/platform-sport/internal/domain/capacity"
	"github.com/youssefbibani/platform-sport/internal/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// CapacityCache keeps the capacity snapshot of joinable events by slug for
// the join status read. Store keeps the snapshot with the highest revision and
// Expire refuses snapshots older than revision until the entry times out.
// Get returns an error on a miss.
type CapacityCache interface {
	Get(ctx context.Context, slug string) (capacity.Snapshot, error)
	Store(ctx context.Context, slug string, snapshot capacity.Snapshot) (bool, error)
	Expire(ctx context.Context, slug string, revision int64) error
}

// deletedRevision outranks every real revision so that a deleted event's
// snapshot can never be stored again under its slug.
const deletedRevision int64 = 1 << 53

// storeCapacity caches a committed snapshot. Cache failures never fail the request.
func storeCapacity(ctx context.Context, cache CapacityCache, slug string, snapshot capacity.Snapshot) {
	if cache == nil {
		return
	}
	if _, err := cache.Store(ctx, slug, snapshot); err != nil {
		logger.Warn("capacity cache write failed",
			zap.String("slug", slug),
			zap.Int64("revision", snapshot.Revision),
			zap.Error(err),
		)
	}
}

// expireCapacity drops the cached snapshot after a committed status or slug change.
func expireCapacity(ctx context.Context, cache CapacityCache, slug string, revision int64) {
	if cache == nil {
		return
	}
	if err := cache.Expire(ctx, slug, revision); err != nil {
		logger.Warn("capacity cache expiry failed",
			zap.String("slug", slug),
			zap.Int64("revision", revision),
			zap.Error(err),
		)
	}
}
