// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
)

// CachingSnapshotRepository decorates a SnapshotRepository with Redis caching
// of the latest snapshot per company. The latest snapshot backs the dashboard
// and is read far more often than it is written; the append-only history list
// always goes to the database.
type CachingSnapshotRepository struct {
	inner     usecase.SnapshotRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingSnapshotRepository decorates a SnapshotRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "valuation".
func NewCachingSnapshotRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SnapshotRepository, namespace string) *CachingSnapshotRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "valuation"
	}
	return &CachingSnapshotRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

var _ usecase.SnapshotRepository = (*CachingSnapshotRepository)(nil)

// Append writes the snapshot through to the database and refreshes the
// latest-snapshot cache entry. Snapshots are append-only, so the snapshot
// just written is by definition the new latest.
func (c *CachingSnapshotRepository) Append(ctx context.Context, snap *entity.ValuationSnapshot) error {
	if err := c.inner.Append(ctx, snap); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}

	key := c.latestKey(snap.CompanyID)
	if b, err := json.Marshal(snap); err == nil {
		// Best effort: a failed cache write never fails the append
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	} else {
		_ = c.rdb.Del(ctx, key).Err()
	}
	return nil
}

// LatestByCompany retrieves the latest snapshot, checking cache first then
// falling back to the database. A company with no snapshots yet is not
// cached; (nil, nil) passes straight through.
func (c *CachingSnapshotRepository) LatestByCompany(ctx context.Context, companyID uint) (*entity.ValuationSnapshot, error) {
	if c.rdb == nil {
		return c.inner.LatestByCompany(ctx, companyID)
	}

	key := c.latestKey(companyID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var snap entity.ValuationSnapshot
		if err := json.Unmarshal(b, &snap); err == nil {
			return &snap, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	snap, err := c.inner.LatestByCompany(ctx, companyID)
	if err != nil || snap == nil {
		return snap, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(snap); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return snap, nil
}

// ListByCompany always reads the history from the database.
func (c *CachingSnapshotRepository) ListByCompany(ctx context.Context, companyID uint, limit int) ([]entity.ValuationSnapshot, error) {
	return c.inner.ListByCompany(ctx, companyID, limit)
}

// latestKey generates the cache key for a company's latest snapshot.
func (c *CachingSnapshotRepository) latestKey(companyID uint) string {
	return fmt.Sprintf("%s:latest:%d", c.namespace, companyID)
}
