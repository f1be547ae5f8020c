package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	valuationadapters "github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/adapters"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
	"github.com/bradfeldman/exit-osx-sub011/internal/platform/cache"
)

// NewSnapshotRepository creates the snapshot repository, wrapped with Redis
// caching of the latest snapshot per company. With a nil Redis client the
// decorator passes everything through to the database.
func NewSnapshotRepository(rdb *redis.Client, db *gorm.DB) usecase.SnapshotRepository {
	inner := valuationadapters.NewSnapshotRepository(db)
	return cache.NewCachingSnapshotRepository(rdb, 5*time.Minute, inner, "valuation")
}
