package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"evidence_backend/internal/feature/crossval/adapters"
	"evidence_backend/internal/feature/crossval/usecase"
	"evidence_backend/internal/platform/cache"
)

// NewWeightRepository creates a WeightRepository implementation.
// If Redis is available, the GORM repository is wrapped with a caching decorator.
func NewWeightRepository(rdb *redis.Client, db *gorm.DB) usecase.WeightRepository {
	repo := adapters.NewWeightRepository(db)
	if rdb != nil {
		return cache.NewCachingWeightRepository(rdb, 5*time.Minute, repo, "weights")
	}
	return repo
}
