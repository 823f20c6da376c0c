// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"evidence_backend/internal/feature/crossval/domain/entity"
	"evidence_backend/internal/feature/crossval/usecase"
)

// CachingWeightRepository decorates a WeightRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. The weight table changes rarely but is
// read on every analysis, so a short TTL keeps reads off the database.
type CachingWeightRepository struct {
	inner     usecase.WeightRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingWeightRepository decorates a WeightRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "weights".
func NewCachingWeightRepository(rdb *redis.Client, ttl time.Duration, inner usecase.WeightRepository, namespace string) *CachingWeightRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "weights"
	}
	return &CachingWeightRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// LoadWeights retrieves the weight table, checking cache first then falling
// back to the underlying repository.
func (c *CachingWeightRepository) LoadWeights(ctx context.Context) (entity.CategoryWeights, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.LoadWeights(ctx)
	}

	key := c.cacheKey()

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.CategoryWeights
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the repository
	out, err := c.inner.LoadWeights(ctx)
	if err != nil {
		return entity.CategoryWeights{}, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Invalidate drops the cached weight table. Called after upserts so the next
// analysis sees fresh weights.
func (c *CachingWeightRepository) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.cacheKey()).Err()
}

// cacheKey generates the cache key for the weight table.
func (c *CachingWeightRepository) cacheKey() string {
	return c.namespace + ":table"
}
