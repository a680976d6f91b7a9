package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trading_dashboard/internal/feature/candles/domain/entity"
	"trading_dashboard/internal/feature/candles/usecase"
)

// CachingCandleRepository decorates a CandleRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Entries never outlive the next daily
// EOD refresh.
type CachingCandleRepository struct {
	inner     usecase.CandleRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

var _ usecase.CandleRepository = (*CachingCandleRepository)(nil)

// NewCachingCandleRepository decorates a CandleRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "candles".
func NewCachingCandleRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CandleRepository, namespace string) *CachingCandleRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "candles"
	}
	return &CachingCandleRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// Find retrieves candles, checking cache first then falling back to the database.
func (c *CachingCandleRepository) Find(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Find(ctx, symbol, outputsize)
	}

	return readThrough(ctx, c.rdb, c.cacheKey(symbol, outputsize), capTTL(c.ttl, c.now()),
		func(ctx context.Context) ([]entity.Candle, error) {
			return c.inner.Find(ctx, symbol, outputsize)
		})
}

// cacheKey generates a cache key for a specific query.
func (c *CachingCandleRepository) cacheKey(symbol string, outputsize int) string {
	return fmt.Sprintf("%s:%s:%d",
		c.namespace,
		safe(symbol),
		outputsize,
	)
}
