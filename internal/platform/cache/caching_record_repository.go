package cache

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"trading_dashboard/internal/feature/derivatives/domain/entity"
	"trading_dashboard/internal/feature/derivatives/usecase"
)

// CachingRecordRepository decorates a derivatives RecordRepository with
// Redis read-through caching. Imports change every query result, so the
// whole namespace is dropped by Invalidate rather than per key.
type CachingRecordRepository struct {
	inner     usecase.RecordRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.RecordRepository = (*CachingRecordRepository)(nil)

// NewCachingRecordRepository decorates a RecordRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "derivatives".
func NewCachingRecordRepository(rdb *redis.Client, ttl time.Duration, inner usecase.RecordRepository, namespace string) *CachingRecordRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "derivatives"
	}
	return &CachingRecordRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *CachingRecordRepository) Dates(ctx context.Context) ([]string, error) {
	if c.rdb == nil {
		return c.inner.Dates(ctx)
	}
	return readThrough(ctx, c.rdb, c.key("dates"), c.ttl, c.inner.Dates)
}

func (c *CachingRecordRepository) LatestDate(ctx context.Context) (string, error) {
	if c.rdb == nil {
		return c.inner.LatestDate(ctx)
	}
	return readThrough(ctx, c.rdb, c.key("latest"), c.ttl, c.inner.LatestDate)
}

func (c *CachingRecordRepository) FindByDate(ctx context.Context, date string, symbols []string) ([]entity.Record, error) {
	if c.rdb == nil {
		return c.inner.FindByDate(ctx, date, symbols)
	}
	return readThrough(ctx, c.rdb, c.key("records", date, symbolsDigest(symbols)), c.ttl,
		func(ctx context.Context) ([]entity.Record, error) {
			return c.inner.FindByDate(ctx, date, symbols)
		})
}

func (c *CachingRecordRepository) FindStock(ctx context.Context, symbol, date string) (*entity.Record, error) {
	if c.rdb == nil {
		return c.inner.FindStock(ctx, symbol, date)
	}
	return readThrough(ctx, c.rdb, c.key("stock", symbol, date), c.ttl,
		func(ctx context.Context) (*entity.Record, error) {
			return c.inner.FindStock(ctx, symbol, date)
		})
}

func (c *CachingRecordRepository) Count(ctx context.Context, date string) (int64, error) {
	if c.rdb == nil {
		return c.inner.Count(ctx, date)
	}
	scope := date
	if scope == "" {
		scope = "all"
	}
	return readThrough(ctx, c.rdb, c.key("count", scope), c.ttl,
		func(ctx context.Context) (int64, error) {
			return c.inner.Count(ctx, date)
		})
}

func (c *CachingRecordRepository) Industries(ctx context.Context, date string) ([]entity.IndustryCount, error) {
	if c.rdb == nil {
		return c.inner.Industries(ctx, date)
	}
	return readThrough(ctx, c.rdb, c.key("industries", date), c.ttl,
		func(ctx context.Context) ([]entity.IndustryCount, error) {
			return c.inner.Industries(ctx, date)
		})
}

// Invalidate drops every cached derivatives query.
func (c *CachingRecordRepository) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return deleteByPattern(ctx, c.rdb, c.namespace+":*")
}

// key joins the namespace and escaped parts with colons.
func (c *CachingRecordRepository) key(parts ...string) string {
	var b strings.Builder
	b.WriteString(c.namespace)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(safe(p))
	}
	return b.String()
}

// symbolsDigest identifies a symbol set independent of its order.
func symbolsDigest(symbols []string) string {
	sorted := append([]string(nil), symbols...)
	sort.Strings(sorted)

	h := fnv.New64a()
	for _, s := range sorted {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%d-%x", len(sorted), h.Sum64())
}
