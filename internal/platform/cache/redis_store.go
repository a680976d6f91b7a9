// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// readThrough returns the cached value at key, or loads it and stores it for
// ttl. Cache failures never fail the read.
func readThrough[T any](ctx context.Context, rdb *redis.Client, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	// 1) Check cache
	if b, err := rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = rdb.Set(ctx, key, b, ttl).Err()
	}
	return out, nil
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func deleteByPattern(ctx context.Context, rdb *redis.Client, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
