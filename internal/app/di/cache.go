package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	infraredis "trading_dashboard/internal/platform/redis"
	"trading_dashboard/internal/platform/secrets"
)

// NewRedisClient returns a connected client, or nil when REDIS_HOST is unset
// or the server is unreachable. Callers run without cache in that case.
func NewRedisClient(ctx context.Context, src secrets.Source) (*redis.Client, infraredis.Config) {
	cfg := infraredis.LoadConfig(src)
	if !cfg.Enabled() {
		slog.Info("REDIS_HOST not set. Running without cache.")
		return nil, cfg
	}

	rdb, err := infraredis.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		return nil, cfg
	}
	return rdb, cfg
}
