// Package redis はキャッシュ用のRedisクライアントを生成します。
package redis

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"trading_dashboard/internal/platform/secrets"
)

// Config はRedis接続設定です。
type Config struct {
	Host     string
	Port     string
	Password string
	// TTL はキャッシュエントリの有効期間です。0 の場合は各キャッシュの既定値を使います。
	TTL time.Duration
}

// Enabled はRedisが設定されているかを返します。REDIS_HOST が空の場合、キャッシュは無効です。
func (c Config) Enabled() bool {
	return c.Host != ""
}

// Addr は host:port 形式のアドレスを返します。
func (c Config) Addr() string {
	port := c.Port
	if port == "" {
		port = "6379"
	}
	return c.Host + ":" + port
}

// LoadConfig は REDIS_HOST, REDIS_PORT, REDIS_PASSWORD, CACHE_TTL を読み込みます。
// CACHE_TTL は Go の duration（例: "5m"）または秒数です。不正な値は無視されます。
func LoadConfig(src secrets.Source) Config {
	var cfg Config
	cfg.Host, _ = src.Lookup("REDIS_HOST")
	cfg.Port, _ = src.Lookup("REDIS_PORT")
	cfg.Password, _ = src.Lookup("REDIS_PASSWORD")

	if v, ok := src.Lookup("CACHE_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TTL = d
		} else if secs, err := strconv.Atoi(v); err == nil {
			cfg.TTL = time.Duration(secs) * time.Second
		} else {
			slog.Warn("ignoring invalid CACHE_TTL", "value", v)
		}
	}
	return cfg
}

// NewRedisClient はRedisクライアントを生成し、接続を確認します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	addr := cfg.Addr()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
