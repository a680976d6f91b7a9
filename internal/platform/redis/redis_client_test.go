package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trading_dashboard/internal/platform/secrets"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		src         secrets.Map
		expected    Config
		enabled     bool
		expectedAdr string
	}{
		{
			name:        "unset disables cache",
			src:         secrets.Map{},
			expected:    Config{},
			enabled:     false,
			expectedAdr: ":6379",
		},
		{
			name:        "duration ttl",
			src:         secrets.Map{"REDIS_HOST": "cache", "REDIS_PORT": "6380", "REDIS_PASSWORD": "pw", "CACHE_TTL": "90s"},
			expected:    Config{Host: "cache", Port: "6380", Password: "pw", TTL: 90 * time.Second},
			enabled:     true,
			expectedAdr: "cache:6380",
		},
		{
			name:        "seconds ttl",
			src:         secrets.Map{"REDIS_HOST": "cache", "CACHE_TTL": "120"},
			expected:    Config{Host: "cache", TTL: 2 * time.Minute},
			enabled:     true,
			expectedAdr: "cache:6379",
		},
		{
			name:        "invalid ttl ignored",
			src:         secrets.Map{"REDIS_HOST": "cache", "CACHE_TTL": "soon"},
			expected:    Config{Host: "cache"},
			enabled:     true,
			expectedAdr: "cache:6379",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := LoadConfig(tt.src)
			assert.Equal(t, tt.expected, cfg)
			assert.Equal(t, tt.enabled, cfg.Enabled())
			assert.Equal(t, tt.expectedAdr, cfg.Addr())
		})
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("dials a closed local port")
	}
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rdb, err := NewRedisClient(ctx, Config{Host: "127.0.0.1", Port: "1"})
	assert.Error(t, err)
	assert.Nil(t, rdb)
}
