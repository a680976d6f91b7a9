// Package mongotest provides helpers for integration tests that need a real
// MongoDB deployment. Tests are skipped unless MONGODB_TEST_URI is set.
package mongotest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trading_dashboard/internal/platform/mongodb"
	"trading_dashboard/internal/platform/secrets"
)

// EnvURI names the variable holding the test deployment URI.
const EnvURI = "MONGODB_TEST_URI"

// Connect dials the test deployment and registers cleanup. It skips the test
// when EnvURI is unset or -short is given.
func Connect(t *testing.T) mongodb.Session {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}
	uri := os.Getenv(EnvURI)
	if uri == "" {
		t.Skipf("%s not set", EnvURI)
	}

	cfg, err := mongodb.ResolveConfiguration(secrets.Map{
		mongodb.KeyURI:             uri,
		mongodb.KeyConnectAttempts: "1",
	})
	require.NoError(t, err, "invalid %s", EnvURI)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := mongodb.NewConnector(cfg).Connect(ctx)
	require.NoError(t, err, "failed to connect to test deployment")

	t.Cleanup(func() {
		_ = s.Disconnect(context.Background())
	})
	return s
}

// Database returns a uniquely named scratch database that is dropped when
// the test ends.
func Database(t *testing.T, s mongodb.Session) string {
	t.Helper()

	name := fmt.Sprintf("td_test_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_ = s.Database(name).Drop(context.Background())
	})
	return name
}
