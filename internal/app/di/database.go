package di

import (
	"log/slog"

	"trading_dashboard/internal/platform/mongodb"
	"trading_dashboard/internal/platform/secrets"
)

// NewConnector resolves the MongoDB configuration from src. The returned
// error wraps mongodb.ErrConfiguration when MONGO_URI is missing or invalid.
func NewConnector(src secrets.Source) (*mongodb.Connector, error) {
	cfg, err := mongodb.ResolveConfiguration(src)
	if err != nil {
		return nil, err
	}
	slog.Info("database configured",
		"uri", cfg.Redacted(),
		"srv", cfg.UsesSRV(),
		"server_selection_timeout", cfg.ServerSelectionTimeout,
		"max_attempts", cfg.Retry.MaxAttempts,
	)
	return mongodb.NewConnector(cfg), nil
}

// NewDatabaseManager creates the process-wide connection handle. It does
// not dial; call Start or let the first request connect lazily.
func NewDatabaseManager(src secrets.Source) (*mongodb.Manager, error) {
	conn, err := NewConnector(src)
	if err != nil {
		return nil, err
	}
	return mongodb.NewManager(conn), nil
}
