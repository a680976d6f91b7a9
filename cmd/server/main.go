package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trading_dashboard/internal/app/di"
	"trading_dashboard/internal/app/router"
	"trading_dashboard/internal/platform/mongodb"
)

const (
	defaultPort     = "8080"
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := di.NewSecretSource()
	if err != nil {
		slog.Error("failed to load secrets", "error", err)
		os.Exit(1)
	}

	// db
	manager, err := di.NewDatabaseManager(src)
	if err != nil {
		slog.Error("database is not configured", "error", err, "remediation", mongodb.Remediation(err))
		os.Exit(1)
	}

	// 起動時に接続を試みる。失敗してもサーバは起動し、各リクエストは 503 を返す
	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	if err := manager.Start(startCtx); err != nil {
		slog.Warn("database unavailable at startup; serving fail-closed",
			"kind", mongodb.Kind(err),
			"error", err,
			"remediation", mongodb.Remediation(err),
		)
	}
	cancel()

	// Redis
	rdb, redisCfg := di.NewRedisClient(ctx, src)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		}()
	}

	// ルータ生成
	r := router.NewRouter(di.NewHandlers(manager, rdb, redisCfg.TTL))

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	if err := manager.Close(shutdownCtx); err != nil {
		slog.Error("database close failed", "error", err)
	}
}
