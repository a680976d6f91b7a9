// Command importer loads derivative-analytics CSV exports into MongoDB.
//
//	importer [-parallel N] [-timeout D] file.csv [file.csv ...]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"trading_dashboard/internal/app/di"
	importerusecase "trading_dashboard/internal/feature/importer/usecase"
	"trading_dashboard/internal/platform/mongodb"
)

func main() {
	parallel := flag.Int("parallel", 2, "files imported concurrently")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall import deadline")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file.csv [file.csv ...]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, flag.Args(), *parallel); err != nil {
		slog.Error("import failed", "kind", mongodb.Kind(err), "error", err)
		if hint := mongodb.Remediation(err); hint != "" {
			slog.Error("remediation", "hint", hint)
		}
		os.Exit(1)
	}
	slog.Info("import ok")
}

func run(ctx context.Context, files []string, parallel int) error {
	src, err := di.NewSecretSource()
	if err != nil {
		return err
	}
	conn, err := di.NewConnector(src)
	if err != nil {
		return err
	}

	// サーバと同じキャッシュを使っている場合は取り込み後に破棄する
	rdb, redisCfg := di.NewRedisClient(ctx, src)
	if rdb != nil {
		defer rdb.Close()
	}

	return conn.WithConnection(ctx, func(ctx context.Context, s mongodb.Session) error {
		db := mongodb.Static{Session: s}
		var invalidator importerusecase.CacheInvalidator
		if rdb != nil {
			invalidator = di.NewRecordRepository(rdb, redisCfg.TTL, db)
		}
		uc := di.NewImportUsecase(db, invalidator)
		return importFiles(ctx, uc, files, parallel)
	})
}

// importFiles は各ファイルを取り込みます。ファイル単位の失敗は記録して続行し、
// 接続エラーのみ全体を中断します。
func importFiles(ctx context.Context, uc *importerusecase.ImportUsecase, files []string, parallel int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))

	var (
		mu     sync.Mutex
		failed []string
	)
	for _, path := range files {
		g.Go(func() error {
			b, err := os.ReadFile(path)
			if err != nil {
				slog.Error("read failed", "file", path, "error", err)
				mu.Lock()
				failed = append(failed, path)
				mu.Unlock()
				return nil
			}

			res, err := uc.ImportCSV(ctx, string(b))
			if err != nil {
				if mongodb.Kind(err) != "" || ctx.Err() != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				slog.Error("import failed", "file", path, "error", err)
				mu.Lock()
				failed = append(failed, path)
				mu.Unlock()
				return nil
			}

			slog.Info("file imported",
				"file", path,
				"new", res.New,
				"updated", res.Updated,
				"symbols", len(res.Symbols),
				"errors", len(res.Errors),
			)
			for _, e := range res.Errors {
				slog.Warn("row error", "file", path, "error", e)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed: %w", len(failed), len(files), errFilesFailed)
	}
	return nil
}

var errFilesFailed = errors.New("some files could not be imported")
