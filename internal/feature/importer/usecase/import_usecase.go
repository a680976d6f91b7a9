// Package usecase はデリバティブ分析CSVの取り込みロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"trading_dashboard/internal/feature/derivatives/domain/entity"
	"trading_dashboard/internal/platform/mongodb"
)

// SourceCSVUpload は取り込んだドキュメントの source 値です。
const SourceCSVUpload = "csv_upload"

// DefaultRebuildConcurrency は銘柄別コレクション再構築の既定並列数です。
const DefaultRebuildConcurrency = 4

// ErrEmptyFile は空のCSVが渡された場合のエラーです。
var ErrEmptyFile = errors.New("csv file is empty")

// RecordStore はデリバティブデータの書き込みレイヤーを抽象化します。
type RecordStore interface {
	// Upsert は (date, symbol) をキーにレコードを登録・更新し、新規作成かどうかを返します。
	Upsert(ctx context.Context, r entity.Record) (created bool, err error)
	// RebuildSymbol は銘柄別コレクションとサマリーを全履歴から再構築します。
	RebuildSymbol(ctx context.Context, symbol string) error
}

// CacheInvalidator は取り込み後に読み取りキャッシュを破棄します。
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Result は1ファイル分の取り込み結果です。
type Result struct {
	New     int
	Updated int
	// Errors は行ごと・銘柄ごとの失敗です。取り込み自体は継続します。
	Errors []string
	// Symbols は今回の取り込みで更新された銘柄です。
	Symbols []string
}

// ImportUsecase はCSV取り込みを提供します。
type ImportUsecase struct {
	store       RecordStore
	cache       CacheInvalidator
	concurrency int
	now         func() time.Time
}

// Option は ImportUsecase の設定を変更します。
type Option func(*ImportUsecase)

// WithCacheInvalidator は取り込み後に破棄するキャッシュを設定します。
func WithCacheInvalidator(c CacheInvalidator) Option {
	return func(u *ImportUsecase) { u.cache = c }
}

// WithRebuildConcurrency は再構築の並列数を設定します。
func WithRebuildConcurrency(n int) Option {
	return func(u *ImportUsecase) {
		if n > 0 {
			u.concurrency = n
		}
	}
}

// NewImportUsecase は ImportUsecase の新しいインスタンスを生成します。
func NewImportUsecase(store RecordStore, opts ...Option) *ImportUsecase {
	u := &ImportUsecase{
		store:       store,
		concurrency: DefaultRebuildConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// fatal はそれ以降の処理が無意味になるエラーかを判定します。
// DBに到達できない場合は行ごとに待たず中断します。
func fatal(ctx context.Context, err error) bool {
	return ctx.Err() != nil || mongodb.Kind(err) != ""
}

// ImportCSV はCSVテキストを取り込み、影響を受けた銘柄のコレクションを再構築します。
func (u *ImportUsecase) ImportCSV(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyFile
	}

	records, rowErrs := ParseCSV(text, u.now())
	res := Result{Errors: rowErrs}

	affected := make(map[string]struct{})
	for _, r := range records {
		created, err := u.store.Upsert(ctx, r)
		if err != nil {
			if fatal(ctx, err) {
				return res, err
			}
			res.Errors = append(res.Errors, fmt.Sprintf("%s %s: %v", r.Symbol, r.Date, err))
			continue
		}
		affected[r.Symbol] = struct{}{}
		if created {
			res.New++
		} else {
			res.Updated++
		}
	}

	for sym := range affected {
		res.Symbols = append(res.Symbols, sym)
	}
	sort.Strings(res.Symbols)

	rebuildErrs, err := u.rebuild(ctx, res.Symbols)
	res.Errors = append(res.Errors, rebuildErrs...)
	if err != nil {
		return res, err
	}

	if u.cache != nil && len(res.Symbols) > 0 {
		if err := u.cache.Invalidate(ctx); err != nil {
			slog.Warn("failed to invalidate derivatives cache", "error", err)
		}
	}

	slog.Info("csv import finished",
		"new", res.New, "updated", res.Updated, "symbols", len(res.Symbols), "errors", len(res.Errors))
	return res, nil
}

// rebuild は銘柄ごとの再構築を並列に実行します。
// 個別の失敗は収集し、接続エラーのみ全体を中断します。
func (u *ImportUsecase) rebuild(ctx context.Context, symbols []string) ([]string, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	var (
		mu   sync.Mutex
		errs []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)

	for _, sym := range symbols {
		g.Go(func() error {
			err := u.store.RebuildSymbol(gctx, sym)
			if err == nil {
				return nil
			}
			if fatal(gctx, err) {
				return err
			}
			mu.Lock()
			errs = append(errs, fmt.Sprintf("rebuild %s: %v", sym, err))
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	sort.Strings(errs)
	return errs, err
}
