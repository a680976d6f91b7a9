// Package usecase はデリバティブ分析データの読み取りロジックを実装します。
package usecase

import (
	"context"
	"sort"
	"strings"

	"trading_dashboard/internal/feature/derivatives/domain/entity"
)

const (
	// DefaultDateLimit はダッシュボードが表示する既定の日数です。
	DefaultDateLimit = 60
	// StatsDateWindow は取引日数の集計に使う直近日数です。
	StatsDateWindow = 100
	// DefaultRecentDays は日別件数の既定表示日数です。
	DefaultRecentDays = 10
)

// RecordRepository はデリバティブデータの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type RecordRepository interface {
	// Dates は保存されている全ての日付を返します（順序は問いません）。
	Dates(ctx context.Context) ([]string, error)
	// LatestDate は最新の日付を返します。データがない場合は空文字を返します。
	LatestDate(ctx context.Context) (string, error)
	// FindByDate は指定日のレコードのうち symbols に含まれるものを返します。
	FindByDate(ctx context.Context, date string, symbols []string) ([]entity.Record, error)
	// FindStock は銘柄別コレクションから指定日のレコードを返します。存在しない場合は nil を返します。
	FindStock(ctx context.Context, symbol, date string) (*entity.Record, error)
	// Count は指定日のレコード数を返します。date が空の場合は全件数です。
	Count(ctx context.Context, date string) (int64, error)
	// Industries は指定日の業種別銘柄数を返します。
	Industries(ctx context.Context, date string) ([]entity.IndustryCount, error)
}

// SymbolLister は追跡対象の銘柄コード一覧を提供します。
type SymbolLister interface {
	ListCodes(ctx context.Context) ([]string, error)
}

// DashboardUsecase はダッシュボード表示用のデータ取得を提供します。
type DashboardUsecase struct {
	records RecordRepository
	symbols SymbolLister
}

// NewDashboardUsecase は DashboardUsecase の新しいインスタンスを生成します。
func NewDashboardUsecase(records RecordRepository, symbols SymbolLister) *DashboardUsecase {
	return &DashboardUsecase{records: records, symbols: symbols}
}

// Dates は直近 limit 日分の日付を昇順で返します。limit が0以下の場合は全日付を返します。
func (u *DashboardUsecase) Dates(ctx context.Context, limit int) ([]string, error) {
	dates, err := u.records.Dates(ctx)
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	sort.Strings(dates)
	return dates, nil
}

// LatestDate は最新の日付を返します。データが1件もない場合は ErrNoData を返します。
func (u *DashboardUsecase) LatestDate(ctx context.Context) (string, error) {
	latest, err := u.records.LatestDate(ctx)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return "", ErrNoData
	}
	return latest, nil
}

// resolveDate は空の日付を最新日に置き換えます。
func (u *DashboardUsecase) resolveDate(ctx context.Context, date string) (string, error) {
	date = strings.TrimSpace(date)
	if date != "" {
		return date, nil
	}
	return u.LatestDate(ctx)
}

// Snapshot は指定日（空なら最新日）の全追跡銘柄のレコードを銘柄順で返します。
func (u *DashboardUsecase) Snapshot(ctx context.Context, date string) (string, []entity.Record, error) {
	date, err := u.resolveDate(ctx, date)
	if err != nil {
		return "", nil, err
	}

	codes, err := u.symbols.ListCodes(ctx)
	if err != nil {
		return "", nil, err
	}
	if len(codes) == 0 {
		return date, nil, ErrNotFound
	}

	rs, err := u.records.FindByDate(ctx, date, codes)
	if err != nil {
		return "", nil, err
	}
	if len(rs) == 0 {
		return date, nil, ErrNotFound
	}

	for i := range rs {
		rs[i].OITrend = entity.NormalizeTrend(rs[i].OITrend)
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Symbol < rs[j].Symbol })
	return date, rs, nil
}

// Stock は指定銘柄・指定日（空なら最新日）のレコードを返します。
func (u *DashboardUsecase) Stock(ctx context.Context, symbol, date string) (*entity.Record, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrNotFound
	}
	date, err := u.resolveDate(ctx, date)
	if err != nil {
		return nil, err
	}

	r, err := u.records.FindStock(ctx, symbol, date)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	r.OITrend = entity.NormalizeTrend(r.OITrend)
	return r, nil
}

// Stats はデータセット全体の概要を返します。空のデータベースでもエラーにはしません。
func (u *DashboardUsecase) Stats(ctx context.Context) (entity.Stats, error) {
	latest, err := u.records.LatestDate(ctx)
	if err != nil {
		return entity.Stats{}, err
	}
	dates, err := u.Dates(ctx, StatsDateWindow)
	if err != nil {
		return entity.Stats{}, err
	}
	codes, err := u.symbols.ListCodes(ctx)
	if err != nil {
		return entity.Stats{}, err
	}
	total, err := u.records.Count(ctx, "")
	if err != nil {
		return entity.Stats{}, err
	}

	return entity.Stats{
		LatestDate:    latest,
		TradingDays:   len(dates),
		StocksTracked: len(codes),
		TotalRecords:  total,
	}, nil
}

// RecentCounts は直近 n 日分の日別レコード数を新しい順で返します。
func (u *DashboardUsecase) RecentCounts(ctx context.Context, n int) ([]entity.DateCount, error) {
	if n <= 0 || n > StatsDateWindow {
		n = DefaultRecentDays
	}
	dates, err := u.Dates(ctx, n)
	if err != nil {
		return nil, err
	}

	out := make([]entity.DateCount, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		c, err := u.records.Count(ctx, dates[i])
		if err != nil {
			return nil, err
		}
		out = append(out, entity.DateCount{Date: dates[i], Records: c})
	}
	return out, nil
}

// IndustryBreakdown は指定日（空なら最新日）の業種別銘柄数を多い順で返します。
func (u *DashboardUsecase) IndustryBreakdown(ctx context.Context, date string) (string, []entity.IndustryCount, error) {
	date, err := u.resolveDate(ctx, date)
	if err != nil {
		return "", nil, err
	}
	ics, err := u.records.Industries(ctx, date)
	if err != nil {
		return "", nil, err
	}
	for i := range ics {
		if ics[i].Industry == "" {
			ics[i].Industry = "?"
		}
	}
	sort.SliceStable(ics, func(i, j int) bool {
		if ics[i].Stocks != ics[j].Stocks {
			return ics[i].Stocks > ics[j].Stocks
		}
		return ics[i].Industry < ics[j].Industry
	})
	return date, ics, nil
}
