package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading_dashboard/internal/feature/derivatives/domain/entity"
)

// mockRecordRepository はテスト用のRecordRepositoryモック実装です。
type mockRecordRepository struct {
	datesFn      func(ctx context.Context) ([]string, error)
	latestFn     func(ctx context.Context) (string, error)
	findByDateFn func(ctx context.Context, date string, symbols []string) ([]entity.Record, error)
	findStockFn  func(ctx context.Context, symbol, date string) (*entity.Record, error)
	countFn      func(ctx context.Context, date string) (int64, error)
	industriesFn func(ctx context.Context, date string) ([]entity.IndustryCount, error)
	calls        int
}

func (m *mockRecordRepository) Dates(ctx context.Context) ([]string, error) {
	m.calls++
	if m.datesFn != nil {
		return m.datesFn(ctx)
	}
	return nil, nil
}

func (m *mockRecordRepository) LatestDate(ctx context.Context) (string, error) {
	m.calls++
	if m.latestFn != nil {
		return m.latestFn(ctx)
	}
	return "", nil
}

func (m *mockRecordRepository) FindByDate(ctx context.Context, date string, symbols []string) ([]entity.Record, error) {
	m.calls++
	if m.findByDateFn != nil {
		return m.findByDateFn(ctx, date, symbols)
	}
	return nil, nil
}

func (m *mockRecordRepository) FindStock(ctx context.Context, symbol, date string) (*entity.Record, error) {
	m.calls++
	if m.findStockFn != nil {
		return m.findStockFn(ctx, symbol, date)
	}
	return nil, nil
}

func (m *mockRecordRepository) Count(ctx context.Context, date string) (int64, error) {
	m.calls++
	if m.countFn != nil {
		return m.countFn(ctx, date)
	}
	return 0, nil
}

func (m *mockRecordRepository) Industries(ctx context.Context, date string) ([]entity.IndustryCount, error) {
	m.calls++
	if m.industriesFn != nil {
		return m.industriesFn(ctx, date)
	}
	return nil, nil
}

func TestNewCachingRecordRepository_Defaults(t *testing.T) {
	t.Parallel()

	repo := NewCachingRecordRepository(nil, 0, &mockRecordRepository{}, "")
	assert.Equal(t, 5*time.Minute, repo.ttl)
	assert.Equal(t, "derivatives", repo.namespace)
}

// TestCachingRecordRepository_NilRedis はRedis未設定時にすべての呼び出しが内部リポジトリへ委譲されることを検証します。
func TestCachingRecordRepository_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockRecordRepository{
		latestFn: func(ctx context.Context) (string, error) { return "2024-01-05", nil },
	}
	repo := NewCachingRecordRepository(nil, time.Minute, inner, "")
	ctx := context.Background()

	latest, err := repo.LatestDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", latest)

	_, _ = repo.Dates(ctx)
	_, _ = repo.FindByDate(ctx, "2024-01-05", []string{"INFY"})
	_, _ = repo.FindStock(ctx, "INFY", "2024-01-05")
	_, _ = repo.Count(ctx, "")
	_, _ = repo.Industries(ctx, "2024-01-05")
	assert.Equal(t, 6, inner.calls)
	assert.NoError(t, repo.Invalidate(ctx))
}

func TestCachingRecordRepository_Dates_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("derivatives:dates").SetVal(`["2024-01-04","2024-01-05"]`)

	inner := &mockRecordRepository{}
	repo := NewCachingRecordRepository(rdb, time.Minute, inner, "")

	dates, err := repo.Dates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-04", "2024-01-05"}, dates)
	assert.Zero(t, inner.calls, "inner repository should not be called on cache hit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingRecordRepository_FindByDate_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	records := []entity.Record{{Date: "2024-01-05", Symbol: "INFY", PCR: 0.9}}
	recordsJSON, _ := json.Marshal(records)
	key := "derivatives:records:2024-01-05:" + symbolsDigest([]string{"INFY", "TCS"})

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, recordsJSON, time.Minute).SetVal("OK")

	inner := &mockRecordRepository{
		findByDateFn: func(ctx context.Context, date string, symbols []string) ([]entity.Record, error) {
			return records, nil
		},
	}
	repo := NewCachingRecordRepository(rdb, time.Minute, inner, "")

	got, err := repo.FindByDate(context.Background(), "2024-01-05", []string{"TCS", "INFY"})
	require.NoError(t, err)
	assert.Equal(t, records, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingRecordRepository_Count_AllScope(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("derivatives:count:all").SetVal("420")

	repo := NewCachingRecordRepository(rdb, time.Minute, &mockRecordRepository{}, "")

	n, err := repo.Count(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(420), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingRecordRepository_InnerErrorNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")
	mock.ExpectGet("derivatives:industries:2024-01-05").RedisNil()

	inner := &mockRecordRepository{
		industriesFn: func(ctx context.Context, date string) ([]entity.IndustryCount, error) {
			return nil, expectedErr
		},
	}
	repo := NewCachingRecordRepository(rdb, time.Minute, inner, "")

	_, err := repo.Industries(context.Background(), "2024-01-05")
	assert.ErrorIs(t, err, expectedErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingRecordRepository_Invalidate はSCANとDELで名前空間全体が削除されることを検証します。
func TestCachingRecordRepository_Invalidate(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "derivatives:*", 200).SetVal([]string{"derivatives:dates", "derivatives:latest"}, 7)
	mock.ExpectDel("derivatives:dates", "derivatives:latest").SetVal(2)
	mock.ExpectScan(7, "derivatives:*", 200).SetVal([]string{"derivatives:count:all"}, 0)
	mock.ExpectDel("derivatives:count:all").SetVal(1)

	repo := NewCachingRecordRepository(rdb, time.Minute, &mockRecordRepository{}, "")

	require.NoError(t, repo.Invalidate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSymbolsDigest_OrderIndependent(t *testing.T) {
	t.Parallel()

	a := symbolsDigest([]string{"INFY", "TCS", "SBIN"})
	b := symbolsDigest([]string{"SBIN", "INFY", "TCS"})
	c := symbolsDigest([]string{"INFY", "TCS"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
