package usecase_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"trading_dashboard/internal/feature/candles/domain/entity"
	"trading_dashboard/internal/feature/candles/usecase"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// mockCandleRepository はCandleRepositoryインターフェースのモック実装です。
type mockCandleRepository struct {
	FindFunc  func(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error)
	FindCalls int
}

// Find はFindFuncが設定されていればそれを呼び出し、呼び出し回数を記録します。
func (m *mockCandleRepository) Find(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
	m.FindCalls++
	if m.FindFunc != nil {
		return m.FindFunc(ctx, symbol, outputsize)
	}
	return nil, errors.New("FindFunc is not implemented")
}

// TestCandlesUsecase_GetCandles はGetCandlesメソッドのパラメータ処理とリポジトリ呼び出しをテストします。
func TestCandlesUsecase_GetCandles(t *testing.T) {
	ctx := context.Background()
	expectedCandles := []entity.Candle{
		{Symbol: "INFY", Time: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Open: 100, High: 110, Low: 90, Close: 105},
	}

	testCases := []struct {
		name               string
		inputSymbol        string
		inputOutputsize    int
		mockFindFunc       func(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error)
		expectedCandles    []entity.Candle
		expectedErr        error
		expectedSymbol     string // モックに渡されるべき銘柄
		expectedOutputsize int    // モックに渡されるべきoutputsize
	}{
		{
			name:            "success: all parameters specified",
			inputSymbol:     "INFY",
			inputOutputsize: 50,
			mockFindFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
				return expectedCandles, nil
			},
			expectedCandles:    expectedCandles,
			expectedSymbol:     "INFY",
			expectedOutputsize: 50,
		},
		{
			name:            "success: symbol is normalised to upper case",
			inputSymbol:     " infy ",
			inputOutputsize: 10,
			mockFindFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
				return expectedCandles, nil
			},
			expectedCandles:    expectedCandles,
			expectedSymbol:     "INFY",
			expectedOutputsize: 10,
		},
		{
			name:            "success: default value used when outputsize is 0",
			inputSymbol:     "TCS",
			inputOutputsize: 0,
			mockFindFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
				return expectedCandles, nil
			},
			expectedCandles:    expectedCandles,
			expectedSymbol:     "TCS",
			expectedOutputsize: usecase.DefaultOutputSize,
		},
		{
			name:            "success: default value used when outputsize exceeds the maximum",
			inputSymbol:     "TCS",
			inputOutputsize: usecase.MaxOutputSize + 1,
			mockFindFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
				return expectedCandles, nil
			},
			expectedCandles:    expectedCandles,
			expectedSymbol:     "TCS",
			expectedOutputsize: usecase.DefaultOutputSize,
		},
		{
			name:            "success: maximum outputsize is accepted",
			inputSymbol:     "TCS",
			inputOutputsize: usecase.MaxOutputSize,
			mockFindFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
				return expectedCandles, nil
			},
			expectedCandles:    expectedCandles,
			expectedSymbol:     "TCS",
			expectedOutputsize: usecase.MaxOutputSize,
		},
		{
			name:            "failure: repository returns an error",
			inputSymbol:     "SBIN",
			inputOutputsize: 100,
			mockFindFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
				return nil, ErrDB
			},
			expectedErr:        ErrDB,
			expectedSymbol:     "SBIN",
			expectedOutputsize: 100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &mockCandleRepository{}
			mockRepo.FindFunc = func(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
				if symbol != tc.expectedSymbol {
					t.Errorf("expected symbol %q, got %q", tc.expectedSymbol, symbol)
				}
				if outputsize != tc.expectedOutputsize {
					t.Errorf("expected outputsize %d, got %d", tc.expectedOutputsize, outputsize)
				}
				return tc.mockFindFunc(ctx, symbol, outputsize)
			}

			uc := usecase.NewCandlesUsecase(mockRepo)
			candles, err := uc.GetCandles(ctx, tc.inputSymbol, tc.inputOutputsize)

			if !errors.Is(err, tc.expectedErr) {
				t.Errorf("expected error %v, got %v", tc.expectedErr, err)
			}
			if !reflect.DeepEqual(candles, tc.expectedCandles) {
				t.Errorf("expected candles %v, got %v", tc.expectedCandles, candles)
			}
			if mockRepo.FindCalls != 1 {
				t.Errorf("expected Find to be called once, got %d", mockRepo.FindCalls)
			}
		})
	}
}
