// Package handler はderivativesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trading_dashboard/internal/feature/derivatives/domain/entity"
	"trading_dashboard/internal/feature/derivatives/transport/http/dto"
	"trading_dashboard/internal/feature/derivatives/usecase"
	"trading_dashboard/internal/platform/http/response"
)

// DashboardUsecase はダッシュボード表示用ユースケースのインターフェースです。
type DashboardUsecase interface {
	Dates(ctx context.Context, limit int) ([]string, error)
	LatestDate(ctx context.Context) (string, error)
	Snapshot(ctx context.Context, date string) (string, []entity.Record, error)
	Stock(ctx context.Context, symbol, date string) (*entity.Record, error)
	Stats(ctx context.Context) (entity.Stats, error)
	RecentCounts(ctx context.Context, n int) ([]entity.DateCount, error)
	IndustryBreakdown(ctx context.Context, date string) (string, []entity.IndustryCount, error)
}

// DashboardHandler はダッシュボードデータのHTTPリクエストを処理します。
type DashboardHandler struct {
	uc DashboardUsecase
}

// NewDashboardHandler は DashboardHandler の新しいインスタンスを生成します。
func NewDashboardHandler(uc DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

var errInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

// writeError はユースケースのエラーをステータスコードに変換します。
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNoData), errors.Is(err, usecase.ErrNotFound):
		response.Error(c, http.StatusNotFound, err)
	default:
		response.Error(c, http.StatusInternalServerError, err)
	}
}

// dateQuery は date クエリを検証します。未指定は空文字（最新日）です。
func dateQuery(c *gin.Context) (string, bool) {
	date := c.Query("date")
	if date == "" {
		return "", true
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		response.Error(c, http.StatusBadRequest, errInvalidDate)
		return "", false
	}
	return date, true
}

// intQuery は正の整数クエリを読み取ります。
func intQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.Error(c, http.StatusBadRequest, errors.New(key+" must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

func toRecordResponse(r entity.Record) dto.RecordResponse {
	out := dto.RecordResponse{
		Date:               r.Date,
		Symbol:             r.Symbol,
		StockName:          r.StockName,
		LotSize:            r.LotSize,
		Sector:             r.Sector,
		Industry:           r.Industry,
		MCapCategory:       r.MCapCategory,
		Close:              r.Close,
		ChangePct:          r.ChangePct,
		CumulativeFutureOI: r.CumulativeFutureOI,
		OIChangePct:        r.OIChangePct,
		VolumeTimes:        r.VolumeTimes,
		DeliveryTimes:      r.DeliveryTimes,
		CumulativeCallOI:   r.CumulativeCallOI,
		CumulativePutOI:    r.CumulativePutOI,
		PCR:                r.PCR,
		PCRChange1D:        r.PCRChange1D,
		OITrend:            r.OITrend,
		Source:             r.Source,
	}
	if !r.ImportedAt.IsZero() {
		out.ImportedAt = r.ImportedAt.Format(time.RFC3339)
	}
	return out
}

// GetDates は直近の日付一覧を返します。
//
// エンドポイント例:
// GET /dates?limit=60
func (h *DashboardHandler) GetDates(c *gin.Context) {
	limit, ok := intQuery(c, "limit", usecase.DefaultDateLimit)
	if !ok {
		return
	}
	dates, err := h.uc.Dates(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	c.JSON(http.StatusOK, dto.DatesResponse{Dates: dates})
}

// GetLatestDate は最新日付を返します。
func (h *DashboardHandler) GetLatestDate(c *gin.Context) {
	date, err := h.uc.LatestDate(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LatestDateResponse{Date: date})
}

// GetStats はデータセットの概要を返します。
func (h *DashboardHandler) GetStats(c *gin.Context) {
	st, err := h.uc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatsResponse{
		LatestDate:    st.LatestDate,
		TradingDays:   st.TradingDays,
		StocksTracked: st.StocksTracked,
		TotalRecords:  st.TotalRecords,
	})
}

// GetSnapshot は指定日（省略時は最新日）の全銘柄データを返します。
//
// エンドポイント例:
// GET /stocks?date=2024-01-05
func (h *DashboardHandler) GetSnapshot(c *gin.Context) {
	date, ok := dateQuery(c)
	if !ok {
		return
	}
	date, rs, err := h.uc.Snapshot(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]dto.RecordResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRecordResponse(r))
	}
	c.JSON(http.StatusOK, dto.SnapshotResponse{Date: date, Records: out})
}

// GetStock は1銘柄の指定日のデータを返します。
//
// エンドポイント例:
// GET /stocks/INFY?date=2024-01-05
func (h *DashboardHandler) GetStock(c *gin.Context) {
	date, ok := dateQuery(c)
	if !ok {
		return
	}
	r, err := h.uc.Stock(c.Request.Context(), c.Param("symbol"), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRecordResponse(*r))
}

// GetRecentCounts は直近 n 日の日別レコード数を返します。
//
// エンドポイント例:
// GET /recent?n=10
func (h *DashboardHandler) GetRecentCounts(c *gin.Context) {
	n, ok := intQuery(c, "n", usecase.DefaultRecentDays)
	if !ok {
		return
	}
	counts, err := h.uc.RecentCounts(c.Request.Context(), n)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]dto.DateCountResponse, 0, len(counts))
	for _, dc := range counts {
		out = append(out, dto.DateCountResponse{Date: dc.Date, Records: dc.Records})
	}
	c.JSON(http.StatusOK, out)
}

// GetIndustryBreakdown は指定日の業種別銘柄数を返します。
func (h *DashboardHandler) GetIndustryBreakdown(c *gin.Context) {
	date, ok := dateQuery(c)
	if !ok {
		return
	}
	date, ics, err := h.uc.IndustryBreakdown(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]dto.IndustryCountResponse, 0, len(ics))
	for _, ic := range ics {
		out = append(out, dto.IndustryCountResponse{Industry: ic.Industry, Stocks: ic.Stocks})
	}
	c.JSON(http.StatusOK, dto.IndustryBreakdownResponse{Date: date, Industries: out})
}
