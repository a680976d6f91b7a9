package router

import (
	candleshandler "trading_dashboard/internal/feature/candles/transport/handler"
	derivativeshandler "trading_dashboard/internal/feature/derivatives/transport/handler"
	importerhandler "trading_dashboard/internal/feature/importer/transport/handler"
	symbollisthandler "trading_dashboard/internal/feature/symbollist/transport/handler"
	"trading_dashboard/internal/platform/http/handler"

	"github.com/gin-gonic/gin"
)

// Handlers はルータに登録するハンドラ一式。
type Handlers struct {
	Dashboard *derivativeshandler.DashboardHandler
	Import    *importerhandler.ImportHandler
	Candles   *candleshandler.CandlesHandler
	Symbol    *symbollisthandler.SymbolHandler
	// Ready は /readyz で疎通確認する対象（DB マネージャ）。
	Ready handler.Pinger
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// 導通確認用（DB に依存しない）
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)

	// DB に到達できるか
	ready := handler.Ready(h.Ready)
	r.GET("/readyz", ready)
	r.HEAD("/readyz", ready)

	// ダッシュボード参照系
	r.GET("/dates", h.Dashboard.GetDates)
	r.GET("/latest", h.Dashboard.GetLatestDate)
	r.GET("/stats", h.Dashboard.GetStats)
	r.GET("/stocks", h.Dashboard.GetSnapshot)
	r.GET("/stocks/:symbol", h.Dashboard.GetStock)
	r.GET("/recent", h.Dashboard.GetRecentCounts)
	r.GET("/industries", h.Dashboard.GetIndustryBreakdown)

	r.GET("/symbols", h.Symbol.List)
	r.GET("/candles/:code", h.Candles.GetCandlesHandler)

	// CSV 取り込み
	r.POST("/imports", h.Import.Import)

	return r
}
