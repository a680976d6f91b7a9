package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	candlesentity "trading_dashboard/internal/feature/candles/domain/entity"
	candleshandler "trading_dashboard/internal/feature/candles/transport/handler"
	"trading_dashboard/internal/feature/derivatives/domain/entity"
	derivativeshandler "trading_dashboard/internal/feature/derivatives/transport/handler"
	importerhandler "trading_dashboard/internal/feature/importer/transport/handler"
	importerusecase "trading_dashboard/internal/feature/importer/usecase"
	symbolentity "trading_dashboard/internal/feature/symbollist/domain/entity"
	symbollisthandler "trading_dashboard/internal/feature/symbollist/transport/handler"
	"trading_dashboard/internal/platform/mongodb"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// stubDashboard は常に同じデータを返すダッシュボードユースケース。
type stubDashboard struct{ err error }

func (s stubDashboard) Dates(context.Context, int) ([]string, error) {
	return []string{"2024-01-02"}, s.err
}
func (s stubDashboard) LatestDate(context.Context) (string, error) { return "2024-01-02", s.err }
func (s stubDashboard) Snapshot(context.Context, string) (string, []entity.Record, error) {
	return "2024-01-02", nil, s.err
}
func (s stubDashboard) Stock(_ context.Context, symbol, date string) (*entity.Record, error) {
	return &entity.Record{Symbol: symbol, Date: date}, s.err
}
func (s stubDashboard) Stats(context.Context) (entity.Stats, error) { return entity.Stats{}, s.err }
func (s stubDashboard) RecentCounts(context.Context, int) ([]entity.DateCount, error) {
	return nil, s.err
}
func (s stubDashboard) IndustryBreakdown(context.Context, string) (string, []entity.IndustryCount, error) {
	return "2024-01-02", nil, s.err
}

type stubImport struct{}

func (stubImport) ImportCSV(context.Context, string) (importerusecase.Result, error) {
	return importerusecase.Result{New: 1, Symbols: []string{"ABC"}}, nil
}

type stubCandles struct{}

func (stubCandles) GetCandles(context.Context, string, int) ([]candlesentity.Candle, error) {
	return nil, nil
}

type stubSymbols struct{}

func (stubSymbols) ListSymbols(context.Context) ([]symbolentity.Symbol, error) {
	return []symbolentity.Symbol{{Code: "ABC"}}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(dashErr, pingErr error) *gin.Engine {
	return NewRouter(Handlers{
		Dashboard: derivativeshandler.NewDashboardHandler(stubDashboard{err: dashErr}),
		Import:    importerhandler.NewImportHandler(stubImport{}),
		Candles:   candleshandler.NewCandlesHandler(stubCandles{}),
		Symbol:    symbollisthandler.NewSymbolHandler(stubSymbols{}),
		Ready:     stubPinger{err: pingErr},
	})
}

func TestNewRouter_RegistersRoutes(t *testing.T) {
	r := newTestRouter(nil, nil)

	registered := map[string]bool{}
	for _, ri := range r.Routes() {
		registered[ri.Method+" "+ri.Path] = true
	}

	for _, want := range []string{
		"GET /healthz", "HEAD /healthz", "OPTIONS /healthz",
		"GET /readyz", "HEAD /readyz",
		"GET /dates", "GET /latest", "GET /stats",
		"GET /stocks", "GET /stocks/:symbol",
		"GET /recent", "GET /industries",
		"GET /symbols", "GET /candles/:code",
		"POST /imports",
	} {
		assert.True(t, registered[want], "route %q not registered", want)
	}
}

func TestNewRouter_Serves(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		dashErr        error
		pingErr        error
		expectedStatus int
	}{
		{name: "healthz ignores database", method: http.MethodGet, path: "/healthz", pingErr: mongodb.ErrClosed, expectedStatus: http.StatusOK},
		{name: "readyz ok", method: http.MethodGet, path: "/readyz", expectedStatus: http.StatusOK},
		{name: "readyz fails closed", method: http.MethodGet, path: "/readyz", pingErr: fmt.Errorf("%w: timeout", mongodb.ErrNetwork), expectedStatus: http.StatusServiceUnavailable},
		{name: "dates", method: http.MethodGet, path: "/dates", expectedStatus: http.StatusOK},
		{name: "dates database down", method: http.MethodGet, path: "/dates", dashErr: fmt.Errorf("%w: timeout", mongodb.ErrNetwork), expectedStatus: http.StatusServiceUnavailable},
		{name: "stock", method: http.MethodGet, path: "/stocks/ABC?date=2024-01-02", expectedStatus: http.StatusOK},
		{name: "symbols", method: http.MethodGet, path: "/symbols", expectedStatus: http.StatusOK},
		{name: "candles", method: http.MethodGet, path: "/candles/ABC", expectedStatus: http.StatusOK},
		{name: "import raw body", method: http.MethodPost, path: "/imports", body: "Date,Symbol\n2024-01-02,ABC\n", expectedStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/login", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(tt.dashErr, tt.pingErr)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "text/csv")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
