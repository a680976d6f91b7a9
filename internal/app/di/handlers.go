package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"trading_dashboard/internal/app/router"
	candlesadapters "trading_dashboard/internal/feature/candles/adapters"
	candleshandler "trading_dashboard/internal/feature/candles/transport/handler"
	candlesusecase "trading_dashboard/internal/feature/candles/usecase"
	derivativesadapters "trading_dashboard/internal/feature/derivatives/adapters"
	derivativeshandler "trading_dashboard/internal/feature/derivatives/transport/handler"
	derivativesusecase "trading_dashboard/internal/feature/derivatives/usecase"
	importeradapters "trading_dashboard/internal/feature/importer/adapters"
	importerhandler "trading_dashboard/internal/feature/importer/transport/handler"
	importerusecase "trading_dashboard/internal/feature/importer/usecase"
	symbollistadapters "trading_dashboard/internal/feature/symbollist/adapters"
	symbollisthandler "trading_dashboard/internal/feature/symbollist/transport/handler"
	symbollistusecase "trading_dashboard/internal/feature/symbollist/usecase"
	"trading_dashboard/internal/platform/cache"
	"trading_dashboard/internal/platform/http/handler"
	"trading_dashboard/internal/platform/mongodb"
)

// Database is what the HTTP layer needs from the connection handle.
// *mongodb.Manager satisfies it.
type Database interface {
	mongodb.DatabaseProvider
	handler.Pinger
}

// NewRecordRepository wraps the Mongo-backed derivatives repository with the
// Redis read-through cache. With a nil rdb the cache is bypassed.
func NewRecordRepository(rdb *redis.Client, ttl time.Duration, db mongodb.DatabaseProvider) *cache.CachingRecordRepository {
	return cache.NewCachingRecordRepository(rdb, ttl, derivativesadapters.NewRecordRepository(db), "derivatives")
}

// NewImportUsecase wires the CSV importer. invalidator may be nil.
func NewImportUsecase(db mongodb.DatabaseProvider, invalidator importerusecase.CacheInvalidator) *importerusecase.ImportUsecase {
	var opts []importerusecase.Option
	if invalidator != nil {
		opts = append(opts, importerusecase.WithCacheInvalidator(invalidator))
	}
	return importerusecase.NewImportUsecase(importeradapters.NewRecordStore(db), opts...)
}

// NewHandlers builds every feature handler on top of db.
func NewHandlers(db Database, rdb *redis.Client, ttl time.Duration) router.Handlers {
	// Repository
	symbolRepo := symbollistadapters.NewSymbolRepository(db)
	recordRepo := NewRecordRepository(rdb, ttl, db)
	// Redisキャッシュでラップ
	candleRepo := cache.NewCachingCandleRepository(rdb, ttl, candlesadapters.NewCandleRepository(db), "candles")

	// Usecase
	symbolUC := symbollistusecase.NewSymbolUsecase(symbolRepo)
	dashboardUC := derivativesusecase.NewDashboardUsecase(recordRepo, symbolUC)
	candlesUC := candlesusecase.NewCandlesUsecase(candleRepo)
	importUC := NewImportUsecase(db, recordRepo)

	// Handler
	return router.Handlers{
		Dashboard: derivativeshandler.NewDashboardHandler(dashboardUC),
		Import:    importerhandler.NewImportHandler(importUC),
		Candles:   candleshandler.NewCandlesHandler(candlesUC),
		Symbol:    symbollisthandler.NewSymbolHandler(symbolUC),
		Ready:     db,
	}
}
