package adapters

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"trading_dashboard/internal/feature/candles/domain/entity"
	"trading_dashboard/internal/feature/candles/usecase"
	"trading_dashboard/internal/platform/mongodb"
)

const (
	// DatabaseName holds one EOD collection per symbol.
	DatabaseName = "fno_ohlc_data"

	eodCollectionPrefix = "eod_"
	dateLayout          = "2006-01-02"
)

// EODCollection returns the collection holding a symbol's daily bars.
func EODCollection(symbol string) string {
	return eodCollectionPrefix + symbol
}

type candleMongo struct {
	provider mongodb.DatabaseProvider
	dbName   string
}

var _ usecase.CandleRepository = (*candleMongo)(nil)

func NewCandleRepository(provider mongodb.DatabaseProvider) *candleMongo {
	return &candleMongo{provider: provider, dbName: DatabaseName}
}

// CandleDocument is one daily bar. Volume is absent in older collections
// and stored as a double in some.
type CandleDocument struct {
	Date   string  `bson:"date"`
	Open   float64 `bson:"open"`
	High   float64 `bson:"high"`
	Low    float64 `bson:"low"`
	Close  float64 `bson:"close"`
	Volume float64 `bson:"volume,omitempty"`
}

func toEntity(symbol string, d CandleDocument) entity.Candle {
	t, _ := time.Parse(dateLayout, d.Date)
	return entity.Candle{
		Symbol: symbol,
		Time:   t,
		Open:   d.Open,
		High:   d.High,
		Low:    d.Low,
		Close:  d.Close,
		Volume: int64(d.Volume),
	}
}

func (r *candleMongo) Find(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
	db, err := r.provider.Database(ctx, r.dbName)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if outputsize > 0 {
		opts.SetLimit(int64(outputsize))
	}
	cur, err := db.Collection(EODCollection(symbol)).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, mongodb.ClassifyQuery(err)
	}
	var rows []CandleDocument
	if err := cur.All(ctx, &rows); err != nil {
		return nil, mongodb.ClassifyQuery(err)
	}

	out := make([]entity.Candle, 0, len(rows))
	for _, d := range rows {
		out = append(out, toEntity(symbol, d))
	}
	return out, nil
}
