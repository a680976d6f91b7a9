// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	derivatives "trading_dashboard/internal/feature/derivatives/adapters"
	"trading_dashboard/internal/feature/symbollist/domain/entity"
	"trading_dashboard/internal/feature/symbollist/usecase"
	"trading_dashboard/internal/platform/mongodb"
)

// summaryDocument は stocks_summary コレクションのドキュメントです。
type summaryDocument struct {
	Symbol       string  `bson:"symbol"`
	StockName    string  `bson:"stock_name"`
	SectorName   string  `bson:"sector_name"`
	IndustryName string  `bson:"industry_name"`
	MCapCategory string  `bson:"mcap_category"`
	LotSize      float64 `bson:"lot_size"`
	RecordCount  int64   `bson:"record_count"`
	LatestDate   string  `bson:"latest_date"`
}

// symbolMongo はSymbolRepositoryインターフェースのMongoDB実装です。
type symbolMongo struct {
	provider mongodb.DatabaseProvider
	dbName   string
}

var _ usecase.SymbolRepository = (*symbolMongo)(nil)

// NewSymbolRepository は指定されたプロバイダーでsymbolMongoリポジトリの新しいインスタンスを生成します。
func NewSymbolRepository(provider mongodb.DatabaseProvider) *symbolMongo {
	return &symbolMongo{provider: provider, dbName: derivatives.DatabaseName}
}

func (r *symbolMongo) summaries(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.provider.Database(ctx, r.dbName)
	if err != nil {
		return nil, err
	}
	return db.Collection(derivatives.SummaryCollection), nil
}

// List はsymbol順にすべての追跡銘柄を返します。
func (r *symbolMongo) List(ctx context.Context) ([]entity.Symbol, error) {
	coll, err := r.summaries(ctx)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "symbol", Value: 1}}))
	if err != nil {
		return nil, mongodb.ClassifyQuery(err)
	}
	var docs []summaryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mongodb.ClassifyQuery(err)
	}

	out := make([]entity.Symbol, 0, len(docs))
	for _, d := range docs {
		out = append(out, entity.Symbol{
			Code:         d.Symbol,
			Name:         d.StockName,
			Sector:       d.SectorName,
			Industry:     d.IndustryName,
			MCapCategory: d.MCapCategory,
			LotSize:      d.LotSize,
			RecordCount:  d.RecordCount,
			LatestDate:   d.LatestDate,
		})
	}
	return out, nil
}

// ListCodes は追跡銘柄のコードのみを返します。
func (r *symbolMongo) ListCodes(ctx context.Context) ([]string, error) {
	coll, err := r.summaries(ctx)
	if err != nil {
		return nil, err
	}
	var codes []string
	if err := coll.Distinct(ctx, "symbol", bson.D{}).Decode(&codes); err != nil {
		return nil, mongodb.ClassifyQuery(err)
	}
	return codes, nil
}
