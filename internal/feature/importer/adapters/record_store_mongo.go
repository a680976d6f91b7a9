// Package adapters はimporterフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	derivatives "trading_dashboard/internal/feature/derivatives/adapters"
	"trading_dashboard/internal/feature/derivatives/domain/entity"
	"trading_dashboard/internal/feature/importer/usecase"
	"trading_dashboard/internal/platform/mongodb"
)

// recordStoreMongo はRecordStoreインターフェースのMongoDB実装です。
type recordStoreMongo struct {
	provider mongodb.DatabaseProvider
	dbName   string
}

var _ usecase.RecordStore = (*recordStoreMongo)(nil)

// NewRecordStore は指定されたプロバイダーでrecordStoreMongoの新しいインスタンスを生成します。
func NewRecordStore(provider mongodb.DatabaseProvider) *recordStoreMongo {
	return &recordStoreMongo{provider: provider, dbName: derivatives.DatabaseName}
}

func (s *recordStoreMongo) database(ctx context.Context) (*mongo.Database, error) {
	return s.provider.Database(ctx, s.dbName)
}

// Upsert は derivative_data に (date, symbol) をキーとして $set で書き込みます。
func (s *recordStoreMongo) Upsert(ctx context.Context, r entity.Record) (bool, error) {
	db, err := s.database(ctx)
	if err != nil {
		return false, err
	}
	doc := derivatives.FromEntity(r)
	filter := bson.D{{Key: "date", Value: doc.Date}, {Key: "symbol", Value: doc.Symbol}}

	res, err := db.Collection(derivatives.RecordsCollection).
		UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: doc}}, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return false, mongodb.ClassifyQuery(err)
	}
	return res.UpsertedCount > 0, nil
}

// RebuildSymbol は derivative_data の全履歴を stock_<SYMBOL> に日付キーで一括反映し、
// stocks_summary を最新レコードで更新します。
func (s *recordStoreMongo) RebuildSymbol(ctx context.Context, symbol string) error {
	db, err := s.database(ctx)
	if err != nil {
		return err
	}

	cur, err := db.Collection(derivatives.RecordsCollection).Find(ctx,
		bson.D{{Key: "symbol", Value: symbol}},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return mongodb.ClassifyQuery(err)
	}
	var docs []derivatives.RecordDocument
	if err := cur.All(ctx, &docs); err != nil {
		return mongodb.ClassifyQuery(err)
	}
	if len(docs) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(docs))
	for _, d := range docs {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "date", Value: d.Date}}).
			SetUpdate(bson.D{{Key: "$set", Value: d}}).
			SetUpsert(true))
	}
	if _, err := db.Collection(derivatives.StockCollection(symbol)).
		BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return mongodb.ClassifyQuery(err)
	}

	latest := docs[len(docs)-1]
	summary := bson.D{
		{Key: "symbol", Value: symbol},
		{Key: "stock_name", Value: latest.StockName},
		{Key: "sector_name", Value: latest.SectorName},
		{Key: "industry_name", Value: latest.IndustryName},
		{Key: "mcap_category", Value: latest.MCapCategory},
		{Key: "lot_size", Value: latest.LotSize},
		{Key: "record_count", Value: int64(len(docs))},
		{Key: "latest_date", Value: latest.Date},
	}
	_, err = db.Collection(derivatives.SummaryCollection).UpdateOne(ctx,
		bson.D{{Key: "symbol", Value: symbol}},
		bson.D{{Key: "$set", Value: summary}},
		options.UpdateOne().SetUpsert(true))
	return mongodb.ClassifyQuery(err)
}
