package adapters

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"trading_dashboard/internal/feature/derivatives/domain/entity"
	"trading_dashboard/internal/feature/derivatives/usecase"
	"trading_dashboard/internal/platform/mongodb"
)

type derivativeMongo struct {
	provider mongodb.DatabaseProvider
	dbName   string
}

var _ usecase.RecordRepository = (*derivativeMongo)(nil)

func NewRecordRepository(provider mongodb.DatabaseProvider) *derivativeMongo {
	return &derivativeMongo{provider: provider, dbName: DatabaseName}
}

func (r *derivativeMongo) database(ctx context.Context) (*mongo.Database, error) {
	return r.provider.Database(ctx, r.dbName)
}

func (r *derivativeMongo) records(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(RecordsCollection), nil
}

func (r *derivativeMongo) Dates(ctx context.Context) ([]string, error) {
	coll, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	var dates []string
	if err := coll.Distinct(ctx, "date", bson.D{}).Decode(&dates); err != nil {
		return nil, mongodb.ClassifyQuery(err)
	}
	return dates, nil
}

func (r *derivativeMongo) LatestDate(ctx context.Context) (string, error) {
	coll, err := r.records(ctx)
	if err != nil {
		return "", err
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetProjection(bson.D{{Key: "date", Value: 1}})

	var doc struct {
		Date string `bson:"date"`
	}
	err = coll.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", mongodb.ClassifyQuery(err)
	}
	return doc.Date, nil
}

func (r *derivativeMongo) FindByDate(ctx context.Context, date string, symbols []string) ([]entity.Record, error) {
	coll, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	filter := bson.D{
		{Key: "date", Value: date},
		{Key: "symbol", Value: bson.D{{Key: "$in", Value: symbols}}},
	}
	cur, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, mongodb.ClassifyQuery(err)
	}
	var docs []RecordDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mongodb.ClassifyQuery(err)
	}

	out := make([]entity.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ToEntity())
	}
	return out, nil
}

func (r *derivativeMongo) FindStock(ctx context.Context, symbol, date string) (*entity.Record, error) {
	db, err := r.database(ctx)
	if err != nil {
		return nil, err
	}
	var doc RecordDocument
	err = db.Collection(StockCollection(symbol)).FindOne(ctx, bson.D{{Key: "date", Value: date}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, mongodb.ClassifyQuery(err)
	}
	rec := doc.ToEntity()
	return &rec, nil
}

func (r *derivativeMongo) Count(ctx context.Context, date string) (int64, error) {
	coll, err := r.records(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	if date == "" {
		n, err = coll.EstimatedDocumentCount(ctx)
	} else {
		n, err = coll.CountDocuments(ctx, bson.D{{Key: "date", Value: date}})
	}
	if err != nil {
		return 0, mongodb.ClassifyQuery(err)
	}
	return n, nil
}

func (r *derivativeMongo) Industries(ctx context.Context, date string) ([]entity.IndustryCount, error) {
	coll, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "date", Value: date}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$industry_name"},
			{Key: "stocks", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mongodb.ClassifyQuery(err)
	}
	var rows []struct {
		Industry string `bson:"_id"`
		Stocks   int64  `bson:"stocks"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, mongodb.ClassifyQuery(err)
	}

	out := make([]entity.IndustryCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.IndustryCount{Industry: row.Industry, Stocks: row.Stocks})
	}
	return out, nil
}
