package mongostore

import (
	"context"
	"errors"
	"fmt"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"
	interfaces "investhistory/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	operationsCollection  = "operations"
	instrumentsCollection = "instruments"
	candlesCollection     = "candles"
)

// Repository keeps operations, instruments and candles in three collections
// of one MongoDB database.
type Repository struct {
	client      *mongo.Client
	operations  *mongo.Collection
	instruments *mongo.Collection
	candles     *mongo.Collection
}

var _ interfaces.HistoryStore = (*Repository)(nil)

func NewRepository(ctx context.Context, uri, database string) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	db := client.Database(database)
	return &Repository{
		client:      client,
		operations:  db.Collection(operationsCollection),
		instruments: db.Collection(instrumentsCollection),
		candles:     db.Collection(candlesCollection),
	}, nil
}

func (r *Repository) Close() {
	if r == nil || r.client == nil {
		return
	}
	_ = r.client.Disconnect(context.Background())
}

func (r *Repository) EnsureIndexes(ctx context.Context) error {
	for _, spec := range indexSpecs() {
		coll := r.operations.Database().Collection(spec.collection)
		if _, err := coll.Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("create %s indexes: %w", spec.collection, err)
		}
	}
	return nil
}

// Instruments

func (r *Repository) UpsertInstruments(ctx context.Context, items []instruments.Instrument) ([]instruments.Link, error) {
	links := make([]instruments.Link, 0, len(items))
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	for _, item := range items {
		var stored instrumentDocument
		err := r.instruments.FindOneAndUpdate(ctx,
			bson.M{"figi": item.Figi},
			bson.M{"$setOnInsert": newInstrumentFields(item)},
			opts,
		).Decode(&stored)
		if err != nil {
			return nil, fmt.Errorf("upsert instrument %s: %w", item.Figi, err)
		}
		links = append(links, instruments.Link{Figi: item.Figi, ID: stored.ID.Hex()})
	}
	return links, nil
}

func (r *Repository) ListInstruments(ctx context.Context) ([]instruments.Instrument, error) {
	cursor, err := r.instruments.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []instrumentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]instruments.Instrument, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.toDomain())
	}
	return result, nil
}

// Operations

func (r *Repository) UpsertOperations(ctx context.Context, items []operations.Operation) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"id": item.ProviderID}).
			SetUpdate(bson.M{
				"$set":         newOperationFields(item),
				"$setOnInsert": bson.M{"instrument": nil},
			}).
			SetUpsert(true))
	}
	_, err := r.operations.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (r *Repository) ListOperations(ctx context.Context, filter operations.Filter) ([]operations.Operation, error) {
	cursor, err := r.operations.Find(ctx, operationsQuery(filter), options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []operationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]operations.Operation, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.toDomain())
	}
	return result, nil
}

func (r *Repository) LinkOperations(ctx context.Context, figi, instrumentID string) (int64, error) {
	return linkByFigi(ctx, r.operations, figi, instrumentID)
}

// Candles

func (r *Repository) UpsertCandles(ctx context.Context, items []marketdata.Candle) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		fields := newCandleFields(item)
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"figi": fields.Figi, "interval": fields.Interval, "time": fields.Time}).
			SetUpdate(bson.M{
				"$set":         fields,
				"$setOnInsert": bson.M{"instrument": nil},
			}).
			SetUpsert(true))
	}
	_, err := r.candles.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (r *Repository) ListCandles(ctx context.Context, filter marketdata.CandleFilter) ([]marketdata.Candle, error) {
	sort := bson.D{{Key: "figi", Value: 1}, {Key: "interval", Value: 1}, {Key: "time", Value: 1}}
	cursor, err := r.candles.Find(ctx, candlesQuery(filter), options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	var docs []candleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]marketdata.Candle, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.toDomain())
	}
	return result, nil
}

func (r *Repository) LinkCandles(ctx context.Context, figi, instrumentID string) (int64, error) {
	return linkByFigi(ctx, r.candles, figi, instrumentID)
}

// Helpers

func linkByFigi(ctx context.Context, coll *mongo.Collection, figi, instrumentID string) (int64, error) {
	if figi == "" {
		return 0, errors.New("figi is required")
	}
	oid, err := primitive.ObjectIDFromHex(instrumentID)
	if err != nil {
		return 0, fmt.Errorf("parse instrument id %q: %w", instrumentID, err)
	}
	res, err := coll.UpdateMany(ctx, bson.M{"figi": figi}, bson.M{"$set": bson.M{"instrument": oid}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func operationsQuery(filter operations.Filter) bson.D {
	query := bson.D{}
	if filter.Figi != "" {
		query = append(query, bson.E{Key: "figi", Value: filter.Figi})
	}
	if filter.Status != "" {
		query = append(query, bson.E{Key: "status", Value: string(filter.Status)})
	}
	return query
}

func candlesQuery(filter marketdata.CandleFilter) bson.D {
	query := bson.D{}
	if filter.Figi != "" {
		query = append(query, bson.E{Key: "figi", Value: filter.Figi})
	}
	if filter.Interval != "" {
		query = append(query, bson.E{Key: "interval", Value: string(filter.Interval)})
	}
	return query
}
