package mongostore

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

// indexSpecs covers the join and filter columns used by the link pass, the
// listings and the natural-key upserts.
func indexSpecs() []collectionIndexes {
	return []collectionIndexes{
		{
			collection: operationsCollection,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
				{Keys: bson.D{{Key: "figi", Value: 1}}},
				{Keys: bson.D{{Key: "operationType", Value: 1}, {Key: "status", Value: 1}, {Key: "date", Value: 1}}},
				{Keys: bson.D{{Key: "instrument", Value: 1}, {Key: "status", Value: 1}}},
			},
		},
		{
			collection: instrumentsCollection,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "figi", Value: 1}}, Options: options.Index().SetUnique(true)},
				{Keys: bson.D{{Key: "ticker", Value: 1}}},
				{Keys: bson.D{{Key: "type", Value: 1}}},
			},
		},
		{
			collection: candlesCollection,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "figi", Value: 1}, {Key: "interval", Value: 1}, {Key: "time", Value: 1}}, Options: options.Index().SetUnique(true)},
			},
		},
	}
}
