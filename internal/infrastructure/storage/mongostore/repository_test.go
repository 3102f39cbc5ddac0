package mongostore

import (
	"testing"
	"time"

	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOperationDocumentLayout(t *testing.T) {
	op := operations.Operation{
		ProviderID:       "42",
		Type:             operations.TypeBuy,
		Status:           operations.StatusDone,
		Payment:          -100,
		QuantityExecuted: 10,
		Figi:             "A",
		Date:             time.Date(2020, time.May, 5, 0, 0, 0, 0, time.UTC),
	}

	raw, err := bson.Marshal(operationDocument{OperationFields: newOperationFields(op)})
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.Equal(t, "42", fields["id"])
	assert.Equal(t, "Buy", fields["operationType"])
	assert.Equal(t, "Done", fields["status"])
	assert.Equal(t, int64(10), fields["quantityExecuted"])
	assert.Contains(t, fields, "instrument")
	assert.Nil(t, fields["instrument"])
	assert.NotContains(t, fields, "_id")
}

func TestOperationDocumentToDomain(t *testing.T) {
	id := primitive.NewObjectID()
	ref := primitive.NewObjectID()
	doc := operationDocument{
		ID: id,
		OperationFields: OperationFields{
			ProviderID:    "1",
			OperationType: "Sell",
			Status:        "Done",
			Figi:          "A",
		},
		Instrument: &ref,
	}

	op := doc.toDomain()
	assert.Equal(t, id.Hex(), op.ID)
	assert.Equal(t, operations.TypeSell, op.Type)
	require.NotNil(t, op.Instrument)
	assert.Equal(t, ref.Hex(), *op.Instrument)

	doc.Instrument = nil
	assert.Nil(t, doc.toDomain().Instrument)
}

func TestCandleDocumentToDomain(t *testing.T) {
	ts := time.Date(2018, time.March, 1, 0, 0, 0, 0, time.UTC)
	doc := candleDocument{CandleFields: newCandleFields(marketdata.Candle{
		Figi:     "A",
		Interval: marketdata.IntervalMonth,
		Open:     1,
		Close:    2,
		Time:     ts,
	})}

	candle := doc.toDomain()
	assert.Equal(t, "", candle.ID)
	assert.Equal(t, marketdata.IntervalMonth, candle.Interval)
	assert.Equal(t, 2.0, candle.Close)
	assert.Equal(t, ts, candle.Time)
	assert.Nil(t, candle.Instrument)
}

func TestQueries(t *testing.T) {
	assert.Equal(t, bson.D{}, operationsQuery(operations.Filter{}))
	assert.Equal(t,
		bson.D{{Key: "figi", Value: "A"}, {Key: "status", Value: "Done"}},
		operationsQuery(operations.Filter{Figi: "A", Status: operations.StatusDone}),
	)
	assert.Equal(t,
		bson.D{{Key: "interval", Value: "day"}},
		candlesQuery(marketdata.CandleFilter{Interval: marketdata.IntervalDay}),
	)
}

func TestIndexSpecsCoverCollections(t *testing.T) {
	names := map[string]bool{}
	for _, spec := range indexSpecs() {
		names[spec.collection] = len(spec.models) > 0
	}
	assert.Equal(t, map[string]bool{
		operationsCollection:  true,
		instrumentsCollection: true,
		candlesCollection:     true,
	}, names)
}
