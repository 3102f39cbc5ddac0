package mongostore

import (
	"time"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InstrumentFields struct {
	Figi              string  `bson:"figi"`
	Ticker            string  `bson:"ticker"`
	Name              string  `bson:"name"`
	Currency          string  `bson:"currency"`
	Type              string  `bson:"type"`
	Lot               int32   `bson:"lot"`
	ClassCode         string  `bson:"classCode,omitempty"`
	Isin              string  `bson:"isin,omitempty"`
	MinPriceIncrement float64 `bson:"minPriceIncrement,omitempty"`
}

type instrumentDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	InstrumentFields `bson:",inline"`
}

// OperationFields holds everything the provider owns. The instrument
// back-reference is written by the link pass only.
type OperationFields struct {
	ProviderID        string    `bson:"id"`
	ParentOperationID string    `bson:"parentOperationId,omitempty"`
	OperationType     string    `bson:"operationType"`
	Status            string    `bson:"status"`
	Payment           float64   `bson:"payment"`
	Price             float64   `bson:"price"`
	Currency          string    `bson:"currency"`
	Quantity          int64     `bson:"quantity"`
	QuantityExecuted  int64     `bson:"quantityExecuted"`
	Figi              string    `bson:"figi,omitempty"`
	InstrumentType    string    `bson:"instrumentType,omitempty"`
	Date              time.Time `bson:"date"`
}

type operationDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	OperationFields `bson:",inline"`
	Instrument      *primitive.ObjectID `bson:"instrument"`
}

type CandleFields struct {
	Figi       string    `bson:"figi"`
	Interval   string    `bson:"interval"`
	Open       float64   `bson:"o"`
	High       float64   `bson:"h"`
	Low        float64   `bson:"l"`
	Close      float64   `bson:"c"`
	Volume     int64     `bson:"v"`
	Time       time.Time `bson:"time"`
	IsComplete bool      `bson:"isComplete"`
}

type candleDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CandleFields `bson:",inline"`
	Instrument   *primitive.ObjectID `bson:"instrument"`
}

func newInstrumentFields(i instruments.Instrument) InstrumentFields {
	return InstrumentFields{
		Figi:              i.Figi,
		Ticker:            i.Ticker,
		Name:              i.Name,
		Currency:          i.Currency,
		Type:              string(i.Type),
		Lot:               i.Lot,
		ClassCode:         i.ClassCode,
		Isin:              i.Isin,
		MinPriceIncrement: i.MinPriceIncrement,
	}
}

func (d instrumentDocument) toDomain() instruments.Instrument {
	return instruments.Instrument{
		ID:                hexOrEmpty(d.ID),
		Figi:              d.Figi,
		Ticker:            d.Ticker,
		Name:              d.Name,
		Currency:          d.Currency,
		Type:              instruments.InstrumentType(d.Type),
		Lot:               d.Lot,
		ClassCode:         d.ClassCode,
		Isin:              d.Isin,
		MinPriceIncrement: d.MinPriceIncrement,
	}
}

func newOperationFields(o operations.Operation) OperationFields {
	return OperationFields{
		ProviderID:        o.ProviderID,
		ParentOperationID: o.ParentOperationID,
		OperationType:     string(o.Type),
		Status:            string(o.Status),
		Payment:           o.Payment,
		Price:             o.Price,
		Currency:          o.Currency,
		Quantity:          o.Quantity,
		QuantityExecuted:  o.QuantityExecuted,
		Figi:              o.Figi,
		InstrumentType:    o.InstrumentType,
		Date:              o.Date.UTC(),
	}
}

func (d operationDocument) toDomain() operations.Operation {
	return operations.Operation{
		ID:                hexOrEmpty(d.ID),
		ProviderID:        d.ProviderID,
		ParentOperationID: d.ParentOperationID,
		Type:              operations.OperationType(d.OperationType),
		Status:            operations.OperationStatus(d.Status),
		Payment:           d.Payment,
		Price:             d.Price,
		Currency:          d.Currency,
		Quantity:          d.Quantity,
		QuantityExecuted:  d.QuantityExecuted,
		Figi:              d.Figi,
		InstrumentType:    d.InstrumentType,
		Date:              d.Date.UTC(),
		Instrument:        refOrNil(d.Instrument),
	}
}

func newCandleFields(c marketdata.Candle) CandleFields {
	return CandleFields{
		Figi:       c.Figi,
		Interval:   string(c.Interval),
		Open:       c.Open,
		High:       c.High,
		Low:        c.Low,
		Close:      c.Close,
		Volume:     c.Volume,
		Time:       c.Time.UTC(),
		IsComplete: c.IsComplete,
	}
}

func (d candleDocument) toDomain() marketdata.Candle {
	return marketdata.Candle{
		ID:         hexOrEmpty(d.ID),
		Figi:       d.Figi,
		Interval:   marketdata.CandleInterval(d.Interval),
		Open:       d.Open,
		High:       d.High,
		Low:        d.Low,
		Close:      d.Close,
		Volume:     d.Volume,
		Time:       d.Time.UTC(),
		IsComplete: d.IsComplete,
		Instrument: refOrNil(d.Instrument),
	}
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

func refOrNil(id *primitive.ObjectID) *string {
	if id == nil || id.IsZero() {
		return nil
	}
	hex := id.Hex()
	return &hex
}
