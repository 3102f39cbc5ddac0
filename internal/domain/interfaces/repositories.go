package interfaces

import (
	"context"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"
)

type InstrumentsRepository interface {
	// UpsertInstruments stores instruments keyed by FIGI. An instrument that
	// already exists is left untouched. The returned links follow the input
	// order and carry the identifier of the stored row for every FIGI.
	UpsertInstruments(ctx context.Context, items []instruments.Instrument) ([]instruments.Link, error)
	ListInstruments(ctx context.Context) ([]instruments.Instrument, error)
}

type OperationsRepository interface {
	UpsertOperations(ctx context.Context, items []operations.Operation) error
	ListOperations(ctx context.Context, filter operations.Filter) ([]operations.Operation, error)
	// LinkOperations sets the instrument back-reference on every operation
	// with the given FIGI and returns the number of matched operations.
	LinkOperations(ctx context.Context, figi, instrumentID string) (int64, error)
}

type CandlesRepository interface {
	UpsertCandles(ctx context.Context, items []marketdata.Candle) error
	ListCandles(ctx context.Context, filter marketdata.CandleFilter) ([]marketdata.Candle, error)
	LinkCandles(ctx context.Context, figi, instrumentID string) (int64, error)
}

// HistoryStore is the persistent store shared by the importer and the API.
type HistoryStore interface {
	InstrumentsRepository
	OperationsRepository
	CandlesRepository
	EnsureIndexes(ctx context.Context) error
	Close()
}
