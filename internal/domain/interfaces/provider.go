package interfaces

import (
	"context"
	"errors"
	"time"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"
)

var ErrInstrumentNotFound = errors.New("instrument not found")

// MarketDataProvider is the remote broker API. Implementations neither retry
// nor throttle; callers own the request pacing.
type MarketDataProvider interface {
	FetchOperations(ctx context.Context, from, to time.Time) ([]operations.Operation, error)
	// SearchInstrument returns ErrInstrumentNotFound when the provider has no
	// instrument for figi.
	SearchInstrument(ctx context.Context, figi string) (*instruments.Instrument, error)
	FetchCandles(ctx context.Context, figi string, interval marketdata.CandleInterval, from, to time.Time) ([]marketdata.Candle, error)
}
