package history

import (
	"context"
	"errors"
	"testing"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoMock struct {
	err           error
	candleFilters []marketdata.CandleFilter
	opFilters     []operations.Filter
}

func (m *repoMock) UpsertInstruments(context.Context, []instruments.Instrument) ([]instruments.Link, error) {
	return nil, nil
}

func (m *repoMock) ListInstruments(context.Context) ([]instruments.Instrument, error) {
	return nil, m.err
}

func (m *repoMock) UpsertOperations(context.Context, []operations.Operation) error { return nil }

func (m *repoMock) ListOperations(_ context.Context, filter operations.Filter) ([]operations.Operation, error) {
	m.opFilters = append(m.opFilters, filter)
	return nil, m.err
}

func (m *repoMock) LinkOperations(context.Context, string, string) (int64, error) { return 0, nil }

func (m *repoMock) UpsertCandles(context.Context, []marketdata.Candle) error { return nil }

func (m *repoMock) ListCandles(_ context.Context, filter marketdata.CandleFilter) ([]marketdata.Candle, error) {
	m.candleFilters = append(m.candleFilters, filter)
	return nil, m.err
}

func (m *repoMock) LinkCandles(context.Context, string, string) (int64, error) { return 0, nil }

func TestListReturnsEmptySlices(t *testing.T) {
	svc := NewService(&repoMock{})
	ctx := context.Background()

	insts, err := svc.ListInstruments(ctx)
	require.NoError(t, err)
	assert.NotNil(t, insts)

	ops, err := svc.ListOperations(ctx, operations.Filter{})
	require.NoError(t, err)
	assert.NotNil(t, ops)

	candles, err := svc.ListCandles(ctx, marketdata.CandleFilter{})
	require.NoError(t, err)
	assert.NotNil(t, candles)
}

func TestListCandlesRejectsUnknownInterval(t *testing.T) {
	repo := &repoMock{}

	_, err := NewService(repo).ListCandles(context.Background(), marketdata.CandleFilter{Interval: "hour"})
	assert.ErrorIs(t, err, ErrInvalidInterval)
	assert.Empty(t, repo.candleFilters)
}

func TestListPassesFiltersAndErrors(t *testing.T) {
	boom := errors.New("store down")
	repo := &repoMock{err: boom}
	svc := NewService(repo)

	_, err := svc.ListOperations(context.Background(), operations.Filter{Figi: "A"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []operations.Filter{{Figi: "A"}}, repo.opFilters)

	_, err = svc.ListCandles(context.Background(), marketdata.CandleFilter{Figi: "A", Interval: marketdata.IntervalWeek})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, marketdata.IntervalWeek, repo.candleFilters[0].Interval)
}
