package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestRepository connects to the MongoDB at MONGO_URI and gives every
// test its own database, dropped afterwards.
func openTestRepository(t *testing.T) (*Repository, context.Context) {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
	t.Cleanup(cancel)

	database := fmt.Sprintf("invest_test_%d", time.Now().UnixNano())
	repo, err := NewRepository(ctx, uri, database)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.client.Database(database).Drop(context.Background())
		repo.Close()
	})

	require.NoError(t, repo.EnsureIndexes(ctx))
	return repo, ctx
}

func testOperations() []operations.Operation {
	day := time.Date(2021, time.March, 1, 10, 0, 0, 0, time.UTC)
	return []operations.Operation{
		{ProviderID: "1", Figi: "A", Type: operations.TypeBuy, Status: operations.StatusProgress, Payment: -100, QuantityExecuted: 10, Date: day},
		{ProviderID: "2", Type: operations.TypePayIn, Status: operations.StatusDone, Payment: 1000, Date: day.Add(time.Hour)},
		{ProviderID: "3", Figi: "A", Type: operations.TypeSell, Status: operations.StatusDone, Payment: 60, QuantityExecuted: 6, Date: day.Add(2 * time.Hour)},
	}
}

func testCandles() []marketdata.Candle {
	day := time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)
	return []marketdata.Candle{
		{Figi: "A", Interval: marketdata.IntervalDay, Open: 1, High: 2, Low: 1, Close: 2, Volume: 10, Time: day, IsComplete: true},
		{Figi: "A", Interval: marketdata.IntervalDay, Open: 2, High: 3, Low: 2, Close: 3, Volume: 20, Time: day.AddDate(0, 0, 1), IsComplete: true},
		{Figi: "A", Interval: marketdata.IntervalWeek, Open: 1, High: 3, Low: 1, Close: 3, Volume: 30, Time: day, IsComplete: false},
	}
}

func TestRepositoryEnsureIndexesTwice(t *testing.T) {
	repo, ctx := openTestRepository(t)
	assert.NoError(t, repo.EnsureIndexes(ctx))
}

func TestRepositoryUpsertInstrumentsKeepsFirstRow(t *testing.T) {
	repo, ctx := openTestRepository(t)

	first, err := repo.UpsertInstruments(ctx, []instruments.Instrument{
		{Figi: "A", Ticker: "AAA", Name: "Alpha", Currency: "usd", Type: instruments.ShareType, Lot: 1},
	})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "A", first[0].Figi)
	assert.NotEmpty(t, first[0].ID)

	second, err := repo.UpsertInstruments(ctx, []instruments.Instrument{
		{Figi: "B", Ticker: "BBB", Name: "Beta", Currency: "rub", Type: instruments.BondType, Lot: 1},
		{Figi: "A", Ticker: "CHANGED", Name: "Alpha renamed", Currency: "usd", Type: instruments.ShareType, Lot: 10},
	})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "B", second[0].Figi)
	assert.Equal(t, instruments.Link{Figi: "A", ID: first[0].ID}, second[1])

	stored, err := repo.ListInstruments(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, first[0].ID, stored[0].ID)
	assert.Equal(t, "AAA", stored[0].Ticker)
	assert.Equal(t, int32(1), stored[0].Lot)
	assert.Equal(t, "BBB", stored[1].Ticker)
}

func TestRepositoryUpsertOperationsByProviderID(t *testing.T) {
	repo, ctx := openTestRepository(t)

	require.NoError(t, repo.UpsertOperations(ctx, testOperations()))

	rerun := testOperations()
	rerun[0].Status = operations.StatusDone
	require.NoError(t, repo.UpsertOperations(ctx, rerun))

	stored, err := repo.ListOperations(ctx, operations.Filter{})
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "1", stored[0].ProviderID)
	assert.Equal(t, operations.StatusDone, stored[0].Status)
	for _, op := range stored {
		assert.Nil(t, op.Instrument)
	}

	done, err := repo.ListOperations(ctx, operations.Filter{Figi: "A", Status: operations.StatusDone})
	require.NoError(t, err)
	assert.Len(t, done, 2)
}

func TestRepositoryLinkOperationsByFigi(t *testing.T) {
	repo, ctx := openTestRepository(t)

	require.NoError(t, repo.UpsertOperations(ctx, testOperations()))
	links, err := repo.UpsertInstruments(ctx, []instruments.Instrument{{Figi: "A", Ticker: "AAA"}})
	require.NoError(t, err)
	id := links[0].ID

	matched, err := repo.LinkOperations(ctx, "A", id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), matched)

	matched, err = repo.LinkOperations(ctx, "A", id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), matched)

	// a rerun of the import must not clear the reference
	require.NoError(t, repo.UpsertOperations(ctx, testOperations()))

	stored, err := repo.ListOperations(ctx, operations.Filter{})
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, op := range stored {
		if op.Figi == "" {
			assert.Nil(t, op.Instrument)
			continue
		}
		require.NotNil(t, op.Instrument)
		assert.Equal(t, id, *op.Instrument)
	}

	_, err = repo.LinkOperations(ctx, "A", "not-an-object-id")
	assert.Error(t, err)
}

func TestRepositoryUpsertCandlesByNaturalKey(t *testing.T) {
	repo, ctx := openTestRepository(t)

	require.NoError(t, repo.UpsertCandles(ctx, testCandles()))

	rerun := testCandles()
	rerun[2].Close = 4
	rerun[2].IsComplete = true
	require.NoError(t, repo.UpsertCandles(ctx, rerun))

	stored, err := repo.ListCandles(ctx, marketdata.CandleFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 3)

	weekly, err := repo.ListCandles(ctx, marketdata.CandleFilter{Figi: "A", Interval: marketdata.IntervalWeek})
	require.NoError(t, err)
	require.Len(t, weekly, 1)
	assert.Equal(t, 4.0, weekly[0].Close)
	assert.True(t, weekly[0].IsComplete)

	links, err := repo.UpsertInstruments(ctx, []instruments.Instrument{{Figi: "A", Ticker: "AAA"}})
	require.NoError(t, err)
	matched, err := repo.LinkCandles(ctx, "A", links[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), matched)

	require.NoError(t, repo.UpsertCandles(ctx, testCandles()))
	stored, err = repo.ListCandles(ctx, marketdata.CandleFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, candle := range stored {
		require.NotNil(t, candle.Instrument)
		assert.Equal(t, links[0].ID, *candle.Instrument)
	}
}
