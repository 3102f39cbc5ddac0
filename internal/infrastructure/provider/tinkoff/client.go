package tinkoff

import (
	"context"
	"fmt"
	"time"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"
	interfaces "investhistory/internal/domain/interfaces"

	investgo "github.com/russianinvestments/invest-api-go-sdk/investgo"
	pb "github.com/russianinvestments/invest-api-go-sdk/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Client adapts the invest API services to interfaces.MarketDataProvider.
// It performs a single request per call and returns provider errors as is.
type Client struct {
	operations  *investgo.OperationsServiceClient
	instruments *investgo.InstrumentsServiceClient
	marketdata  *investgo.MarketDataServiceClient
	accountID   string
}

var _ interfaces.MarketDataProvider = (*Client)(nil)

func NewClient(client *investgo.Client, accountID string) *Client {
	return &Client{
		operations:  client.NewOperationsServiceClient(),
		instruments: client.NewInstrumentsServiceClient(),
		marketdata:  client.NewMarketDataServiceClient(),
		accountID:   accountID,
	}
}

func (c *Client) FetchOperations(ctx context.Context, from, to time.Time) ([]operations.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.operations.GetOperations(&investgo.GetOperationsRequest{
		AccountId: c.accountID,
		State:     pb.OperationState_OPERATION_STATE_UNSPECIFIED,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, err
	}

	result := make([]operations.Operation, 0, len(resp.GetOperations()))
	for _, item := range resp.GetOperations() {
		op, err := NormalizeOperation(item)
		if err != nil {
			return nil, err
		}
		result = append(result, op)
	}
	return result, nil
}

func (c *Client) SearchInstrument(ctx context.Context, figi string) (*instruments.Instrument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.instruments.InstrumentByFigi(figi)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, interfaces.ErrInstrumentNotFound
		}
		return nil, err
	}
	if resp.GetInstrument() == nil {
		return nil, interfaces.ErrInstrumentNotFound
	}
	instrument := NormalizeInstrument(resp.GetInstrument())
	return &instrument, nil
}

func (c *Client) FetchCandles(ctx context.Context, figi string, interval marketdata.CandleInterval, from, to time.Time) ([]marketdata.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pbInterval, err := toCandleInterval(interval)
	if err != nil {
		return nil, err
	}
	resp, err := c.marketdata.GetCandles(figi, pbInterval, from, to, 0, 0)
	if err != nil {
		return nil, err
	}

	result := make([]marketdata.Candle, 0, len(resp.GetCandles()))
	for _, item := range resp.GetCandles() {
		candle, err := NormalizeCandle(figi, interval, item)
		if err != nil {
			return nil, fmt.Errorf("normalize candle: %w", err)
		}
		result = append(result, candle)
	}
	return result, nil
}
