package broker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"investhistory/internal/application/service/ingest"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewIngestEvent(t *testing.T) {
	finished := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("MSK", 3*3600))
	event := newIngestEvent(ingest.Report{
		Operations:       10,
		Instruments:      2,
		Candles:          300,
		LinkedOperations: 9,
		LinkedCandles:    300,
		FinishedAt:       finished,
	})

	assert.Equal(t, EventIngestCompleted, event.Event)
	assert.Equal(t, 10, event.Operations)
	assert.Equal(t, int64(9), event.LinkedOperations)
	assert.Equal(t, time.UTC, event.FinishedAt.Location())

	body, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"event":"ingest.completed"`)
	assert.Contains(t, string(body), `"finished_at":"2024-03-01T09:00:00Z"`)
}

func TestConsumerHandleDelivery(t *testing.T) {
	var got []IngestEvent
	consumer, err := NewConsumer("amqp://localhost", "history.ingest", func(_ context.Context, event IngestEvent) error {
		got = append(got, event)
		return nil
	}, quietLogger())
	require.NoError(t, err)

	err = consumer.handleDelivery(context.Background(), []byte(`{"event":"ingest.completed","operations":3}`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Operations)

	assert.Error(t, consumer.handleDelivery(context.Background(), []byte(`{`)))
	assert.Error(t, consumer.handleDelivery(context.Background(), []byte(`{"event":"other"}`)))
	assert.Len(t, got, 1)
}

func TestConsumerHandlerErrorPropagates(t *testing.T) {
	boom := errors.New("redis down")
	consumer, err := NewConsumer("amqp://localhost", "history.ingest", func(context.Context, IngestEvent) error {
		return boom
	}, quietLogger())
	require.NoError(t, err)

	err = consumer.handleDelivery(context.Background(), []byte(`{"event":"ingest.completed"}`))
	assert.ErrorIs(t, err, boom)
}

func TestConstructorsValidateArguments(t *testing.T) {
	_, err := NewConsumer("", "history.ingest", func(context.Context, IngestEvent) error { return nil }, quietLogger())
	assert.Error(t, err)

	_, err = NewConsumer("amqp://localhost", "history.ingest", nil, quietLogger())
	assert.Error(t, err)

	_, err = NewPublisher("", "history.ingest", quietLogger())
	assert.Error(t, err)

	_, err = NewPublisher("amqp://localhost", "", quietLogger())
	assert.Error(t, err)
}
