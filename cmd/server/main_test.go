package main

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type consumerMock struct {
	err error
}

func (m *consumerMock) Run(context.Context) error {
	return m.err
}

func TestRunConsumerSwallowsBrokerFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetOutput(io.Discard)

	err := runConsumer(context.Background(), &consumerMock{err: errors.New("connect to rabbitmq: dial tcp: connection refused")}, logger)
	assert.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Contains(t, entry.Data[logrus.ErrorKey].(error).Error(), "connection refused")
}

func TestRunConsumerCleanStop(t *testing.T) {
	logger, hook := test.NewNullLogger()

	assert.NoError(t, runConsumer(context.Background(), &consumerMock{}, logger))
	assert.Empty(t, hook.AllEntries())
}
