package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// IngestHandler reacts to a finished ingest run.
type IngestHandler func(ctx context.Context, event IngestEvent) error

// Consumer subscribes to the ingest fanout exchange with an exclusive queue
// and passes every ingest.completed event to the handler.
type Consumer struct {
	url      string
	exchange string
	handler  IngestHandler
	logger   *logrus.Entry

	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewConsumer(url, exchange string, handler IngestHandler, logger *logrus.Logger) (*Consumer, error) {
	if url == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if handler == nil {
		return nil, errors.New("ingest handler is required")
	}
	return &Consumer{
		url:      url,
		exchange: exchange,
		handler:  handler,
		logger:   logger.WithField("component", "ingest_consumer"),
	}, nil
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.start()
	if err != nil {
		return err
	}
	defer c.Close()

	c.logger.WithField("exchange", c.exchange).Info("rabbitmq consumer started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			if err := c.handleDelivery(ctx, delivery.Body); err != nil {
				c.logger.WithError(err).Warn("failed to process message")
				_ = delivery.Nack(false, false)
				continue
			}
			if err := delivery.Ack(false); err != nil {
				c.logger.WithError(err).Warn("failed to ack delivery")
			}
		}
	}
}

func (c *Consumer) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Consumer) start() (<-chan amqp.Delivery, error) {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	c.conn = conn

	ch, err := conn.Channel()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	c.channel = ch
	if err := ch.ExchangeDeclare(c.exchange, "fanout", true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", c.exchange, err)
	}
	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queue.Name, "", c.exchange, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("bind queue %s to %s: %w", queue.Name, c.exchange, err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		c.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(queue.Name, "", false, true, false, false, nil)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("start consume: %w", err)
	}
	return deliveries, nil
}

func (c *Consumer) handleDelivery(ctx context.Context, body []byte) error {
	var event IngestEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if event.Event != EventIngestCompleted {
		return fmt.Errorf("unsupported event: %q", event.Event)
	}
	c.logger.WithFields(logrus.Fields{
		"operations":  event.Operations,
		"instruments": event.Instruments,
		"candles":     event.Candles,
	}).Info("ingest completed")
	return c.handler(ctx, event)
}
