package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"investhistory/internal/application/service/ingest"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher announces finished ingest runs on a fanout exchange.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *logrus.Entry
	mu       sync.Mutex
}

func NewPublisher(url, exchange string, logger *logrus.Logger) (*Publisher, error) {
	if url == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if exchange == "" {
		return nil, errors.New("exchange name cannot be empty")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		logger:   logger.WithField("component", "ingest_publisher"),
	}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func (p *Publisher) PublishIngestCompleted(ctx context.Context, report ingest.Report) error {
	body, err := json.Marshal(newIngestEvent(report))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", EventIngestCompleted, err)
	}
	p.logger.WithField("exchange", p.exchange).Info("ingest event published")
	return nil
}
