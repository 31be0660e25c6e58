package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/rosasurfer/fx-history-tools/internal/config"
	"github.com/rosasurfer/fx-history-tools/internal/domain/interfaces"
)

// Publisher announces completed (symbol, day) syntheses on a RabbitMQ fanout
// exchange. Downstream collaborators (compressor, notifier) consume these
// instead of polling the history tree.
type Publisher struct {
	cfg     config.RabbitMQConfig
	logger  *logrus.Entry
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to RabbitMQ and declares the fanout exchange.
func NewPublisher(cfg config.RabbitMQConfig, logger *logrus.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(cfg.Exchange, "fanout", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}
	return &Publisher{
		cfg:     cfg,
		logger:  logger.WithField("component", "broker"),
		conn:    conn,
		channel: channel,
	}, nil
}

// Publish sends one synthesis event as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, event interfaces.SynthesisEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode synthesis event: %w", err)
	}
	err = p.channel.PublishWithContext(ctx, p.cfg.Exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish synthesis event: %w", err)
	}
	p.logger.WithFields(logrus.Fields{
		"symbol": event.Symbol,
		"day":    event.Day,
	}).Debug("synthesis event published")
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, interfaces.SynthesisEvent) error { return nil }
func (NopPublisher) Close() error                                             { return nil }
