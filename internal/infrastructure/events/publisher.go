package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"sheworks/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, key string, msg Envelope) error
	Close() error
}

type rmqPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// NewAMQPPublisher dials the broker and declares a durable topic exchange.
func NewAMQPPublisher(url, exchange string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &rmqPublisher{
		conn:     conn,
		exchange: exchange,
	}, nil
}

func (p *rmqPublisher) Publish(ctx context.Context, key string, msg Envelope) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	correlationID := msg.Meta.CorrelationID
	if correlationID == "" {
		correlationID = msg.Meta.ID
	}

	err = ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     msg.Meta.ID,
		CorrelationId: correlationID,
		Type:          msg.Meta.Type,
		Timestamp:     msg.Meta.Time,
		Body:          body,
	})
	if err == nil {
		logger.Debug("Published %s to %s", key, p.exchange)
	}
	return err
}

func (p *rmqPublisher) Close() error {
	return p.conn.Close()
}

// FallbackPublisher drops events when no broker is configured.
type FallbackPublisher struct{}

func NewFallback() Publisher {
	return &FallbackPublisher{}
}

func (p *FallbackPublisher) Publish(ctx context.Context, key string, msg Envelope) error {
	logger.Debug("No broker configured, skipped publish of %s", key)
	return nil
}

func (p *FallbackPublisher) Close() error {
	return nil
}
