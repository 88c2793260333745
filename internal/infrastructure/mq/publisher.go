// internal/infrastructure/mq/publisher.go
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
)

// Publisher emits order lifecycle events to a topic exchange. Downstream
// consumers (fulfilment, analytics) subscribe with their own queues.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  *config.Config
	logger  *logrus.Logger
}

// OrderEvent is the wire payload for order lifecycle events
type OrderEvent struct {
	EventType  string    `json:"event_type"`
	OrderID    uint      `json:"order_id"`
	UserID     uint      `json:"user_id"`
	Status     string    `json:"status"`
	Total      int64     `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewPublisher connects to RabbitMQ and declares the order exchange
func NewPublisher(cfg *config.Config, logger *logrus.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.RabbitMQ.OrderExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:    conn,
		channel: ch,
		config:  cfg,
		logger:  logger,
	}, nil
}

// PublishOrderEvent publishes an order event with the event type as routing
// key. Implements the order package's EventPublisher.
func (p *Publisher) PublishOrderEvent(eventType string, orderID, userID uint, status string, total int64) error {
	event := OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		UserID:     userID,
		Status:     status,
		Total:      total,
		OccurredAt: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		p.config.RabbitMQ.OrderExchange,
		eventType, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"event_type": eventType,
		"order_id":   orderID,
	}).Debug("Published order event")
	return nil
}

// Close closes the channel and connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
