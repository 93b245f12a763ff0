// Package events publishes order lifecycle events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"whatsapp-order-bot/internal/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// OrderCreatedRoutingKey is the routing key of order created events.
const OrderCreatedRoutingKey = "order.created"

// OrderCreatedEvent is the message body published for every new order.
type OrderCreatedEvent struct {
	EventType  string            `json:"eventType"`
	OrderID    int64             `json:"orderId"`
	From       string            `json:"from"`
	Items      []model.OrderLine `json:"items"`
	TotalPrice float64           `json:"totalPrice"`
	Status     model.OrderStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// NewOrderCreatedEvent builds the event for order.
func NewOrderCreatedEvent(order model.Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		EventType:  OrderCreatedRoutingKey,
		OrderID:    order.ID,
		From:       order.From,
		Items:      order.Items,
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
	}
}

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends order events to a fanout exchange.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  channel
	exchange string
	logger   zerolog.Logger
}

// Dial connects to RabbitMQ and declares a durable fanout exchange.
func Dial(url, exchange string, logger zerolog.Logger) (*Publisher, error) {
	logger = logger.With().Str("component", "order-events").Str("exchange", exchange).Logger()

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"fanout", // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	logger.Info().Msg("connected to RabbitMQ")

	p := newPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}
}

// PublishOrderCreated publishes an order.created event.
func (p *Publisher) PublishOrderCreated(ctx context.Context, order model.Order) error {
	body, err := json.Marshal(NewOrderCreatedEvent(order))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    strconv.FormatInt(order.ID, 10),
		Type:         OrderCreatedRoutingKey,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx, p.exchange, OrderCreatedRoutingKey, false, false, publishing)
	p.mu.Unlock()
	if err != nil {
		p.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to publish order event")
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Debug().
		Int64("order_id", order.ID).
		Int("message_size", len(body)).
		Msg("order event published")

	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
