// Package broadcast fans newly placed orders out to live subscribers.
package broadcast

import (
	"sync"

	"whatsapp-order-bot/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBufferSize is the number of undelivered orders a subscriber may hold.
const DefaultBufferSize = 16

// Outcome is the result of offering an order to one subscriber.
type Outcome string

const (
	// Delivered means the order was queued for the subscriber.
	Delivered Outcome = "delivered"
	// Dropped means the subscriber's buffer was full and the order was skipped for it.
	Dropped Outcome = "dropped"
)

// Delivery reports what happened to a published order for one subscriber.
type Delivery struct {
	SubscriberID uuid.UUID
	Outcome      Outcome
}

// Subscription is a registered live-order listener.
type Subscription struct {
	ID uuid.UUID
	C  <-chan model.Order

	ch chan model.Order
}

// Hub keeps the set of open subscriptions. The zero value is not usable; use NewHub.
type Hub struct {
	mu          sync.RWMutex
	subscribers []*Subscription
	bufferSize  int
	logger      zerolog.Logger
}

// NewHub creates a hub whose subscriptions buffer up to bufferSize orders.
func NewHub(bufferSize int, logger zerolog.Logger) *Hub {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		bufferSize: bufferSize,
		logger:     logger.With().Str("component", "broadcast-hub").Logger(),
	}
}

// Subscribe registers a new subscription. It only receives orders published
// after this call returns.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan model.Order, h.bufferSize)
	sub := &Subscription{
		ID: uuid.New(),
		C:  ch,
		ch: ch,
	}

	h.mu.Lock()
	h.subscribers = append(h.subscribers, sub)
	count := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Info().
		Str("subscriber_id", sub.ID.String()).
		Int("subscribers", count).
		Msg("subscriber joined")

	return sub
}

// Unsubscribe removes sub. It is safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	removed := false
	for i, s := range h.subscribers {
		if s == sub {
			h.subscribers = append(h.subscribers[:i:i], h.subscribers[i+1:]...)
			removed = true
			break
		}
	}
	count := len(h.subscribers)
	h.mu.Unlock()

	if removed {
		h.logger.Info().
			Str("subscriber_id", sub.ID.String()).
			Int("subscribers", count).
			Msg("subscriber left")
	}
}

// Publish offers order to every subscriber in subscription order without
// blocking. A subscriber whose buffer is full misses this order; the others
// are unaffected.
func (h *Hub) Publish(order model.Order) []Delivery {
	h.mu.RLock()
	defer h.mu.RUnlock()

	deliveries := make([]Delivery, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		d := Delivery{SubscriberID: sub.ID, Outcome: Delivered}
		select {
		case sub.ch <- order:
		default:
			d.Outcome = Dropped
			h.logger.Warn().
				Str("subscriber_id", sub.ID.String()).
				Int64("order_id", order.ID).
				Msg("subscriber buffer full, order dropped")
		}
		deliveries = append(deliveries, d)
	}

	h.logger.Debug().
		Int64("order_id", order.ID).
		Int("subscribers", len(deliveries)).
		Msg("order published")

	return deliveries
}

// Len returns the number of open subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
