package service

import (
	"context"

	"whatsapp-order-bot/internal/broadcast"
	"whatsapp-order-bot/internal/model"
)

// MenuService defines read access to the restaurant catalogue.
type MenuService interface {
	// GetRestaurant returns the restaurant and its full menu.
	GetRestaurant(ctx context.Context) *model.Restaurant

	// GetMenuItem retrieves a single menu item by ID.
	GetMenuItem(ctx context.Context, id int) (*model.MenuItem, error)
}

// OrderService defines order placement and retrieval.
type OrderService interface {
	// PlaceOrder turns an inbound message into a stored, broadcast order.
	// It returns model.ErrTranscriptionFailed or model.ErrNoItemsDetected
	// (possibly wrapped) when no order can be placed.
	PlaceOrder(ctx context.Context, msg model.InboundMessage) (*model.Order, error)

	// GetByID retrieves an order by its ID. Returns model.ErrOrderNotFound when it does not exist.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// List returns all orders, oldest first.
	List(ctx context.Context) ([]model.Order, error)
}

// Broadcaster fans a new order out to live subscribers.
type Broadcaster interface {
	Publish(order model.Order) []broadcast.Delivery
}

// EventPublisher forwards order events to other systems.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order model.Order) error
}

// Extractor matches message text against the menu.
type Extractor interface {
	Extract(text string, menu []model.MenuItem) []model.OrderLine
}
