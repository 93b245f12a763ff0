package repository

import (
	"context"

	"whatsapp-order-bot/internal/model"
)

// OrderRepository defines the interface for the order store.
// Implementations assign strictly increasing ids and never reuse them.
type OrderRepository interface {
	// Append stores a new order for sender with the given lines and returns it
	// with its id, total, status and creation time set.
	Append(ctx context.Context, sender string, lines []model.OrderLine) (*model.Order, error)

	// GetByID retrieves an order by its ID. Returns nil, nil when it does not exist.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// List returns every stored order in id order.
	List(ctx context.Context) ([]model.Order, error)

	// Count returns the number of stored orders.
	Count(ctx context.Context) (int, error)
}
