package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"whatsapp-order-bot/internal/model"

	"github.com/rs/zerolog"
)

// memoryRepository keeps orders in an append-only slice for the life of the process.
type memoryRepository struct {
	mu     sync.RWMutex
	orders []model.Order
	now    func() time.Time
	logger zerolog.Logger
}

// NewMemoryRepository creates an empty in-memory order store.
func NewMemoryRepository(logger zerolog.Logger) OrderRepository {
	return &memoryRepository{
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With().Str("repository", "memory").Logger(),
	}
}

// Append stores a new order. The id is the store length plus one, which is
// unique because nothing is ever removed.
func (r *memoryRepository) Append(ctx context.Context, sender string, lines []model.OrderLine) (*model.Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("order must contain at least one line")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]model.OrderLine, len(lines))
	copy(items, lines)

	r.mu.Lock()
	order := model.Order{
		ID:         int64(len(r.orders) + 1),
		From:       sender,
		Items:      items,
		TotalPrice: model.SumLines(items),
		Status:     model.StatusReceived,
		CreatedAt:  r.now(),
	}
	r.orders = append(r.orders, order)
	r.mu.Unlock()

	r.logger.Debug().
		Int64("order_id", order.ID).
		Int("line_count", len(items)).
		Msg("order stored")

	return cloneOrder(order), nil
}

// GetByID retrieves an order by its ID.
func (r *memoryRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 1 || id > int64(len(r.orders)) {
		return nil, nil
	}
	return cloneOrder(r.orders[id-1]), nil
}

// List returns a copy of every stored order.
func (r *memoryRepository) List(ctx context.Context) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]model.Order, len(r.orders))
	for i, order := range r.orders {
		orders[i] = *cloneOrder(order)
	}
	return orders, nil
}

// Count returns the number of stored orders.
func (r *memoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders), nil
}

func cloneOrder(order model.Order) *model.Order {
	items := make([]model.OrderLine, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return &order
}
