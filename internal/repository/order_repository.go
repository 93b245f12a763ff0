package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"whatsapp-order-bot/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
// Ids come from a BIGSERIAL sequence: they always increase, but an insert that
// rolls back still consumes its value, so the ids of stored orders can have
// gaps. The memory store never skips an id.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository. Ids are
// increasing but not gap-free.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Append inserts the order and its lines in a single transaction.
func (r *orderRepository) Append(ctx context.Context, sender string, lines []model.OrderLine) (order *model.Order, err error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("order must contain at least one line")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	items := make([]model.OrderLine, len(lines))
	copy(items, lines)

	order = &model.Order{
		From:       sender,
		Items:      items,
		TotalPrice: model.SumLines(items),
		Status:     model.StatusReceived,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	query := `
		INSERT INTO orders (sender, total_price, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err = tx.QueryRow(ctx, query, order.From, order.TotalPrice, string(order.Status), order.CreatedAt).Scan(&order.ID); err != nil {
		r.logger.Error().Err(err).Str("sender", sender).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = r.createLines(ctx, tx, order.ID, items); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Int("line_count", len(items)).
		Msg("order created successfully")

	return order, nil
}

// createLines inserts order lines within the provided transaction.
func (r *orderRepository) createLines(ctx context.Context, tx pgx.Tx, orderID int64, lines []model.OrderLine) error {
	query := `
		INSERT INTO order_lines (order_id, position, item_id, name, price, quantity, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for i, line := range lines {
		batch.Queue(query, orderID, i, line.ItemID, line.Name, line.Price, line.Quantity, line.Total)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(lines); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_id", orderID).
				Int("item_id", lines[i].ItemID).
				Msg("failed to create order line")
			return fmt.Errorf("failed to create order line: %w", err)
		}
	}

	return nil
}

// GetByID retrieves an order by its ID along with its lines.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `
		SELECT id, sender, total_price, status, created_at
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	lines, err := r.linesFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	order.Items = lines[id]

	return order, nil
}

// List returns every order with its lines, oldest first.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	query := `
		SELECT id, sender, total_price, status, created_at
		FROM orders
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	var ids []int64
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(ids) == 0 {
		return orders, nil
	}

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = lines[orders[i].ID]
	}

	return orders, nil
}

// Count returns the number of stored orders.
func (r *orderRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// linesFor loads lines for the given orders keyed by order id.
func (r *orderRepository) linesFor(ctx context.Context, ids []int64) (map[int64][]model.OrderLine, error) {
	query := `
		SELECT order_id, item_id, name, price, quantity, total
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order lines")
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[int64][]model.OrderLine, len(ids))
	for rows.Next() {
		var orderID int64
		var line model.OrderLine
		if err := rows.Scan(&orderID, &line.ItemID, &line.Name, &line.Price, &line.Quantity, &line.Total); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines[orderID] = append(lines[orderID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return lines, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	var status string
	if err := row.Scan(&order.ID, &order.From, &order.TotalPrice, &status, &order.CreatedAt); err != nil {
		return nil, err
	}
	order.Status = model.OrderStatus(status)
	order.CreatedAt = order.CreatedAt.UTC()
	return &order, nil
}
