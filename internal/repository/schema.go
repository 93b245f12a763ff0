package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for the postgres order store.
const Schema = `
	CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		sender TEXT NOT NULL,
		total_price NUMERIC(12, 2) NOT NULL CHECK (total_price >= 0),
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS order_lines (
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		item_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		total NUMERIC(12, 2) NOT NULL,
		PRIMARY KEY (order_id, position)
	);
`

// EnsureSchema creates the order tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create order schema: %w", err)
	}
	return nil
}
