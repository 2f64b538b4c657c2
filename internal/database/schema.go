package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Statements are executed one at a time: pgx's default query mode does not
// accept multi-command strings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id              SERIAL PRIMARY KEY,
		url             VARCHAR(500) NOT NULL,
		apartment_id    INTEGER NOT NULL,
		email           VARCHAR(255) NOT NULL,
		last_price      NUMERIC(18,2) NOT NULL DEFAULT 0,
		last_status     VARCHAR(100) NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_checked_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_subscriptions_apartment_id ON subscriptions (apartment_id)`,
}

// EnsureSchema creates the subscriptions table if it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
