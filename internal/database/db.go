package database

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the global connection pool.
var DB *pgxpool.Pool

// Connect reads connection parameters from the environment and connects.
func Connect() {
	cfg := NewDBConfigFromEnv()
	if !cfg.Valid() {
		log.Fatalf("DB config incomplete: DB_USER/DB_HOST/DB_PORT/DB_NAME must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.TargetDSN())
	if err != nil {
		log.Fatalf("failed to create pgx pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	DB = pool
	log.Println("✅ connected to postgres")
}
