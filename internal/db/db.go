package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Timeout del arranque: si la DB no responde en este tiempo, la app no levanta.
const connectTimeout = 5 * time.Second

type poolPinger interface {
	Ping(ctx context.Context) error
	Close()
}

var (
	parseConfig = pgxpool.ParseConfig
	newPool     = pgxpool.NewWithConfig
	pingPool    = func(ctx context.Context, pool poolPinger) error {
		return pool.Ping(ctx)
	}
	closePool = func(pool poolPinger) {
		pool.Close()
	}
)

// NewPool crea el pool de conexiones a PostgreSQL que comparten todos los handlers.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := parseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := newPool(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	// La app no arranca "a medias": sin ping no hay pool.
	if err := pingPool(ctx, pool); err != nil {
		closePool(pool)
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
