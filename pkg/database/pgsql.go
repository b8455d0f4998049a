// Package database opens the Postgres pool shared by the back-office store.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions tunes the pool. Zero values fall back to the defaults below.
type PoolOptions struct {
	MaxConns        int32
	ConnectTimeout  time.Duration
	ConnectAttempts int
	RetryDelay      time.Duration
	Logger          *slog.Logger
}

func (o PoolOptions) withDefaults() PoolOptions {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 5 * time.Second
	}
	if o.ConnectAttempts <= 0 {
		o.ConnectAttempts = 1
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 2 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// OpenPool connects to Postgres and pings until the server answers or the
// attempts run out. Tills often boot before the shop's database host does.
func OpenPool(ctx context.Context, databaseURL string, opts PoolOptions) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL cannot be empty")
	}
	opts = opts.withDefaults()

	// Anything the URL leaves out is read from PGHOST, PGUSER and friends.
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	for attempt := 1; ; attempt++ {
		err = pool.Ping(ctx)
		if err == nil {
			break
		}
		if attempt >= opts.ConnectAttempts {
			pool.Close()
			return nil, fmt.Errorf("failed to reach database after %d attempts: %w", attempt, err)
		}
		opts.Logger.Warn("Database not reachable yet",
			slog.Int("attempt", attempt), slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}

	opts.Logger.InfoContext(ctx, "Connected to PostgreSQL", slog.Int("max_conns", int(poolCfg.MaxConns)))
	return pool, nil
}

// ClosePool closes the pool if it was opened.
func ClosePool(pool *pgxpool.Pool, logger *slog.Logger) {
	if pool == nil {
		return
	}
	pool.Close()
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("PostgreSQL connection pool closed")
}
