package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const (
	poolMaxConns        = 10
	poolMaxConnLifetime = time.Hour
	pingTimeout         = 5 * time.Second
)

// NewPostgresPool builds the pool and pings it, so an unreachable database
// fails startup instead of the first request.
func NewPostgresPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, errors.WithMessage(err, "parse postgres URL")
	}
	poolCfg.MaxConns = poolMaxConns
	poolCfg.MaxConnLifetime = poolMaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.WithMessage(err, "create postgres pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.WithMessage(err, "ping postgres")
	}

	return pool, nil
}
