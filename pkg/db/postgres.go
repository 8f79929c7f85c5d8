// Package db owns the bounded PostgreSQL connection pool. A Pool is
// constructed explicitly and injected where needed; tests that need an
// isolated pool build their own instead of sharing a process-wide one.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnavailable marks acquisition failures: pool exhausted or backing
// store unreachable. The pool never retries on its own; retry policy
// belongs to the caller.
var ErrUnavailable = errors.New("database unavailable")

// Config bounds the pool.
type Config struct {
	URL               string
	MinConns          int32
	MaxConns          int32
	HealthCheckPeriod time.Duration
}

// Pool hands out connection-scoped sessions over a bounded set of
// PostgreSQL connections. Close it exactly once at shutdown.
type Pool struct {
	pool *pgxpool.Pool
}

// Connect creates a pool with pre-ping semantics: a connection that went
// stale since last use is validated before being handed out; pgx discards
// failures and dials a replacement lazily. Connections are established
// on demand, so Connect succeeds even while the store is unreachable.
func Connect(ctx context.Context, cfg Config) (*Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.HealthCheckPeriod = cfg.HealthCheckPeriod
	if pc.HealthCheckPeriod == 0 {
		pc.HealthCheckPeriod = 30 * time.Second
	}
	pc.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		return conn.Ping(ctx) == nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: pool}, nil
}

// WithConn runs fn with a connection scoped to the call. The connection
// is released on every exit path, panics and cancellation included.
func (p *Pool) WithConn(ctx context.Context, fn func(ctx context.Context, conn *pgxpool.Conn) error) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer conn.Release()
	return fn(ctx, conn)
}

// Ping performs a trivial round-trip against the store.
func (p *Pool) Ping(ctx context.Context) error {
	return p.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		var one int
		return conn.QueryRow(ctx, "SELECT 1").Scan(&one)
	})
}

// Stat exposes the underlying pool counters.
func (p *Pool) Stat() *pgxpool.Stat { return p.pool.Stat() }

// Close drains the pool and closes every connection. Call exactly once
// at process shutdown.
func (p *Pool) Close() { p.pool.Close() }
