// Package db provides PostgreSQL database access for users, generated
// resumes, activity logs and global settings.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the shared pgx connection pool. All query methods hang off it.
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool from a DATABASE_URL and pings it once
// so a bad URL fails at startup instead of on the first request.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close releases the pool. Safe on a nil-pool DB.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}
