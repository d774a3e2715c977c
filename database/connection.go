package database

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool     *pgxpool.Pool
	poolOnce sync.Once
	poolErr  error
)

// GetPool returns the process-wide connection pool, created on first use
// from DATABASE_URL. The pool is pinged once so a bad URL surfaces here
// rather than on the first migration statement.
func GetPool() (*pgxpool.Pool, error) {
	poolOnce.Do(func() {
		url := os.Getenv("DATABASE_URL")
		if url == "" {
			poolErr = fmt.Errorf("DATABASE_URL not set (in .env or environment)")
			return
		}

		ctx := context.Background()
		pool, poolErr = pgxpool.New(ctx, url)
		if poolErr != nil {
			poolErr = fmt.Errorf("creating connection pool: %v", poolErr)
			return
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			pool = nil
			poolErr = fmt.Errorf("pinging database: %v", err)
		}
	})
	return pool, poolErr
}

// ClosePool releases the pool on shutdown.
func ClosePool() {
	if pool != nil {
		pool.Close()
	}
}
