// Package testutil holds helpers for the integration tests of the state
// backends. Each helper skips its test when the backing service is not
// configured, so `go test ./...` passes on a bare machine.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
)

// NewPool connects to TEST_DATABASE_URL and closes the pool when t ends.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := postgresDSN(t)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB is NewPool for database/sql callers such as goose.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := postgresDSN(t)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// NewRedis connects to TEST_REDIS_URL (e.g. redis://localhost:6379/15).
// The database is shared between tests, so callers use unique keys.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set; skipping integration test")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("testutil.NewRedis: %v", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		t.Fatalf("testutil.NewRedis: ping: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func postgresDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	return dsn
}
