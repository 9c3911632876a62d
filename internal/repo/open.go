package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pkordes/helpline-directory/migrations"
)

// Supported values for OpenOptions.Driver.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// OpenOptions selects and configures a state backend.
type OpenOptions struct {
	Driver      string
	FilePath    string
	DatabaseURL string
	RedisURL    string
}

// Open constructs the backend named by opts.Driver and verifies it is reachable.
// The returned close function releases any connections and is never nil.
func Open(ctx context.Context, opts OpenOptions) (StateRepo, func(), error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStateRepo(), func() {}, nil

	case DriverFile:
		return NewFileStateRepo(opts.FilePath), func() {}, nil

	case DriverPostgres:
		// New() does not open connections immediately; Ping does.
		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("repo.Open: create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repo.Open: ping postgres: %w", err)
		}
		if err := Migrate(ctx, opts.DatabaseURL); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repo.Open: %w", err)
		}
		return NewPGStateRepo(pool), pool.Close, nil

	case DriverRedis:
		ropts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("repo.Open: parse redis url: %w", err)
		}
		rdb := redis.NewClient(ropts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("repo.Open: ping redis: %w", err)
		}
		return NewRedisStateRepo(rdb), func() { _ = rdb.Close() }, nil
	}

	return nil, nil, fmt.Errorf("repo.Open: unknown state driver %q", opts.Driver)
}

// Migrate applies all pending migrations to the database at dsn.
// goose needs database/sql, so a short-lived *sql.DB is opened for the run.
func Migrate(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("migrate: open: %w", err)
	}
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("migrate: create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: up: %w", err)
	}
	return nil
}
