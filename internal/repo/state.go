// Package repo contains the local state backends for the helpline directory client.
// A backend is a flat string key-value store, the server-side stand-in for the
// browser's persistent storage. Each backend has its own file; no business
// logic lives here, only storage access and error mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StateRepo defines the persistence operations for local client state.
// The service layer depends on this interface, not on a concrete backend.
type StateRepo interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written; err is reserved for backend failures.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value in one write.
	Set(ctx context.Context, key, value string) error
}

// pgStateRepo is the Postgres implementation of StateRepo.
type pgStateRepo struct {
	db db
}

// NewPGStateRepo constructs a StateRepo backed by the client_state table.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPGStateRepo(db db) StateRepo {
	return &pgStateRepo{db: db}
}

// Get reads a single key from client_state.
func (r *pgStateRepo) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `
		SELECT value
		FROM client_state
		WHERE key = @key`

	var value string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("repo.StateRepo.Get: %w", err)
	}
	return value, true, nil
}

// Set upserts a key in client_state.
func (r *pgStateRepo) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO client_state (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE
		SET value      = EXCLUDED.value,
		    updated_at = now()`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": value}); err != nil {
		return fmt.Errorf("repo.StateRepo.Set: %w", err)
	}
	return nil
}
