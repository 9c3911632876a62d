// Package service contains the client-side business rules of the helpline
// directory: the favorites store, the dark-mode preference, and validation in
// front of the remote services. Services depend on interfaces (repo.StateRepo,
// Remote), not implementations.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pkordes/helpline-directory/internal/domain"
	"github.com/pkordes/helpline-directory/internal/repo"
)

// FavoritesKey is the state key holding the JSON sequence of favorite entries.
const FavoritesKey = "helpline_favorites"

// FavoriteService is the local favorites store: a persisted mapping from
// helpline id to a snapshot of the helpline, one collection per client.
type FavoriteService struct {
	state repo.StateRepo
	log   *slog.Logger
}

// NewFavoriteService constructs a FavoriteService backed by state.
func NewFavoriteService(state repo.StateRepo, log *slog.Logger) *FavoriteService {
	return &FavoriteService{state: state, log: log}
}

// All returns the client's favorites in stored order. A missing or malformed
// value yields an empty slice, never an error: the store fails open.
// Entries with a repeated id are dropped, keeping the first.
func (s *FavoriteService) All(ctx context.Context, client string) ([]domain.FavoriteEntry, error) {
	raw, ok, err := s.state.Get(ctx, clientKey(client, FavoritesKey))
	if err != nil {
		return nil, fmt.Errorf("service.FavoriteService.All: %w", err)
	}
	if !ok {
		return []domain.FavoriteEntry{}, nil
	}

	var entries []domain.FavoriteEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.WarnContext(ctx, "ignoring malformed favorites", "client", client, "error", err)
		return []domain.FavoriteEntry{}, nil
	}

	seen := make(map[int]bool, len(entries))
	out := make([]domain.FavoriteEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out, nil
}

// Set returns the client's favorites indexed by id.
func (s *FavoriteService) Set(ctx context.Context, client string) (domain.FavoriteSet, error) {
	entries, err := s.All(ctx, client)
	if err != nil {
		return nil, err
	}
	return domain.NewFavoriteSet(entries), nil
}

// Contains reports whether id is among the client's favorites.
func (s *FavoriteService) Contains(ctx context.Context, client string, id int) (bool, error) {
	set, err := s.Set(ctx, client)
	if err != nil {
		return false, err
	}
	return set.Contains(id), nil
}

// Toggle removes the entry for id when present; otherwise it appends record
// with its ID forced to id. The whole collection is written back in one Set.
// added reports which branch ran.
func (s *FavoriteService) Toggle(ctx context.Context, client string, id int, record domain.Helpline) (added bool, err error) {
	entries, err := s.All(ctx, client)
	if err != nil {
		return false, fmt.Errorf("service.FavoriteService.Toggle: %w", err)
	}

	next := make([]domain.FavoriteEntry, 0, len(entries)+1)
	for _, e := range entries {
		if e.ID == id {
			continue
		}
		next = append(next, e)
	}
	if len(next) == len(entries) {
		record.ID = id
		next = append(next, record)
		added = true
	}

	b, err := json.Marshal(next)
	if err != nil {
		return false, fmt.Errorf("service.FavoriteService.Toggle: encode: %w", err)
	}
	if err := s.state.Set(ctx, clientKey(client, FavoritesKey), string(b)); err != nil {
		return false, fmt.Errorf("service.FavoriteService.Toggle: %w", err)
	}
	return added, nil
}

// clientKey namespaces a state key by client id. An empty client uses the
// bare key, which is what a single-user deployment sees.
func clientKey(client, key string) string {
	if client == "" {
		return key
	}
	return client + ":" + key
}
