package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkordes/helpline-directory/internal/repo"
)

// DarkModeKey is the state key holding the dark-mode flag ("true"/"false").
const DarkModeKey = "darkMode"

// PreferenceService persists per-client display preferences.
type PreferenceService struct {
	state repo.StateRepo
}

// NewPreferenceService constructs a PreferenceService backed by state.
func NewPreferenceService(state repo.StateRepo) *PreferenceService {
	return &PreferenceService{state: state}
}

// DarkMode reports whether the client chose dark mode. Only the exact
// value "true" enables it.
func (s *PreferenceService) DarkMode(ctx context.Context, client string) (bool, error) {
	v, _, err := s.state.Get(ctx, clientKey(client, DarkModeKey))
	if err != nil {
		return false, fmt.Errorf("service.PreferenceService.DarkMode: %w", err)
	}
	return v == "true", nil
}

// ToggleDarkMode flips the flag, stores it, and returns the new value.
func (s *PreferenceService) ToggleDarkMode(ctx context.Context, client string) (bool, error) {
	on, err := s.DarkMode(ctx, client)
	if err != nil {
		return false, fmt.Errorf("service.PreferenceService.ToggleDarkMode: %w", err)
	}
	on = !on
	if err := s.state.Set(ctx, clientKey(client, DarkModeKey), strconv.FormatBool(on)); err != nil {
		return false, fmt.Errorf("service.PreferenceService.ToggleDarkMode: %w", err)
	}
	return on, nil
}
