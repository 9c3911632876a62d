package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_GetCreatesOnceAndTouches(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewSessions()
	r.now = func() time.Time { return now }

	a := r.Get("c1")
	now = now.Add(time.Minute)
	b := r.Get("c1")

	assert.Same(t, a, b)
	assert.Equal(t, now, b.lastSeen)
	assert.Equal(t, 1, r.Len())
}

func TestSessions_SweepRemovesIdleAndStopsFollowUps(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewSessions()
	r.now = func() time.Time { return now }

	idle := r.Get("idle")
	var stopped bool
	idle.pending[1] = func() bool { stopped = true; return true }

	now = now.Add(20 * time.Minute)
	r.Get("active")
	now = now.Add(15 * time.Minute)

	removed := r.Sweep(30 * time.Minute)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, r.Len())
	assert.True(t, stopped)
	require.True(t, idle.closed)
	assert.Empty(t, idle.pending)
}

func TestSessions_SweepNothingIdle(t *testing.T) {
	r := NewSessions()
	r.Get("c1")

	assert.Zero(t, r.Sweep(time.Hour))
	assert.Equal(t, 1, r.Len())
}
