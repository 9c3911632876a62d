package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SweepSchedule is the cron spec of the idle-session sweep.
const SweepSchedule = "@every 5m"

// StartSweeper periodically drops sessions idle for longer than idle.
// The caller stops the returned cron when shutting down.
func StartSweeper(sessions *Sessions, idle time.Duration, log *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(SweepSchedule, func() {
		if n := sessions.Sweep(idle); n > 0 {
			log.Info("swept idle sessions", "removed", n, "remaining", sessions.Len())
		}
	}); err != nil {
		return nil, fmt.Errorf("app.StartSweeper: %w", err)
	}
	c.Start()
	return c, nil
}
