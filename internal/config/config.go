// Package config loads and validates configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/helpline-directory/internal/repo"
)

// Config holds all configuration values for the web client.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// APIBaseURL is the remote helpline directory and review service.
	APIBaseURL string
	// RemoteTimeout bounds each remote call.
	RemoteTimeout time.Duration

	// StateDriver selects where favorites and preferences live:
	// memory, file, postgres or redis.
	StateDriver string
	StateFile   string
	// DatabaseURL is required when StateDriver is postgres.
	DatabaseURL string
	// RedisURL is required when StateDriver is redis.
	RedisURL string

	HelplineStatusDelay time.Duration
	ReviewStatusDelay   time.Duration

	// SessionIdleTTL is how long an unused session is kept in memory.
	SessionIdleTTL time.Duration

	RatingFetchConcurrency int
	MaxBodyBytes           int64
}

// Load reads configuration from environment variables and returns a Config.
// Every missing or malformed variable is reported in a single error.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8080")),
		APIBaseURL:  strings.TrimRight(getEnv("API_BASE_URL", "https://backend-wtkt.onrender.com"), "/"),
		StateDriver: getEnv("STATE_DRIVER", repo.DriverFile),
		StateFile:   getEnv("STATE_FILE", "helplines-state.json"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	var problems []string
	duration := func(key, fallback string) time.Duration {
		d, err := time.ParseDuration(getEnv(key, fallback))
		if err != nil || d <= 0 {
			problems = append(problems, key+" must be a positive duration")
		}
		return d
	}
	positive := func(key, fallback string) int64 {
		n, err := strconv.ParseInt(getEnv(key, fallback), 10, 64)
		if err != nil || n <= 0 {
			problems = append(problems, key+" must be a positive integer")
		}
		return n
	}

	cfg.RemoteTimeout = duration("REMOTE_TIMEOUT", "10s")
	cfg.HelplineStatusDelay = duration("HELPLINE_STATUS_DELAY", "2s")
	cfg.ReviewStatusDelay = duration("REVIEW_STATUS_DELAY", "1.5s")
	cfg.SessionIdleTTL = duration("SESSION_IDLE_TTL", "30m")
	cfg.RatingFetchConcurrency = int(positive("RATING_FETCH_CONCURRENCY", "4"))
	cfg.MaxBodyBytes = positive("MAX_BODY_BYTES", "1048576")

	switch cfg.StateDriver {
	case repo.DriverMemory, repo.DriverFile:
	case repo.DriverPostgres:
		if cfg.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when STATE_DRIVER=postgres")
		}
	case repo.DriverRedis:
		if cfg.RedisURL == "" {
			problems = append(problems, "REDIS_URL is required when STATE_DRIVER=redis")
		}
	default:
		problems = append(problems, fmt.Sprintf("STATE_DRIVER %q is not one of memory, file, postgres, redis", cfg.StateDriver))
	}

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// StateOptions returns the repo.Open options for the configured backend.
func (c Config) StateOptions() repo.OpenOptions {
	return repo.OpenOptions{
		Driver:      c.StateDriver,
		FilePath:    c.StateFile,
		DatabaseURL: c.DatabaseURL,
		RedisURL:    c.RedisURL,
	}
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
