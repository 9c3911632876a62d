// Package main is the entry point for the helpline directory web client.
// It wires dependencies together and starts the server; no business logic
// belongs here.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/pkordes/helpline-directory/internal/app"
	"github.com/pkordes/helpline-directory/internal/config"
	"github.com/pkordes/helpline-directory/internal/handler"
	"github.com/pkordes/helpline-directory/internal/middleware"
	"github.com/pkordes/helpline-directory/internal/remote"
	"github.com/pkordes/helpline-directory/internal/repo"
	"github.com/pkordes/helpline-directory/internal/service"
	"github.com/pkordes/helpline-directory/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Local state ------------------------------------------------------
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	state, closeState, err := repo.Open(startCtx, cfg.StateOptions())
	cancelStart()
	if err != nil {
		slog.Error("failed to open state backend", "driver", cfg.StateDriver, "error", err)
		os.Exit(1)
	}
	defer closeState()
	slog.Info("state backend ready", "driver", cfg.StateDriver)

	// --- Services ---------------------------------------------------------
	client := remote.NewClient(cfg.APIBaseURL, cfg.RemoteTimeout)
	sync := app.New(
		service.NewDirectoryService(client),
		service.NewFavoriteService(state, logger),
		service.NewPreferenceService(state),
		logger,
		app.Options{
			HelplineStatusDelay: cfg.HelplineStatusDelay,
			ReviewStatusDelay:   cfg.ReviewStatusDelay,
			RatingConcurrency:   cfg.RatingFetchConcurrency,
			DirectoryURL:        client.BaseURL(),
		},
	)

	sessions := app.NewSessions()
	sweeper, err := app.StartSweeper(sessions, cfg.SessionIdleTTL, logger)
	if err != nil {
		slog.Error("failed to start session sweeper", "error", err)
		os.Exit(1)
	}

	// --- Router -----------------------------------------------------------
	// Order: RequestID → RealIP → ClientID → Logger → Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewClientID())
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	handler.NewServer(sync, sessions, logger, spec.OpenAPI).Routes(r)

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for a page load that fetches every rating.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RemoteTimeout + 20*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "directory", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	<-sweeper.Stop().Done()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		closeState()
		os.Exit(1)
	}
	slog.Info("server stopped")
}
