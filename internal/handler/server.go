// Package handler serves the helpline directory web client over HTTP.
// Each route resolves the caller's session from the client-id cookie, turns
// the request into an app.Intent and answers with the re-rendered regions.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/helpline-directory/internal/app"
	"github.com/pkordes/helpline-directory/internal/domain"
	"github.com/pkordes/helpline-directory/internal/middleware"
)

// Dispatcher is the view synchronizer as seen by the handlers. Defining it
// here lets tests drive the routes without a directory service.
type Dispatcher interface {
	Dispatch(ctx context.Context, sess *app.Session, in app.Intent) (app.Update, error)
	Page(ctx context.Context, sess *app.Session) (string, error)
	View(ctx context.Context, sess *app.Session) app.Update
	Updates(sess *app.Session) app.Update
	Favorites(ctx context.Context, sess *app.Session) ([]domain.FavoriteEntry, error)
}

// SessionStore resolves a client id to its session.
type SessionStore interface {
	Get(id string) *app.Session
}

// Server holds the dependencies shared by every handler.
type Server struct {
	sync     Dispatcher
	sessions SessionStore
	log      *slog.Logger
	openapi  []byte
}

// NewServer constructs the Server. openapi is served verbatim at /openapi.yaml.
func NewServer(sync Dispatcher, sessions SessionStore, log *slog.Logger, openapi []byte) *Server {
	return &Server{sync: sync, sessions: sessions, log: log, openapi: openapi}
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/", s.GetPage)
	r.Get("/view", s.GetView)
	r.Get("/updates", s.GetUpdates)
	r.Post("/dark-mode/toggle", s.ToggleDarkMode)

	r.Get("/helplines", s.FilterHelplines)
	r.Post("/helplines", s.AddHelpline)
	r.Post("/helplines/reset", s.ResetFilter)

	r.Post("/favorites/{id}/toggle", s.ToggleFavorite)
	r.Get("/favorites/export", s.ExportFavorites)

	r.Post("/reviews", s.SubmitReview)
	r.Get("/reviews/{id}", s.OpenReviews)
	r.Delete("/reviews/current", s.CloseReviews)
	r.Post("/reviews/current/rating", s.RateReview)
}

// Handler returns a router serving only the Server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

func (s *Server) session(r *http.Request) *app.Session {
	return s.sessions.Get(middleware.ClientIDFromContext(r.Context()))
}

// dispatch runs in for the caller's session and writes the update.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, in app.Intent) {
	u, err := s.sync.Dispatch(r.Context(), s.session(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the status is already on the wire.
	json.NewEncoder(w).Encode(v)
}
