package handler

import (
	"net/http"

	"github.com/pkordes/helpline-directory/internal/app"
)

// GetPage handles GET /. Every page load starts the session afresh.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.sync.Page(r.Context(), s.session(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	//nolint:errcheck
	w.Write([]byte(page))
}

// GetView handles GET /view: every region, rendered from current state.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sync.View(r.Context(), s.session(r)))
}

// GetUpdates handles GET /updates: regions changed by delayed follow-ups
// since the last poll.
func (s *Server) GetUpdates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sync.Updates(s.session(r)))
}

// ToggleDarkMode handles POST /dark-mode/toggle.
func (s *Server) ToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, app.DarkModeToggled{})
}
