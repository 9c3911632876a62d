package handler

import (
	"net/http"

	"github.com/pkordes/helpline-directory/internal/app"
)

// ToggleFavorite handles POST /favorites/{id}/toggle.
func (s *Server) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	s.dispatch(w, r, app.FavoriteToggled{ID: id})
}
