package handler

import (
	"net/http"

	"github.com/pkordes/helpline-directory/internal/app"
	"github.com/pkordes/helpline-directory/internal/domain"
)

// FilterHelplines handles GET /helplines?city=&category=.
func (s *Server) FilterHelplines(w http.ResponseWriter, r *http.Request) {
	city, err := queryString(r, "city")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	category, err := queryString(r, "category")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	s.dispatch(w, r, app.FilterRequested{City: city, Category: category})
}

// ResetFilter handles POST /helplines/reset.
func (s *Server) ResetFilter(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, app.FilterReset{})
}

// AddHelpline handles POST /helplines with a JSON or form body.
func (s *Server) AddHelpline(w http.ResponseWriter, r *http.Request) {
	var h domain.NewHelpline
	err := decodeBody(r, map[string]any{
		"name":     &h.Name,
		"city":     &h.City,
		"location": &h.Location,
		"contact":  &h.Contact,
		"category": &h.Category,
	})
	if err != nil {
		writeBodyError(w, err)
		return
	}
	s.dispatch(w, r, app.HelplineSubmitted{Helpline: h})
}
