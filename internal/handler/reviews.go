package handler

import (
	"fmt"
	"net/http"

	"github.com/pkordes/helpline-directory/internal/app"
)

// Star widget modes accepted by POST /reviews/current/rating.
const (
	RatingModeSelect = "select"
	RatingModeHover  = "hover"
	RatingModeLeave  = "leave"
)

// OpenReviews handles GET /reviews/{id}: opens the review modal for id.
func (s *Server) OpenReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	s.dispatch(w, r, app.ReviewModalOpened{ID: id})
}

// CloseReviews handles DELETE /reviews/current.
func (s *Server) CloseReviews(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, app.ReviewModalClosed{})
}

// RateReview handles POST /reviews/current/rating.
func (s *Server) RateReview(w http.ResponseWriter, r *http.Request) {
	var (
		mode   string
		rating int
	)
	if err := decodeBody(r, map[string]any{"mode": &mode, "rating": &rating}); err != nil {
		writeBodyError(w, err)
		return
	}

	var in app.Intent
	switch mode {
	case RatingModeSelect, "":
		in = app.RatingSelected{Rating: rating}
	case RatingModeHover:
		in = app.RatingHovered{Rating: rating}
	case RatingModeLeave:
		in = app.RatingHoverEnded{}
	default:
		writeJSON(w, http.StatusBadRequest, requestBody(fmt.Sprintf("unknown rating mode %q", mode)))
		return
	}
	s.dispatch(w, r, in)
}

// SubmitReview handles POST /reviews for the helpline whose modal is open.
// A missing rating falls back to the one selected in the star widget.
func (s *Server) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var in app.ReviewSubmitted
	err := decodeBody(r, map[string]any{
		"userName": &in.UserName,
		"rating":   &in.Rating,
		"comment":  &in.Comment,
	})
	if err != nil {
		writeBodyError(w, err)
		return
	}
	s.dispatch(w, r, in)
}
