package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/helpline-directory/internal/app"
	"github.com/pkordes/helpline-directory/internal/domain"
)

func wrapValidation(op, msg string) error {
	return fmt.Errorf("%s: %w", op, fmt.Errorf("%w: %s", domain.ErrValidation, msg))
}

// ---- favorites -------------------------------------------------------------

func TestToggleFavorite_BindsPathID(t *testing.T) {
	var got app.Intent
	rec := serve(newHTTPHandler(recordingDispatcher(&got)), http.MethodPost, "/favorites/17/toggle", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.FavoriteToggled{ID: 17}, got)
}

func TestToggleFavorite_BadID_Returns400(t *testing.T) {
	for _, id := range []string{"abc", "0", "-3"} {
		t.Run(id, func(t *testing.T) {
			rec := serve(newHTTPHandler(&mockDispatcher{}), http.MethodPost, "/favorites/"+id+"/toggle", nil, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func favoritesDispatcher(entries []domain.FavoriteEntry) *mockDispatcher {
	return &mockDispatcher{
		favorites: func(_ context.Context, _ *app.Session) ([]domain.FavoriteEntry, error) {
			return entries, nil
		},
	}
}

func TestExportFavorites_DefaultJSON(t *testing.T) {
	entries := []domain.FavoriteEntry{{ID: 1, Name: "Crisis Line", City: "Springfield", Contact: "555", Category: "Health"}}

	rec := serve(newHTTPHandler(favoritesDispatcher(entries)), http.MethodGet, "/favorites/export", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	var got []domain.FavoriteEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, entries, got)
}

func TestExportFavorites_EmptyJSONIsArray(t *testing.T) {
	rec := serve(newHTTPHandler(favoritesDispatcher(nil)), http.MethodGet, "/favorites/export?format=json", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestExportFavorites_CSV(t *testing.T) {
	entries := []domain.FavoriteEntry{
		{ID: 1, Name: "Crisis Line", City: "Springfield", Location: "12 Main St", Contact: "555", Category: "Health"},
		{ID: 2, Name: "Food, Bank", City: "Shelbyville", Contact: "556", Category: "Food"},
	}

	rec := serve(newHTTPHandler(favoritesDispatcher(entries)), http.MethodGet, "/favorites/export?format=csv", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,city,location,contact,category", lines[0])
	assert.Equal(t, "1,Crisis Line,Springfield,12 Main St,555,Health", lines[1])
	assert.Equal(t, `2,"Food, Bank",Shelbyville,,556,Food`, lines[2])
}

func TestExportFavorites_UnknownFormat_Returns400(t *testing.T) {
	rec := serve(newHTTPHandler(favoritesDispatcher(nil)), http.MethodGet, "/favorites/export?format=xml", nil, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- reviews ---------------------------------------------------------------

func TestOpenReviews_BindsPathID(t *testing.T) {
	var got app.Intent
	rec := serve(newHTTPHandler(recordingDispatcher(&got)), http.MethodGet, "/reviews/5", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.ReviewModalOpened{ID: 5}, got)
}

func TestCloseReviews(t *testing.T) {
	var got app.Intent
	rec := serve(newHTTPHandler(recordingDispatcher(&got)), http.MethodDelete, "/reviews/current", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.ReviewModalClosed{}, got)
}

func TestRateReview_Modes(t *testing.T) {
	cases := []struct {
		body string
		want app.Intent
	}{
		{"mode=select&rating=4", app.RatingSelected{Rating: 4}},
		{"mode=hover&rating=2", app.RatingHovered{Rating: 2}},
		{"mode=leave", app.RatingHoverEnded{}},
	}
	for _, tc := range cases {
		t.Run(tc.body, func(t *testing.T) {
			var got app.Intent
			rec := serve(newHTTPHandler(recordingDispatcher(&got)), http.MethodPost, "/reviews/current/rating",
				strings.NewReader(tc.body), formType)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRateReview_BadInput_Returns400(t *testing.T) {
	for _, body := range []string{"mode=spin&rating=1", "mode=select&rating=many"} {
		t.Run(body, func(t *testing.T) {
			rec := serve(newHTTPHandler(&mockDispatcher{}), http.MethodPost, "/reviews/current/rating",
				strings.NewReader(body), formType)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSubmitReview_FormBody(t *testing.T) {
	var got app.Intent
	rec := serve(newHTTPHandler(recordingDispatcher(&got)), http.MethodPost, "/reviews",
		strings.NewReader("userName=Bo&comment=kind+staff"), formType)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.ReviewSubmitted{UserName: "Bo", Comment: "kind staff"}, got)
}

func TestSubmitReview_NoSubject_Returns422(t *testing.T) {
	err := fmt.Errorf("%w: %s", domain.ErrValidation, app.NoSubjectText)
	rec := serve(newHTTPHandler(failingDispatcher(err)), http.MethodPost, "/reviews",
		strings.NewReader(`{"rating":3}`), "application/json")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, app.NoSubjectText, decodeError(t, rec).Error.Message)
}
