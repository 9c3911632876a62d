package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkordes/helpline-directory/internal/domain"
)

// Export formats accepted by ?format=.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// csvHeaders is the first row of every CSV export.
var csvHeaders = []string{"id", "name", "city", "location", "contact", "category"}

// ExportFavorites handles GET /favorites/export. It returns the caller's
// stored favorite snapshots; ?format=csv selects CSV, JSON is the default.
func (s *Server) ExportFavorites(w http.ResponseWriter, r *http.Request) {
	format, err := queryString(r, "format")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatCSV {
		writeJSON(w, http.StatusBadRequest, requestBody(fmt.Sprintf("unknown format %q", format)))
		return
	}

	entries, err := s.sync.Favorites(r.Context(), s.session(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if format == FormatCSV {
		body := buildCSV(entries)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="favorites.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		//nolint:errcheck
		body.WriteTo(w)
		return
	}
	if entries == nil {
		entries = []domain.FavoriteEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// buildCSV encodes entries one per row under csvHeaders. An absent
// location is an empty cell.
func buildCSV(entries []domain.FavoriteEntry) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer writes never fail.
	w.Write(csvHeaders)
	for _, e := range entries {
		//nolint:errcheck
		w.Write([]string{strconv.Itoa(e.ID), e.Name, e.City, e.Location, e.Contact, e.Category})
	}
	w.Flush()
	return &buf
}
