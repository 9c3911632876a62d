package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/helpline-directory/internal/middleware"
)

// drainHandler reads the whole body the way a form parser would and maps a
// read failure to 413.
var drainHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if _, err := io.ReadAll(r.Body); err != nil {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	w.WriteHeader(http.StatusOK)
})

func TestMaxBodySizeHandler_WithinLimit(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(100)(drainHandler)

	req := httptest.NewRequest(http.MethodPost, "/helplines", strings.NewReader(strings.Repeat("x", 50)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMaxBodySizeHandler_DeclaredLengthOverLimit(t *testing.T) {
	called := false
	h := middleware.NewMaxBodySizeHandler(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/helplines", strings.NewReader(strings.Repeat("x", 200)))
	req.ContentLength = 200
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, called)
}

func TestMaxBodySizeHandler_StreamedBodyOverLimit(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(100)(drainHandler)

	req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(strings.Repeat("x", 200)))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
