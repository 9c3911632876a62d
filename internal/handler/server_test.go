package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/helpline-directory/internal/app"
	"github.com/pkordes/helpline-directory/internal/domain"
	"github.com/pkordes/helpline-directory/internal/handler"
	"github.com/pkordes/helpline-directory/internal/middleware"
)

// mockDispatcher is a test double for handler.Dispatcher.
// Set only the method fields your test needs.
type mockDispatcher struct {
	dispatch  func(ctx context.Context, sess *app.Session, in app.Intent) (app.Update, error)
	page      func(ctx context.Context, sess *app.Session) (string, error)
	view      func(ctx context.Context, sess *app.Session) app.Update
	updates   func(sess *app.Session) app.Update
	favorites func(ctx context.Context, sess *app.Session) ([]domain.FavoriteEntry, error)
}

func (m *mockDispatcher) Dispatch(ctx context.Context, sess *app.Session, in app.Intent) (app.Update, error) {
	return m.dispatch(ctx, sess, in)
}
func (m *mockDispatcher) Page(ctx context.Context, sess *app.Session) (string, error) {
	return m.page(ctx, sess)
}
func (m *mockDispatcher) View(ctx context.Context, sess *app.Session) app.Update {
	return m.view(ctx, sess)
}
func (m *mockDispatcher) Updates(sess *app.Session) app.Update {
	return m.updates(sess)
}
func (m *mockDispatcher) Favorites(ctx context.Context, sess *app.Session) ([]domain.FavoriteEntry, error) {
	return m.favorites(ctx, sess)
}

// compile-time checks.
var (
	_ handler.Dispatcher   = (*mockDispatcher)(nil)
	_ handler.Dispatcher   = (*app.Synchronizer)(nil)
	_ handler.SessionStore = (*app.Sessions)(nil)
)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHTTPHandler(d handler.Dispatcher) http.Handler {
	srv := handler.NewServer(d, app.NewSessions(), discardLogger(), []byte("openapi: 3.0.3\n"))
	return srv.Handler()
}

// recordingDispatcher captures the intent of each Dispatch and answers with
// a single region.
func recordingDispatcher(got *app.Intent) *mockDispatcher {
	return &mockDispatcher{
		dispatch: func(_ context.Context, _ *app.Session, in app.Intent) (app.Update, error) {
			*got = in
			return app.Update{Regions: map[string]string{"helplinesList": "<p>ok</p>"}}, nil
		},
	}
}

func failingDispatcher(err error) *mockDispatcher {
	return &mockDispatcher{
		dispatch: func(_ context.Context, _ *app.Session, _ app.Intent) (app.Update, error) {
			return app.Update{}, err
		},
	}
}

func serve(h http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

const formType = "application/x-www-form-urlencoded"

// ---- health / openapi ------------------------------------------------------

func TestGetHealth(t *testing.T) {
	rec := serve(newHTTPHandler(&mockDispatcher{}), http.MethodGet, "/healthz", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body handler.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}

func TestGetOpenAPI(t *testing.T) {
	rec := serve(newHTTPHandler(&mockDispatcher{}), http.MethodGet, "/openapi.yaml", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "yaml")
	assert.Equal(t, "openapi: 3.0.3\n", rec.Body.String())
}

// ---- page / view -----------------------------------------------------------

func TestGetPage(t *testing.T) {
	d := &mockDispatcher{
		page: func(_ context.Context, _ *app.Session) (string, error) {
			return "<!DOCTYPE html><html></html>", nil
		},
	}

	rec := serve(newHTTPHandler(d), http.MethodGet, "/", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
}

func TestGetUpdates(t *testing.T) {
	d := &mockDispatcher{
		updates: func(_ *app.Session) app.Update {
			return app.Update{Regions: map[string]string{"formMessage": ""}}
		},
	}

	rec := serve(newHTTPHandler(d), http.MethodGet, "/updates", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var u app.Update
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&u))
	assert.Contains(t, u.Regions, "formMessage")
}

func TestSession_ResolvedFromClientID(t *testing.T) {
	var seen string
	d := &mockDispatcher{
		dispatch: func(_ context.Context, sess *app.Session, _ app.Intent) (app.Update, error) {
			seen = sess.ID
			return app.Update{}, nil
		},
	}
	srv := handler.NewServer(d, app.NewSessions(), discardLogger(), nil)

	req := httptest.NewRequest(http.MethodPost, "/dark-mode/toggle", nil)
	req = req.WithContext(middleware.WithClientID(req.Context(), "client-7"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "client-7", seen)
}

// ---- helplines -------------------------------------------------------------

func TestFilterHelplines_BindsQuery(t *testing.T) {
	var got app.Intent
	rec := serve(newHTTPHandler(recordingDispatcher(&got)), http.MethodGet, "/helplines?city=New%20York&category=Health", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.FilterRequested{City: "New York", Category: "Health"}, got)

	var u app.Update
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&u))
	assert.Equal(t, "<p>ok</p>", u.Regions["helplinesList"])
}

func TestFilterHelplines_NoQueryIsEmptyFilter(t *testing.T) {
	var got app.Intent
	rec := serve(newHTTPHandler(recordingDispatcher(&got)), http.MethodGet, "/helplines", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.FilterRequested{}, got)
}

func TestResetFilter(t *testing.T) {
	var got app.Intent
	rec := serve(newHTTPHandler(recordingDispatcher(&got)), http.MethodPost, "/helplines/reset", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.FilterReset{}, got)
}

func TestAddHelpline_FormBody(t *testing.T) {
	var got app.Intent
	body := strings.NewReader("name=Crisis+Line&city=Springfield&category=Health&contact=555-0100")

	rec := serve(newHTTPHandler(recordingDispatcher(&got)), http.MethodPost, "/helplines", body, formType)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.HelplineSubmitted{Helpline: domain.NewHelpline{
		Name: "Crisis Line", City: "Springfield", Category: "Health", Contact: "555-0100",
	}}, got)
}

func TestAddHelpline_JSONBody(t *testing.T) {
	var got app.Intent
	body := strings.NewReader(`{"name":"Food Bank","city":"Shelbyville","location":"1 Elm St","contact":"555","category":"Food"}`)

	rec := serve(newHTTPHandler(recordingDispatcher(&got)), http.MethodPost, "/helplines", body, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1 Elm St", got.(app.HelplineSubmitted).Helpline.Location)
}

func TestAddHelpline_MalformedJSON_Returns400(t *testing.T) {
	rec := serve(newHTTPHandler(&mockDispatcher{}), http.MethodPost, "/helplines", strings.NewReader("{"), "application/json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decodeError(t, rec).Error.Code)
}

func TestAddHelpline_BodyTooLarge_Returns413(t *testing.T) {
	h := newHTTPHandler(&mockDispatcher{})
	req := httptest.NewRequest(http.MethodPost, "/helplines", strings.NewReader("name="+strings.Repeat("x", 64)))
	req.Header.Set("Content-Type", formType)
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 8)
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

// ---- error mapping ---------------------------------------------------------

func TestDispatchError_Validation_Returns422WithMessage(t *testing.T) {
	err := wrapValidation("service.DirectoryService.AddHelpline", "name is required")
	rec := serve(newHTTPHandler(failingDispatcher(err)), http.MethodPost, "/helplines", strings.NewReader(""), formType)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, "name is required", body.Error.Message)
}

func TestDispatchError_NotFound_Returns404(t *testing.T) {
	rec := serve(newHTTPHandler(failingDispatcher(domain.ErrNotFound)), http.MethodPost, "/favorites/42/toggle", nil, "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error.Code)
}

func TestDispatchError_Other_Returns500(t *testing.T) {
	rec := serve(newHTTPHandler(failingDispatcher(io.ErrUnexpectedEOF)), http.MethodPost, "/dark-mode/toggle", nil, "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec).Error.Code)
}
