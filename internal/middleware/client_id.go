package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// ClientCookie names the cookie that identifies a browser across requests.
const ClientCookie = "helpline_client"

// clientYear is the cookie lifetime in seconds.
const clientYear = 365 * 24 * 60 * 60

type clientIDKey struct{}

// NewClientID ensures every request carries a client id. An existing cookie
// holding a valid UUID is reused; otherwise a new id is minted and set,
// marked Secure when the request arrived over HTTPS (directly or via a proxy).
// Favorites and preferences are namespaced by this id.
func NewClientID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(ClientCookie); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   clientYear,
					HttpOnly: true,
					Secure:   r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), id)))
		})
	}
}

// WithClientID returns a copy of ctx carrying id.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, id)
}

// ClientIDFromContext returns the client id placed by NewClientID, or "".
func ClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey{}).(string)
	return id
}
