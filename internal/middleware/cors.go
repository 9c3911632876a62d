// Package middleware holds the HTTP middleware of the helpline directory web client.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler applies CORS headers for allowedOrigins (full origins,
// no trailing slash). Credentials are allowed so the client-id cookie
// travels with cross-origin intent requests.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler
}
