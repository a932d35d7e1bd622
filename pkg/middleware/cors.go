package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler applies CORS headers for allowedOrigins. Preflights are
// answered here, before authentication runs.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", DefaultIdempotencyHeader, RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader, ReplayedHeader},
		AllowCredentials: true,
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
