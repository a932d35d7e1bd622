package middleware

import (
	"errors"
	"net/http"

	"holidayplanner/pkg/auth"
	apperrors "holidayplanner/pkg/errors"
	"holidayplanner/pkg/logger"
)

// Authenticate verifies the bearer token and stores the caller on the
// request context. Requests without a valid token never reach next.
func Authenticate(verifier *auth.Verifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := verifier.FromRequest(r, false)
			if err != nil {
				message := "Not authorized, token failed"
				if errors.Is(err, auth.ErrMissingToken) {
					message = "Not authorized, no token"
				}
				log.Warn("Authentication failed",
					"request_id", RequestIDFrom(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				reject(w, log, "Authenticate", apperrors.Unauthorized(message))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	}
}
