package middleware

import (
	"fmt"
	"net/http"

	apperrors "holidayplanner/pkg/errors"
	"holidayplanner/pkg/logger"
)

// MaxRequestSize rejects declared oversize bodies up front and caps the rest
// with http.MaxBytesReader.
func MaxRequestSize(maxBytes int64, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				log.Warn("Request body too large",
					"request_id", RequestIDFrom(r.Context()),
					"content_length", r.ContentLength,
					"max_bytes", maxBytes,
					"path", r.URL.Path,
				)
				reject(w, log, "MaxRequestSize", apperrors.New(
					apperrors.CodeBadRequest,
					fmt.Sprintf("Request body exceeds %d bytes", maxBytes),
					http.StatusRequestEntityTooLarge,
				))
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
