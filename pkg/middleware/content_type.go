package middleware

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "holidayplanner/pkg/errors"
	"holidayplanner/pkg/logger"
)

const jsonContentType = "application/json"

// ContentTypeValidation requires JSON on write requests that carry a body.
// Bodiless POSTs such as subscribe and clone pass through.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r) {
				contentType := extractContentType(r.Header.Get("Content-Type"))

				if contentType != jsonContentType {
					log.Warn("Invalid Content-Type header",
						"request_id", RequestIDFrom(r.Context()),
						"content_type", contentType,
						"path", r.URL.Path,
						"method", r.Method,
					)
					reject(w, log, "ContentTypeValidation", apperrors.New(
						apperrors.CodeBadRequest,
						fmt.Sprintf("Content-Type must be %s", jsonContentType),
						http.StatusUnsupportedMediaType,
					))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	}
	return false
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}

	parts := strings.Split(header, ";")
	return strings.ToLower(strings.TrimSpace(parts[0]))
}
