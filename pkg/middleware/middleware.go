package middleware

import (
	"context"
	"net/http"

	apperrors "holidayplanner/pkg/errors"
	httputil "holidayplanner/pkg/http"
	"holidayplanner/pkg/logger"
)

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain applies mws so that the first one listed is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func reject(w http.ResponseWriter, log *logger.Logger, middleware string, appErr *apperrors.AppError) {
	if err := httputil.WriteError(w, appErr); err != nil {
		log.Error("failed to write error response", "middleware", middleware, "operation", "WriteError", "error", err)
	}
}
