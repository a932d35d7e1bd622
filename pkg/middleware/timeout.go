package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "holidayplanner/pkg/errors"
	"holidayplanner/pkg/logger"
)

// timeoutWriter buffers headers in its own map and drops writes once the
// deadline has fired. The handler goroutine never touches the underlying
// writer's header map outside mu.
type timeoutWriter struct {
	w          http.ResponseWriter
	h          http.Header
	mu         sync.Mutex
	timedOut   bool
	written    bool
	statusCode int
}

func newTimeoutWriter(w http.ResponseWriter) *timeoutWriter {
	return &timeoutWriter{w: w, h: make(http.Header)}
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.h
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.written {
		return
	}
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.written {
		tw.writeHeaderLocked(http.StatusOK)
	}
	return tw.w.Write(b)
}

func (tw *timeoutWriter) writeHeaderLocked(code int) {
	dst := tw.w.Header()
	for k, vv := range tw.h {
		dst[k] = append([]string(nil), vv...)
	}
	tw.statusCode = code
	tw.written = true
	tw.w.WriteHeader(code)
}

func RequestTimeout(timeout time.Duration, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)
			tw := newTimeoutWriter(w)

			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				if !tw.written {
					tw.writeHeaderLocked(http.StatusOK)
				}
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				if tw.written {
					return
				}
				tw.written = true

				log.Warn("Request timed out",
					"request_id", RequestIDFrom(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"timeout", timeout.String(),
				)
				reject(w, log, "RequestTimeout", apperrors.Timeout("Request timeout"))
			}
		})
	}
}
