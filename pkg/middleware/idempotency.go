package middleware

import (
	"bytes"
	"net/http"
	"strings"
	"sync"
	"time"

	"holidayplanner/pkg/auth"
)

const (
	DefaultIdempotencyHeader = "Idempotency-Key"
	ReplayedHeader           = "Idempotent-Replayed"
)

type IdempotencyStore interface {
	Get(key string) (*CachedResponse, bool)
	Set(key string, response *CachedResponse)
	Stop()
}

type CachedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	CreatedAt  time.Time
}

type InMemoryIdempotencyStore struct {
	mu       sync.RWMutex
	store    map[string]*CachedResponse
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		store:  make(map[string]*CachedResponse),
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}

	go store.cleanup()

	return store
}

func (s *InMemoryIdempotencyStore) Get(key string) (*CachedResponse, bool) {
	s.mu.RLock()
	response, exists := s.store[key]
	s.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Since(response.CreatedAt) > s.ttl {
		s.mu.Lock()
		delete(s.store, key)
		s.mu.Unlock()
		return nil, false
	}

	return response, true
}

func (s *InMemoryIdempotencyStore) Set(key string, response *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	response.CreatedAt = time.Now()
	s.store[key] = response
}

func (s *InMemoryIdempotencyStore) cleanup() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for key, response := range s.store {
				if time.Since(response.CreatedAt) > s.ttl {
					delete(s.store, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

type responseCapture struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (rc *responseCapture) WriteHeader(statusCode int) {
	rc.statusCode = statusCode
	rc.ResponseWriter.WriteHeader(statusCode)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the first successful response to a write request that
// repeats an Idempotency-Key. Keys are scoped to the caller and the route, so
// one user cannot replay another's response.
func Idempotency(store IdempotencyStore, headerName string) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = DefaultIdempotencyHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scopedIdempotencyKey(r, headerName)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if cached, found := store.Get(key); found {
				replayCachedResponse(w, cached)
				return
			}

			capture := &responseCapture{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           &bytes.Buffer{},
			}
			next.ServeHTTP(capture, r)

			if capture.statusCode >= 200 && capture.statusCode < 300 {
				store.Set(key, &CachedResponse{
					StatusCode: capture.statusCode,
					Headers:    w.Header().Clone(),
					Body:       capture.body.Bytes(),
				})
			}
		})
	}
}

func scopedIdempotencyKey(r *http.Request, headerName string) string {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return ""
	}

	key := strings.TrimSpace(r.Header.Get(headerName))
	if key == "" {
		return ""
	}

	caller := "anonymous"
	if actor, ok := auth.ActorFrom(r.Context()); ok {
		caller = actor.ID
	}
	return strings.Join([]string{caller, r.Method, r.URL.Path, key}, "|")
}

func replayCachedResponse(w http.ResponseWriter, cached *CachedResponse) {
	for key, values := range cached.Headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set(ReplayedHeader, "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}
