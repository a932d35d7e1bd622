package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"holidayplanner/pkg/auth"
	apperrors "holidayplanner/pkg/errors"
	"holidayplanner/pkg/logger"
)

// KeyExtractor names the bucket a request is counted against.
type KeyExtractor func(r *http.Request) string

// ActorKey counts authenticated callers by actor id and everyone else by
// remote address.
func ActorKey(r *http.Request) string {
	if actor, ok := auth.ActorFrom(r.Context()); ok {
		return "actor:" + actor.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}

// RateLimiter is a sliding-window limiter over arbitrary keys.
type RateLimiter struct {
	mu        sync.Mutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor KeyExtractor
	log       *logger.Logger
	stopCh    chan struct{}
	stopOnce  sync.Once
	now       func() time.Time
}

func NewRateLimiter(limit int, window time.Duration, extractor KeyExtractor, log *logger.Logger) *RateLimiter {
	if extractor == nil {
		extractor = ActorKey
	}
	limiter := &RateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
		now:       time.Now,
	}

	go limiter.cleanup()

	return limiter
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, timestamps := range rl.requests {
				if len(timestamps) == 0 || now.Sub(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Allow records a hit for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	timestamps := rl.requests[key]

	valid := timestamps[:0]
	for _, ts := range timestamps {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiter.extractor(r)

			if !limiter.Allow(key) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", RequestIDFrom(r.Context()),
					"key", key,
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
				reject(w, limiter.log, "RateLimit", apperrors.New(
					"RATE_LIMITED",
					fmt.Sprintf("Rate limit exceeded: %d requests per %s", limiter.limit, limiter.window),
					http.StatusTooManyRequests,
				))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
