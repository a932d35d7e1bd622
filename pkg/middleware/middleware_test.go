package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holidayplanner/pkg/auth"
	apperrors "holidayplanner/pkg/errors"
	"holidayplanner/pkg/logger"
)

const testSecret = "middleware-test-secret-0123456789"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Code
}

func signedToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler, mark("outer"), mark("middle"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "middle", "inner"}, order)
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperrors.CodeInternal, errorCode(t, rec))
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRequestLogging_RequestID(t *testing.T) {
	var seen string
	h := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "trace-123", seen)
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.Discard())(okHandler)

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		want        int
	}{
		{"json post", http.MethodPost, `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"text post", http.MethodPost, `{}`, "text/plain", http.StatusUnsupportedMediaType},
		{"missing type on put", http.MethodPut, `{}`, "", http.StatusUnsupportedMediaType},
		{"bodiless post", http.MethodPost, "", "", http.StatusOK},
		{"get ignores type", http.MethodGet, "", "text/plain", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/holidays", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	h := MaxRequestSize(8, logger.Discard())(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"far too long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute, nil, logger.Discard())
	defer limiter.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("actor:a"))
	assert.True(t, limiter.Allow("actor:a"))
	assert.False(t, limiter.Allow("actor:a"))
	assert.True(t, limiter.Allow("actor:b"), "buckets are per key")
	assert.True(t, limiter.Allow(""), "empty keys are never limited")

	now = now.Add(time.Minute)
	assert.True(t, limiter.Allow("actor:a"), "window slides")
}

func TestRateLimit_PerActor(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, ActorKey, logger.Discard())
	defer limiter.Stop()
	h := RateLimit(limiter)(okHandler)

	send := func(actorID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithActor(req.Context(), auth.Actor{ID: actorID}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("u1").Code)
	limited := send("u1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, send("u2").Code)
}

func TestActorKey_FallsBackToAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "addr:10.0.0.7", ActorKey(req))
}

func TestIdempotency_ReplaysPerActor(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	var calls atomic.Int32
	h := Idempotency(store, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte{byte('0' + n)})
	}))

	send := func(actorID, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/holidays", nil)
		req.Header.Set(DefaultIdempotencyHeader, key)
		req = req.WithContext(auth.WithActor(req.Context(), auth.Actor{ID: actorID}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := send("u1", "k1")
	replay := send("u1", "k1")
	assert.Equal(t, "1", first.Body.String())
	assert.Equal(t, "1", replay.Body.String())
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get(ReplayedHeader))

	other := send("u2", "k1")
	assert.Equal(t, "2", other.Body.String())
	assert.EqualValues(t, 2, calls.Load())
}

func TestIdempotency_SkipsFailuresAndReads(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	var calls atomic.Int32
	h := Idempotency(store, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(DefaultIdempotencyHeader, "k")
		h.ServeHTTP(httptest.NewRecorder(), req)

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(DefaultIdempotencyHeader, "k")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.EqualValues(t, 4, calls.Load())
}

func TestAuthenticate(t *testing.T) {
	verifier, err := auth.NewVerifier(testSecret)
	require.NoError(t, err)

	var got auth.Actor
	h := Authenticate(verifier, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.ActorFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authorized, no token")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authorized, token failed")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-7"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-7", got.ID)
	assert.Equal(t, auth.RoleUser, got.Role)
}

func TestRequestTimeout(t *testing.T) {
	h := RequestTimeout(20*time.Millisecond, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, apperrors.CodeTimeout, errorCode(t, rec))
}

func TestRequestTimeout_HandlerWritesPastDeadline(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})
	h := RequestTimeout(5*time.Millisecond, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(finished)
		for i := 0; ; i++ {
			select {
			case <-release:
				_, err := w.Write([]byte(`{"late":true}`))
				assert.ErrorIs(t, err, http.ErrHandlerTimeout)
				return
			default:
				w.Header().Set("X-Attempt", strconv.Itoa(i))
			}
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/holidays/id/1", nil))
	close(release)
	<-finished

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, apperrors.CodeTimeout, errorCode(t, rec))
	assert.Empty(t, rec.Header().Get("X-Attempt"))
}

func TestRequestTimeout_CopiesHandlerHeaders(t *testing.T) {
	h := RequestTimeout(time.Second, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Holiday-ID", "abc")
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/holidays", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "abc", rec.Header().Get("X-Holiday-ID"))
}

func TestRequestTimeout_FlushesHeadersWithoutBody(t *testing.T) {
	h := RequestTimeout(time.Second, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Echo", "1")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Request-Echo"))
}

func TestRequestTimeout_FastHandler(t *testing.T) {
	h := RequestTimeout(time.Second, logger.Discard())(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSHandler(t *testing.T) {
	h := NewCORSHandler([]string{"http://localhost:3000"})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/holidays", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/holidays", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	req.Header.Set("Access-Control-Request-Headers", "authorization")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.True(t, rec.Code == http.StatusNoContent || rec.Code == http.StatusOK,
		"expected 2xx for preflight, got %d", rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/holidays", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
