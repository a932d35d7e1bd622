package flights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "holidayplanner/pkg/errors"
	"holidayplanner/pkg/logger"
)

type stubProvider struct {
	records []ProviderFlight
	err     error
	got     string
}

func (s *stubProvider) Search(_ context.Context, destination string) ([]ProviderFlight, error) {
	s.got = destination
	return s.records, s.err
}

func serve(t *testing.T, p Provider, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := httprouter.New()
	NewFlightHandler(p, logger.Discard()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestFlightHandler_Search(t *testing.T) {
	provider := &stubProvider{records: []ProviderFlight{
		record("AF1", "AF", "Air France", "2026-07-01T10:00:00Z", 120.456, "eur"),
		record("BAD", "BA", "British Airways", "soon", 1, "GBP"),
	}}

	rec := serve(t, provider, "/api/v1/flights?destination=%20%20Paris%20")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Paris", provider.got)

	var body SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Flights, 1)
	assert.Equal(t, "AF1", body.Flights[0].ID)
	assert.Equal(t, 120.46, body.Flights[0].Price)
	assert.Equal(t, "EUR", body.Flights[0].Currency)
}

func TestFlightHandler_Search_EmptyResult(t *testing.T) {
	rec := serve(t, &stubProvider{}, "/api/v1/flights?destination=Oslo")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"flights":[]}`, rec.Body.String())
}

func TestFlightHandler_Search_MissingDestination(t *testing.T) {
	for _, target := range []string{"/api/v1/flights", "/api/v1/flights?destination=%20%20"} {
		provider := &stubProvider{}
		rec := serve(t, provider, target)

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Empty(t, provider.got, "provider must not be called")

		var body apperrors.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, apperrors.CodeInvalidInput, body.Code)
	}
}

func TestFlightHandler_Search_ProviderFailure(t *testing.T) {
	rec := serve(t, &stubProvider{err: errors.New("dial tcp: refused")}, "/api/v1/flights?destination=Rome")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeUnavailable, body.Code)
}
