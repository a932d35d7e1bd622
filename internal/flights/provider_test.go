package flights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedMock() *MockProvider {
	return &MockProvider{now: func() time.Time {
		return time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC)
	}}
}

func TestMockProvider_Deterministic(t *testing.T) {
	p := fixedMock()

	first, err := p.Search(context.Background(), "Paris")
	require.NoError(t, err)
	second, err := p.Search(context.Background(), "paris")
	require.NoError(t, err)

	require.Len(t, first, len(mockCarriers))
	assert.Equal(t, first, second)

	flights, skipped := AdaptFlights(first)
	assert.Zero(t, skipped)
	for _, f := range flights {
		assert.Equal(t, "EUR", f.Currency)
		assert.True(t, f.DepartureTime.After(time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC)))
		assert.Greater(t, f.Price, 0.0)
	}
}

func TestMockProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fixedMock().Search(ctx, "Rome")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDestinationCode(t *testing.T) {
	assert.Equal(t, "PAR", destinationCode("Paris"))
	assert.Equal(t, "NEW", destinationCode("new york"))
	assert.Equal(t, "OXX", destinationCode("O"))
	assert.Equal(t, "XXX", destinationCode("123"))
}

func TestHTTPProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights", r.URL.Path)
		assert.Equal(t, "Lisbon", r.URL.Query().Get("destination"))

		var rec ProviderFlight
		rec.FlightID = "TP1"
		rec.Carrier.Name = "TAP"
		rec.Departure.At = "2026-07-01T10:00:00Z"
		rec.Fare.Amount = 75
		rec.Fare.Currency = "EUR"

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(providerResponse{Data: []ProviderFlight{rec}})
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, time.Second)
	records, err := p.Search(context.Background(), "Lisbon")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "TP1", records[0].FlightID)
}

func TestHTTPProvider_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewHTTPProvider(server.URL, time.Second).Search(context.Background(), "Lisbon")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPProvider_BadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewHTTPProvider(server.URL, time.Second).Search(context.Background(), "Lisbon")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
