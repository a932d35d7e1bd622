package notifications

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holidayplanner/pkg/auth"
	"holidayplanner/pkg/kafka"
	"holidayplanner/pkg/logger"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	verifier, err := auth.NewVerifier("hub-test-secret-0123456789")
	require.NoError(t, err)
	hub := NewHub(verifier, logger.Discard())
	t.Cleanup(func() { _ = hub.Close() })
	return hub
}

func buildMessage(t *testing.T, eventType string, value any) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey("h1").
		WithValue(value).
		WithEventType(eventType).
		Build()
	require.NoError(t, err)
	return msg
}

func TestHub_HandleMessage(t *testing.T) {
	hub := newTestHub(t)

	msg := buildMessage(t, EventTypeHolidayUpdated, NewHolidayUpdatedEvent(holiday(), ""))
	assert.NoError(t, hub.HandleMessage(context.Background(), msg))
}

func TestHub_HandleMessage_IgnoresOtherEvents(t *testing.T) {
	hub := newTestHub(t)

	msg := buildMessage(t, "holiday.deleted", map[string]string{"holidayId": "h1"})
	assert.NoError(t, hub.HandleMessage(context.Background(), msg))
}

func TestHub_HandleMessage_BadPayloadIsPermanent(t *testing.T) {
	hub := newTestHub(t)

	msg := buildMessage(t, EventTypeHolidayUpdated, "not an object")
	err := hub.HandleMessage(context.Background(), msg)
	require.Error(t, err)
	assert.False(t, kafka.ShouldRetry(err, 0, 3))

	var kafkaErr *kafka.KafkaError
	require.ErrorAs(t, err, &kafkaErr)
	assert.True(t, kafkaErr.IsPermanent())
}

func TestHub_HandleMessage_ClosedHubIsTransient(t *testing.T) {
	hub := newTestHub(t)
	require.NoError(t, hub.Close())

	evt := NewHolidayUpdatedEvent(holiday(), "req-2")
	err := hub.HandleMessage(context.Background(), buildMessage(t, EventTypeHolidayUpdated, evt))

	var kafkaErr *kafka.KafkaError
	require.ErrorAs(t, err, &kafkaErr)
	assert.True(t, kafkaErr.IsTransient())
	assert.True(t, kafka.ShouldRetry(err, 0, 3))
}

func TestHub_Connect_RequiresToken(t *testing.T) {
	hub := newTestHub(t)
	router := httprouter.New()
	hub.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/notifications?token=garbage", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHub_IsSink(t *testing.T) {
	var sink Sink = newTestHub(t)

	assert.Equal(t, "websocket", sink.Name())
	assert.NoError(t, sink.Deliver(context.Background(), NewHolidayUpdatedEvent(holiday(), "req-1")))
}
