package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holidayplanner/pkg/kafka"
	"holidayplanner/pkg/logger"
)

type fakePublisher struct {
	messages []kafka.Message
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, msg kafka.Message) error {
	p.messages = append(p.messages, msg)
	return p.err
}

func TestKafkaSink_Deliver(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewKafkaSink(pub, "holidays")

	evt := NewHolidayUpdatedEvent(holiday(), "req-9")
	require.NoError(t, sink.Deliver(context.Background(), evt))
	require.Len(t, pub.messages, 1)

	msg := pub.messages[0]
	assert.Equal(t, "h1", msg.Key)
	assert.Equal(t, EventTypeHolidayUpdated, msg.GetEventType())
	assert.Equal(t, "req-9", msg.GetCorrelationID())
	assert.NotEmpty(t, msg.GetEventID())
	assert.Equal(t, "holidays", msg.Headers[kafka.HeaderSource])
	assert.Equal(t, SchemaVersion, msg.Headers[kafka.HeaderSchemaVersion])
	owner, ok := msg.GetHeader(HeaderOwnerID)
	assert.True(t, ok)
	assert.Equal(t, "owner-1", owner)

	var decoded HolidayUpdatedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, evt.Subscribers, decoded.Subscribers)
}

func TestKafkaSink_PropagatesPublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("leader not available")}
	sink := NewKafkaSink(pub, "holidays")

	err := sink.Deliver(context.Background(), NewHolidayUpdatedEvent(holiday(), ""))
	assert.Error(t, err)
}

func TestLogSink_Deliver(t *testing.T) {
	sink := NewLogSink(logger.Discard())
	assert.NoError(t, sink.Deliver(context.Background(), NewHolidayUpdatedEvent(holiday(), "")))
	assert.Equal(t, "log", sink.Name())
}
