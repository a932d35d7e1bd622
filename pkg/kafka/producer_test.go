package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holidayplanner/pkg/logger"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func headerValue(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func newTestProducer(w, dlq *fakeWriter) *Producer {
	p := &Producer{writer: w, topic: "holiday-events", log: logger.Discard()}
	if dlq != nil {
		p.dlqWriter = dlq
	}
	return p
}

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("65a1f0c2e4b0a1b2c3d4e5f6").
		WithValue(map[string]string{"name": "Lisbon"}).
		WithEventType("holiday.updated").
		Build()
	require.NoError(t, err)
	return msg
}

func TestProducer_PublishWritesMessage(t *testing.T) {
	w := &fakeWriter{}
	p := newTestProducer(w, nil)

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))

	require.Len(t, w.messages, 1)
	assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f6", string(w.messages[0].Key))
	assert.Equal(t, "holiday.updated", headerValue(w.messages[0], HeaderEventType))
	assert.NotEmpty(t, headerValue(w.messages[0], HeaderEventID))
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := newTestProducer(&fakeWriter{}, nil)

	err := p.Publish(context.Background(), Message{Value: []byte("{}")})
	assert.ErrorIs(t, err, ErrEmptyKey)

	err = p.Publish(context.Background(), Message{Key: "k"})
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestProducer_FailedWriteGoesToDLQ(t *testing.T) {
	writeErr := errors.New("leader not available")
	w := &fakeWriter{err: writeErr}
	dlq := &fakeWriter{}
	p := newTestProducer(w, dlq)

	err := p.Publish(context.Background(), buildMessage(t))

	assert.ErrorIs(t, err, writeErr)
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "holiday-events", headerValue(dlq.messages[0], HeaderOriginalTopic))
	assert.Equal(t, writeErr.Error(), headerValue(dlq.messages[0], "dlq-error"))
}

func TestProducer_MiddlewareOrder(t *testing.T) {
	p := newTestProducer(&fakeWriter{}, nil)

	var calls []string
	for _, name := range []string{"first", "second"} {
		name := name
		p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			calls = append(calls, name)
			return next(ctx, msg)
		})
	}

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestProducer_Closed(t *testing.T) {
	w := &fakeWriter{}
	p := newTestProducer(w, nil)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	assert.ErrorIs(t, p.Publish(context.Background(), buildMessage(t)), ErrProducerClosed)
}
