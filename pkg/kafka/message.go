package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Message represents a Kafka message with metadata
type Message struct {
	Key       string            // Partition key (holiday id)
	Value     []byte            // JSON-encoded payload
	Headers   map[string]string // Message headers
	Topic     string            // Set by Kafka on consume
	Partition int               // Set by Kafka on consume
	Offset    int64             // Set by Kafka on consume
	Timestamp time.Time
}

const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderCorrelationID = "correlation-id"
	HeaderSchemaVersion = "schema-version"
	HeaderSource        = "source"
	HeaderTimestamp     = "timestamp"
	HeaderRetryCount    = "retry-count"
	HeaderOriginalTopic = "original-topic"
)

// MessageBuilder provides a fluent interface for building messages
type MessageBuilder struct {
	msg Message
	err error
}

func NewMessage() *MessageBuilder {
	return &MessageBuilder{
		msg: Message{
			Headers:   make(map[string]string),
			Timestamp: time.Now().UTC(),
		},
	}
}

func (mb *MessageBuilder) WithKey(key string) *MessageBuilder {
	mb.msg.Key = key
	return mb
}

// WithValue JSON-encodes value. An encoding failure is reported by Build.
func (mb *MessageBuilder) WithValue(value any) *MessageBuilder {
	data, err := json.Marshal(value)
	if err != nil {
		mb.err = NewPermanentError("failed to encode message value", err)
		mb.msg.Value = nil
		return mb
	}
	mb.msg.Value = data
	return mb
}

func (mb *MessageBuilder) WithHeader(key, value string) *MessageBuilder {
	mb.msg.Headers[key] = value
	return mb
}

func (mb *MessageBuilder) WithEventType(eventType string) *MessageBuilder {
	mb.msg.Headers[HeaderEventType] = eventType
	return mb
}

func (mb *MessageBuilder) WithCorrelationID(correlationID string) *MessageBuilder {
	if correlationID != "" {
		mb.msg.Headers[HeaderCorrelationID] = correlationID
	}
	return mb
}

func (mb *MessageBuilder) WithSchemaVersion(version string) *MessageBuilder {
	mb.msg.Headers[HeaderSchemaVersion] = version
	return mb
}

func (mb *MessageBuilder) WithSource(source string) *MessageBuilder {
	mb.msg.Headers[HeaderSource] = source
	return mb
}

// Build returns the constructed message, assigning an event id and timestamp
// header when they were not set explicitly.
func (mb *MessageBuilder) Build() (Message, error) {
	if mb.err != nil {
		return Message{}, mb.err
	}
	if mb.msg.Headers[HeaderEventID] == "" {
		mb.msg.Headers[HeaderEventID] = uuid.NewString()
	}
	if mb.msg.Headers[HeaderTimestamp] == "" {
		mb.msg.Headers[HeaderTimestamp] = mb.msg.Timestamp.Format(time.RFC3339)
	}
	return mb.msg, nil
}

// MessageHandler processes a consumed message. Returning an error triggers
// the retry and DLQ policy of the consumer.
type MessageHandler func(ctx context.Context, msg Message) error

func (m *Message) DecodeValue(v any) error {
	if err := json.Unmarshal(m.Value, v); err != nil {
		return NewPermanentError("deserialization failed", err)
	}
	return nil
}

func (m *Message) GetHeader(key string) (string, bool) {
	value, exists := m.Headers[key]
	return value, exists
}

func (m *Message) GetEventID() string {
	return m.Headers[HeaderEventID]
}

func (m *Message) GetCorrelationID() string {
	return m.Headers[HeaderCorrelationID]
}

func (m *Message) GetEventType() string {
	return m.Headers[HeaderEventType]
}

func (m *Message) GetRetryCount() int {
	count, err := strconv.Atoi(m.Headers[HeaderRetryCount])
	if err != nil {
		return 0
	}
	return count
}

func (m *Message) IncrementRetryCount() {
	if m.Headers == nil {
		m.Headers = make(map[string]string)
	}
	m.Headers[HeaderRetryCount] = strconv.Itoa(m.GetRetryCount() + 1)
}
