package notifications

import (
	"context"
	"fmt"

	"holidayplanner/pkg/kafka"
	"holidayplanner/pkg/logger"
)

// Sink delivers one event somewhere. Errors are logged by the dispatcher
// and never retried there.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, evt HolidayUpdatedEvent) error
}

type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, evt HolidayUpdatedEvent) error {
	s.log.Info(fmt.Sprintf("Notifying %d subscribers about update to holiday: %s", len(evt.Subscribers), evt.Name),
		"holiday_id", evt.HolidayID,
		"subscribers", evt.Subscribers,
		"correlation_id", evt.CorrelationID,
	)
	return nil
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaSink struct {
	publisher Publisher
	source    string
}

func NewKafkaSink(publisher Publisher, source string) *KafkaSink {
	return &KafkaSink{publisher: publisher, source: source}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Deliver(ctx context.Context, evt HolidayUpdatedEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(evt.HolidayID).
		WithValue(evt).
		WithEventType(EventTypeHolidayUpdated).
		WithSchemaVersion(SchemaVersion).
		WithCorrelationID(evt.CorrelationID).
		WithSource(s.source).
		WithHeader(HeaderOwnerID, evt.OwnerID).
		Build()
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, msg)
}
