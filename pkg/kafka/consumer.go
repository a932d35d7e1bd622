package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kafka_config "holidayplanner/pkg/kafka/config"
	"holidayplanner/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader     messageReader
	dlqWriter  messageWriter
	topic      string
	groupID    string
	maxRetries int
	handler    MessageHandler
	middleware []ConsumerMiddleware
	log        *logger.Logger
	closed     bool
	mu         sync.RWMutex
	wg         sync.WaitGroup
}

type ConsumerMiddleware func(ctx context.Context, msg Message, next MessageHandler) error

func NewConsumer(cfg *kafka_config.Config, topic, groupID, dlqTopic string, handler MessageHandler, log *logger.Logger) (*Consumer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if groupID == "" {
		return nil, fmt.Errorf("group ID cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}

	c := &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           cfg.Brokers,
			Topic:             topic,
			GroupID:           groupID,
			MinBytes:          cfg.ConsumerMinBytes,
			MaxBytes:          cfg.ConsumerMaxBytes,
			MaxWait:           cfg.ConsumerMaxWait,
			CommitInterval:    cfg.ConsumerCommitInterval,
			HeartbeatInterval: cfg.ConsumerHeartbeatInterval,
			SessionTimeout:    cfg.ConsumerSessionTimeout,
			RebalanceTimeout:  cfg.ConsumerRebalanceTimeout,
			StartOffset:       cfg.ConsumerStartOffset,
			Dialer: &kafka.Dialer{
				ClientID:  cfg.ClientID,
				Timeout:   cfg.DialTimeout,
				DualStack: true,
			},
			Logger:            kafka.LoggerFunc(func(string, ...any) {}),
			ErrorLogger:       errorLogger(log, topic),
		}),
		topic:      topic,
		groupID:    groupID,
		maxRetries: cfg.ConsumerMaxRetries,
		handler:    handler,
		log:        log,
	}

	if dlqTopic != "" {
		c.dlqWriter = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        dlqTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			MaxAttempts:  3,
			Transport:    transport(cfg),
			Logger:       kafka.LoggerFunc(func(string, ...any) {}),
			ErrorLogger:  errorLogger(log, dlqTopic),
		}
	}

	return c, nil
}

func (c *Consumer) Use(middleware ConsumerMiddleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.middleware = append(c.middleware, middleware)
}

// Start blocks consuming messages until ctx is cancelled. Offsets are
// committed after the handler (or the DLQ) has taken the message.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrConsumerClosed
	}
	c.mu.RUnlock()

	c.wg.Add(1)
	defer c.wg.Done()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		kafkaMsg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.log.Error("kafka consumer failed fetching message", "topic", c.topic, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		msg := fromKafkaMessage(kafkaMsg)
		if err := c.processMessage(ctx, msg); err != nil {
			c.log.Warn("kafka consumer gave up on message",
				"topic", c.topic,
				"offset", msg.Offset,
				"event_id", msg.GetEventID(),
				"error", err,
			)
		}

		if err := c.reader.CommitMessages(ctx, kafkaMsg); err != nil {
			c.log.Error("kafka consumer failed committing offset", "topic", c.topic, "offset", kafkaMsg.Offset, "error", err)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg Message) error {
	c.mu.RLock()
	handler := c.handler
	for i := len(c.middleware) - 1; i >= 0; i-- {
		mw := c.middleware[i]
		next := handler
		handler = func(ctx context.Context, m Message) error {
			return mw(ctx, m, next)
		}
	}
	c.mu.RUnlock()

	for {
		err := handler(ctx, msg)
		if err == nil {
			return nil
		}

		retries := msg.GetRetryCount()
		if ShouldRetry(err, retries, c.maxRetries) {
			msg.IncrementRetryCount()
			c.log.Warn("retrying kafka message",
				"attempt", retries+1,
				"max_retries", c.maxRetries,
				"event_id", msg.GetEventID(),
				"error", err,
			)
			continue
		}

		if c.dlqWriter != nil {
			if dlqErr := c.sendToDLQ(ctx, msg, err); dlqErr != nil {
				c.log.Error("failed to send message to DLQ", "event_id", msg.GetEventID(), "error", dlqErr, "original_error", err)
			} else {
				c.log.Warn("message sent to DLQ", "event_id", msg.GetEventID(), "retries", retries, "error", err)
			}
		}
		return err
	}
}

func (c *Consumer) sendToDLQ(ctx context.Context, msg Message, originalErr error) error {
	msg.Headers[HeaderOriginalTopic] = c.topic
	msg.Headers["dlq-error"] = originalErr.Error()
	msg.Headers["dlq-timestamp"] = time.Now().UTC().Format(time.RFC3339)
	msg.Headers["dlq-consumer-group"] = c.groupID

	return c.dlqWriter.WriteMessages(ctx, toKafkaMessage(msg, time.Now()))
}

func fromKafkaMessage(km kafka.Message) Message {
	msg := Message{
		Key:       string(km.Key),
		Value:     km.Value,
		Headers:   make(map[string]string, len(km.Headers)),
		Topic:     km.Topic,
		Partition: km.Partition,
		Offset:    km.Offset,
		Timestamp: km.Time,
	}
	for _, h := range km.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

// Close waits for an in-flight Start loop to return before releasing the reader.
func (c *Consumer) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()

	var err error
	if c.reader != nil {
		err = c.reader.Close()
	}
	if c.dlqWriter != nil {
		if dlqErr := c.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}
