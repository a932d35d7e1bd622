package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	kafka_config "holidayplanner/pkg/kafka/config"
	"holidayplanner/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer wraps kafka-go writer with a middleware chain and an optional DLQ
type Producer struct {
	writer     messageWriter
	dlqWriter  messageWriter
	topic      string
	middleware []ProducerMiddleware
	log        *logger.Logger
	closed     bool
	mu         sync.RWMutex
}

// ProducerMiddleware allows intercepting publish operations
type ProducerMiddleware func(ctx context.Context, msg Message, next func(ctx context.Context, msg Message) error) error

func NewProducer(cfg *kafka_config.Config, topic string, dlqTopic string, log *logger.Logger) (*Producer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	compression := compressionCodec(cfg.ProducerCompression)

	var requiredAcks kafka.RequiredAcks
	switch cfg.ProducerRequireAcks {
	case 0:
		requiredAcks = kafka.RequireNone
	case 1:
		requiredAcks = kafka.RequireOne
	default:
		requiredAcks = kafka.RequireAll
	}

	p := &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{}, // same holiday, same partition
			Transport:    transport(cfg),
			RequiredAcks: requiredAcks,
			Compression:  compression,
			MaxAttempts:  cfg.ProducerMaxAttempts,
			BatchTimeout: cfg.ProducerBatchTimeout,
			Async:        cfg.ProducerAsync,
			Logger:       kafka.LoggerFunc(func(string, ...any) {}),
			ErrorLogger:  errorLogger(log, topic),
		},
		topic: topic,
		log:   log,
	}

	if dlqTopic != "" {
		p.dlqWriter = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        dlqTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  compression,
			MaxAttempts:  3,
			Transport:    transport(cfg),
			Logger:       kafka.LoggerFunc(func(string, ...any) {}),
			ErrorLogger:  errorLogger(log, dlqTopic),
		}
	}

	return p, nil
}

// transport tags every request with the configured client ID so broker-side
// quotas and logs can tell the services apart.
func transport(cfg *kafka_config.Config) *kafka.Transport {
	return &kafka.Transport{
		ClientID:    cfg.ClientID,
		DialTimeout: cfg.DialTimeout,
	}
}

func compressionCodec(name string) compress.Compression {
	switch name {
	case "none":
		return 0
	case "gzip":
		return compress.Gzip
	case "lz4":
		return compress.Lz4
	case "zstd":
		return compress.Zstd
	default:
		return compress.Snappy
	}
}

func errorLogger(log *logger.Logger, topic string) kafka.Logger {
	return kafka.LoggerFunc(func(msg string, args ...any) {
		log.Error("kafka client error", "topic", topic, "detail", fmt.Sprintf(msg, args...))
	})
}

func (p *Producer) Use(middleware ProducerMiddleware) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.middleware = append(p.middleware, middleware)
}

func (p *Producer) Topic() string {
	return p.topic
}

// Publish sends msg through the middleware chain. A failed write is copied
// to the DLQ when one is configured; the original error is still returned.
func (p *Producer) Publish(ctx context.Context, msg Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrProducerClosed
	}
	chain := make([]ProducerMiddleware, len(p.middleware))
	copy(chain, p.middleware)
	p.mu.RUnlock()

	if msg.Key == "" {
		return ErrEmptyKey
	}
	if len(msg.Value) == 0 {
		return ErrEmptyValue
	}
	if msg.Topic == "" {
		msg.Topic = p.topic
	}

	handler := p.publishInternal
	for i := len(chain) - 1; i >= 0; i-- {
		mw := chain[i]
		next := handler
		handler = func(ctx context.Context, m Message) error {
			return mw(ctx, m, next)
		}
	}

	return handler(ctx, msg)
}

func (p *Producer) publishInternal(ctx context.Context, msg Message) error {
	err := p.writer.WriteMessages(ctx, toKafkaMessage(msg, msg.Timestamp))
	if err == nil {
		return nil
	}

	if p.dlqWriter != nil {
		if dlqErr := p.sendToDLQ(ctx, msg, err); dlqErr != nil {
			return fmt.Errorf("failed to send to DLQ: %v (original error: %w)", dlqErr, err)
		}
	}
	return err
}

func (p *Producer) sendToDLQ(ctx context.Context, msg Message, originalErr error) error {
	headers := make(map[string]string, len(msg.Headers)+3)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[HeaderOriginalTopic] = p.topic
	headers["dlq-error"] = originalErr.Error()
	headers["dlq-timestamp"] = time.Now().UTC().Format(time.RFC3339)
	msg.Headers = headers

	return p.dlqWriter.WriteMessages(ctx, toKafkaMessage(msg, time.Now()))
}

func toKafkaMessage(msg Message, ts time.Time) kafka.Message {
	km := kafka.Message{
		Key:   []byte(msg.Key),
		Value: msg.Value,
		Time:  ts,
	}
	for k, v := range msg.Headers {
		km.Headers = append(km.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return km
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var err error
	if p.writer != nil {
		err = p.writer.Close()
	}
	if p.dlqWriter != nil {
		if dlqErr := p.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}
