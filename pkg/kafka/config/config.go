package kafka_config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Brokers     []string
	ClientID    string
	DialTimeout time.Duration

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int    // -1 = all, 0 = none, 1 = leader only
	ProducerCompression  string // none, gzip, snappy, lz4, zstd
	ProducerAsync        bool

	ConsumerStartOffset       int64 // -1 = newest, -2 = oldest
	ConsumerMinBytes          int
	ConsumerMaxBytes          int
	ConsumerMaxWait           time.Duration
	ConsumerCommitInterval    time.Duration
	ConsumerHeartbeatInterval time.Duration
	ConsumerSessionTimeout    time.Duration
	ConsumerRebalanceTimeout  time.Duration
	ConsumerMaxRetries        int

	EnableMiddleware bool
}

// Load reads the Kafka settings from the environment and validates them.
func Load() (*Config, error) {
	var brokers []string
	for _, b := range strings.Split(getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	cfg := &Config{
		Brokers:     brokers,
		ClientID:    getEnvStr(EnvKafkaClientID, DefaultClientID),
		DialTimeout: getEnvDuration(EnvKafkaDialTimeout, DefaultDialTimeout),

		ProducerMaxAttempts:  getEnvInt(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout: getEnvDuration(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerRequireAcks:  getEnvInt(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerCompression:  getEnvStr(EnvKafkaProducerCompression, DefaultProducerCompression),
		ProducerAsync:        getEnvBool(EnvKafkaProducerAsync, DefaultProducerAsync),

		ConsumerStartOffset:       int64(getEnvInt(EnvKafkaConsumerStartOffset, DefaultConsumerStartOffset)),
		ConsumerMinBytes:          getEnvInt(EnvKafkaConsumerMinBytes, DefaultConsumerMinBytes),
		ConsumerMaxBytes:          getEnvInt(EnvKafkaConsumerMaxBytes, DefaultConsumerMaxBytes),
		ConsumerMaxWait:           getEnvDuration(EnvKafkaConsumerMaxWait, DefaultConsumerMaxWait),
		ConsumerCommitInterval:    getEnvDuration(EnvKafkaConsumerCommitInterval, DefaultConsumerCommitInterval),
		ConsumerHeartbeatInterval: getEnvDuration(EnvKafkaConsumerHeartbeatInterval, DefaultConsumerHeartbeatInterval),
		ConsumerSessionTimeout:    getEnvDuration(EnvKafkaConsumerSessionTimeout, DefaultConsumerSessionTimeout),
		ConsumerRebalanceTimeout:  getEnvDuration(EnvKafkaConsumerRebalanceTimeout, DefaultConsumerRebalanceTimeout),
		ConsumerMaxRetries:        getEnvInt(EnvKafkaConsumerMaxRetries, DefaultConsumerMaxRetries),

		EnableMiddleware: getEnvBool(EnvKafkaEnableMiddleware, DefaultEnableMiddleware),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	var errors []string

	if len(cfg.Brokers) == 0 {
		errors = append(errors, "At least one Kafka broker is required")
	}
	if strings.TrimSpace(cfg.ClientID) == "" {
		errors = append(errors, "ClientID cannot be empty")
	}
	if cfg.DialTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("DialTimeout must be positive, got: %s", cfg.DialTimeout))
	}
	if cfg.ProducerMaxAttempts <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerMaxAttempts must be positive, got: %d", cfg.ProducerMaxAttempts))
	}
	if cfg.ProducerBatchTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerBatchTimeout must be positive, got: %s", cfg.ProducerBatchTimeout))
	}

	switch cfg.ProducerCompression {
	case "none", "gzip", "snappy", "lz4", "zstd":
	default:
		errors = append(errors, fmt.Sprintf("ProducerCompression must be one of [none, gzip, snappy, lz4, zstd], got: %s", cfg.ProducerCompression))
	}

	if cfg.ProducerRequireAcks < -1 || cfg.ProducerRequireAcks > 1 {
		errors = append(errors, fmt.Sprintf("ProducerRequireAcks must be -1, 0, or 1, got: %d", cfg.ProducerRequireAcks))
	}
	if cfg.ConsumerStartOffset != -1 && cfg.ConsumerStartOffset != -2 {
		errors = append(errors, fmt.Sprintf("ConsumerStartOffset must be -1 (newest) or -2 (oldest), got: %d", cfg.ConsumerStartOffset))
	}
	if cfg.ConsumerMinBytes <= 0 || cfg.ConsumerMaxBytes < cfg.ConsumerMinBytes {
		errors = append(errors, fmt.Sprintf("ConsumerMinBytes (%d) must be positive and not exceed ConsumerMaxBytes (%d)", cfg.ConsumerMinBytes, cfg.ConsumerMaxBytes))
	}

	for name, d := range map[string]time.Duration{
		"ConsumerMaxWait":           cfg.ConsumerMaxWait,
		"ConsumerCommitInterval":    cfg.ConsumerCommitInterval,
		"ConsumerHeartbeatInterval": cfg.ConsumerHeartbeatInterval,
		"ConsumerSessionTimeout":    cfg.ConsumerSessionTimeout,
		"ConsumerRebalanceTimeout":  cfg.ConsumerRebalanceTimeout,
	} {
		if d <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.ConsumerMaxRetries < 0 {
		errors = append(errors, fmt.Sprintf("ConsumerMaxRetries cannot be negative, got: %d", cfg.ConsumerMaxRetries))
	}

	if len(errors) > 0 {
		errMsg := "Kafka configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}
	return nil
}

// LogConfiguration logs the effective Kafka settings through logFunc.
func (cfg *Config) LogConfiguration(logFunc func(msg string, keysAndValues ...any)) {
	if logFunc == nil {
		return
	}

	logFunc("Kafka configuration loaded successfully",
		"brokers", cfg.Brokers,
		"client_id", cfg.ClientID,
		"producer_max_attempts", cfg.ProducerMaxAttempts,
		"producer_require_acks", cfg.ProducerRequireAcks,
		"producer_compression", cfg.ProducerCompression,
		"producer_async", cfg.ProducerAsync,
		"consumer_start_offset", cfg.ConsumerStartOffset,
		"consumer_max_retries", cfg.ConsumerMaxRetries,
		"enable_middleware", cfg.EnableMiddleware,
	)
}

func getEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
