package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"holidayplanner/pkg/client"
	"holidayplanner/pkg/kafka"
	kafka_config "holidayplanner/pkg/kafka/config"
	kafka_middleware "holidayplanner/pkg/kafka/middleware"
	"holidayplanner/pkg/logger"
	"holidayplanner/pkg/sanitizer"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	JWTSecret string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	CORSAllowedOrigins []string

	NotificationQueueSize int

	KafkaEnabled         bool
	KafkaHolidayTopic    string
	KafkaHolidayDLQTopic string
	KafkaNotifierGroupID string
	KafkaMetrics         *kafka_middleware.Metrics

	FlightsProviderURL     string
	FlightsProviderTimeout time.Duration

	requireJWTSecret bool

	Log    *logger.Logger
	Client *client.Client
}

// Load builds the configuration for an HTTP-facing service. A JWT secret is
// mandatory. The process exits when validation fails.
func Load(serviceName string) *Config {
	return load(serviceName, true)
}

// LoadJob builds the configuration for a batch job that never verifies tokens.
func LoadJob(jobName string) *Config {
	return load(jobName, false)
}

func load(serviceName string, requireJWTSecret bool) *Config {
	dotenvErr := godotenv.Load()

	cfg := FromEnv(serviceName)
	cfg.requireJWTSecret = requireJWTSecret

	if dotenvErr != nil && !errors.Is(dotenvErr, fs.ErrNotExist) {
		cfg.Log.Warn("Failed to read .env file", "error", dotenvErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv reads every setting from the environment without validating.
func FromEnv(serviceName string) *Config {
	return &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		JWTSecret: strings.TrimSpace(os.Getenv(EnvJWTSecret)),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		CORSAllowedOrigins: getEnvList(EnvCORSAllowedOrigins, DefaultCORSAllowedOrigins),

		NotificationQueueSize: getEnvNum(EnvNotificationQueueSize, DefaultNotificationQueueSize),

		KafkaEnabled:         getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		KafkaHolidayTopic:    getEnvStr(EnvKafkaHolidayTopic, DefaultKafkaHolidayTopic),
		KafkaHolidayDLQTopic: getEnvStr(EnvKafkaHolidayDLQTopic, DefaultKafkaHolidayDLQTopic),
		KafkaNotifierGroupID: getEnvStr(EnvKafkaNotifierGroupID, DefaultKafkaNotifierGroupID),
		KafkaMetrics:         kafka_middleware.NewMetrics(),

		FlightsProviderURL:     strings.TrimRight(getEnvStr(EnvFlightsProviderURL, ""), "/"),
		FlightsProviderTimeout: getEnvDuration(EnvFlightsProviderTimeout, DefaultFlightsProviderTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// KafkaConfig loads broker settings. Exits when they are invalid.
func (cfg *Config) KafkaConfig() *kafka_config.Config {
	kcfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kcfg.LogConfiguration(cfg.Log.Info)
	return kcfg
}

// SetKafka creates the holiday event producer when Kafka is enabled.
func (cfg *Config) SetKafka() {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, holiday events stay local")
		return
	}

	kcfg := cfg.KafkaConfig()
	producer, err := kafka.NewProducer(kcfg, cfg.KafkaHolidayTopic, cfg.KafkaHolidayDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kcfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(cfg.KafkaMetrics.ProducerMiddleware())
	}
	cfg.Client.SetKafka(producer)
	cfg.Log.Info("Kafka producer ready", "topic", cfg.KafkaHolidayTopic)
}

var mongoURIPattern = regexp.MustCompile(`^mongodb(\+srv)?://`)

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !mongoURIPattern.MatchString(cfg.MongoURI) {
		errors = append(errors, "MongoURI must start with 'mongodb://' or 'mongodb+srv://'")
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.requireJWTSecret && len(cfg.JWTSecret) < 16 {
		errors = append(errors, "JWTSecret must be set and at least 16 characters long")
	}

	for name, d := range map[string]time.Duration{
		"MongoConnTimeout": cfg.MongoConnTimeout,
		"RateLimitWindow":  cfg.RateLimitWindow,
		"RequestTimeout":   cfg.RequestTimeout,
		"IdempotencyTTL":   cfg.IdempotencyTTL,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
	} {
		if d <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.NotificationQueueSize <= 0 {
		errors = append(errors, fmt.Sprintf("NotificationQueueSize must be positive, got: %d", cfg.NotificationQueueSize))
	}

	if cfg.KafkaEnabled && cfg.KafkaHolidayTopic == "" {
		errors = append(errors, "KafkaHolidayTopic cannot be empty when Kafka is enabled")
	}
	if cfg.FlightsProviderURL != "" && !strings.HasPrefix(cfg.FlightsProviderURL, "http") {
		errors = append(errors, fmt.Sprintf("FlightsProviderURL must be an http(s) URL, got: %s", cfg.FlightsProviderURL))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"jwt_secret_set", cfg.JWTSecret != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"cors_allowed_origins", cfg.CORSAllowedOrigins,
		"notification_queue_size", cfg.NotificationQueueSize,
		"kafka_enabled", cfg.KafkaEnabled,
		"kafka_holiday_topic", cfg.KafkaHolidayTopic,
		"flights_provider", cfg.FlightsProviderURL != "",
	)
}

func (cfg *Config) GracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	cfg.Client.GracefulShutdown(ctx, cfg.Log)
}

var credentialPattern = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)

func redactMongoURI(uri string) string {
	return credentialPattern.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	return sanitizer.NormalizeStringSlice(strings.Split(getEnvStr(key, fallback), ","), sanitizer.TrimAndNormalize)
}
