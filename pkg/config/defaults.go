package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "holiday_planner"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultCORSAllowedOrigins = "http://localhost:3000"

	DefaultNotificationQueueSize = 256

	DefaultKafkaEnabled         = false
	DefaultKafkaHolidayTopic    = "holiday-events"
	DefaultKafkaHolidayDLQTopic = "holiday-events-dlq"
	DefaultKafkaNotifierGroupID = "holiday-notifier"

	DefaultFlightsProviderTimeout = 5 * time.Second
)
