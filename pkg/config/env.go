package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret = "JWT_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvNotificationQueueSize = "NOTIFICATION_QUEUE_SIZE"

	EnvKafkaEnabled         = "KAFKA_ENABLED"
	EnvKafkaHolidayTopic    = "KAFKA_HOLIDAY_TOPIC"
	EnvKafkaHolidayDLQTopic = "KAFKA_HOLIDAY_DLQ_TOPIC"
	EnvKafkaNotifierGroupID = "KAFKA_NOTIFIER_GROUP_ID"

	EnvFlightsProviderURL     = "FLIGHTS_PROVIDER_URL"
	EnvFlightsProviderTimeout = "FLIGHTS_PROVIDER_TIMEOUT"
)
