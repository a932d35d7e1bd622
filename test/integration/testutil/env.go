package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"
)

const (
	DefaultHealthCheckTimeout = 30 * time.Second
	DefaultJWTSecret          = "integration-test-secret-0123456789"
)

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
	JWTSecret    string
}

func NewTestEnv() *TestEnv {
	serverPort := getEnv("TEST_SERVER_PORT", "8080")

	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		ServerURL:    getEnv("TEST_SERVER_URL", fmt.Sprintf("http://localhost:%s", serverPort)),
		JWTSecret:    getEnv("TEST_JWT_SECRET", DefaultJWTSecret),
	}
}

// Setup cleans the holiday collection and waits for the service to be healthy.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *Client) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanCollection(t, HolidaysCollection)

	client := NewClient(e.ServerURL, e.JWTSecret)
	client.WaitForHealthy(t, DefaultHealthCheckTimeout)

	return mongo, client
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanCollection(t, HolidaysCollection)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
