package client

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"holidayplanner/pkg/kafka"
	"holidayplanner/pkg/logger"
)

// Client holds the shared connections of a process.
type Client struct {
	Mongo *mongo.Client
	Kafka *kafka.Producer
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

func (c *Client) SetKafka(producer *kafka.Producer) {
	c.Kafka = producer
}

// GracefulShutdown closes every connection that was opened.
func (c *Client) GracefulShutdown(ctx context.Context, log *logger.Logger) {
	if c.Kafka != nil {
		if err := c.Kafka.Close(); err != nil {
			log.Error("Failed to close Kafka producer", "error", err)
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}
}
