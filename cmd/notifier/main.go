package main

import (
	"context"
	"errors"

	"holidayplanner/internal/notifications"
	"holidayplanner/pkg/app"
	"holidayplanner/pkg/auth"
	"holidayplanner/pkg/config"
	"holidayplanner/pkg/kafka"
	kafka_middleware "holidayplanner/pkg/kafka/middleware"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	if !cfg.KafkaEnabled {
		cfg.Log.Fatal("The notifier consumes holiday events from Kafka, set "+config.EnvKafkaEnabled+"=true")
	}

	cfg.Log.Info("Starting Notifier service")

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		cfg.Log.Fatal("Failed to create token verifier", "error", err)
	}

	hub := notifications.NewHub(verifier, cfg.Log)

	kcfg := cfg.KafkaConfig()
	consumer, err := kafka.NewConsumer(kcfg, cfg.KafkaHolidayTopic, cfg.KafkaNotifierGroupID, cfg.KafkaHolidayDLQTopic, hub.HandleMessage, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if kcfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(cfg.KafkaMetrics.ConsumerMiddleware())
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Kafka consumer stopped", "error", err)
		}
	}()
	cfg.Log.Info("Consuming holiday events", "topic", cfg.KafkaHolidayTopic, "group_id", cfg.KafkaNotifierGroupID)

	serverApp := app.NewApplication(cfg, verifier)
	serverApp.SetStream(hub)
	serverApp.OnShutdown("kafka consumer", func(context.Context) error {
		cancel()
		return consumer.Close()
	})
	serverApp.OnShutdown("notification hub", func(context.Context) error {
		return hub.Close()
	})
	serverApp.Run()
}
