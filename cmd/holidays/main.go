package main

import (
	"holidayplanner/internal/flights"
	"holidayplanner/internal/holidays/handler"
	"holidayplanner/internal/holidays/repository"
	"holidayplanner/internal/holidays/service"
	"holidayplanner/internal/holidays/validator"
	"holidayplanner/internal/notifications"
	"holidayplanner/pkg/app"
	"holidayplanner/pkg/auth"
	"holidayplanner/pkg/config"
)

const ServiceName = "holidays"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetKafka()

	cfg.Log.Info("Starting Holidays service")

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		cfg.Log.Fatal("Failed to create token verifier", "error", err)
	}

	serverApp := app.NewApplication(cfg, verifier)

	dispatcher := initNotifications(cfg, verifier, serverApp)
	dispatcher.Start()
	serverApp.OnShutdown("notification dispatcher", dispatcher.Stop)

	holidayService := initServices(cfg, dispatcher)
	serverApp.SetApp(
		handler.NewHolidayHandler(holidayService, cfg.Log),
		flights.NewFlightHandler(initFlightProvider(cfg), cfg.Log),
	)
	serverApp.Run()
}

// initNotifications fans holiday updates out to the log and, when Kafka is
// enabled, to the notifier service. Without Kafka the websocket hub runs
// in-process and is closed by the dispatcher once its queue has drained.
func initNotifications(cfg *config.Config, verifier *auth.Verifier, serverApp *app.Application) *notifications.Dispatcher {
	sinks := []notifications.Sink{notifications.NewLogSink(cfg.Log)}

	if cfg.Client.Kafka != nil {
		sinks = append(sinks, notifications.NewKafkaSink(cfg.Client.Kafka, ServiceName))
	} else {
		hub := notifications.NewHub(verifier, cfg.Log)
		sinks = append(sinks, hub)
		serverApp.SetStream(hub)
	}

	return notifications.NewDispatcher(cfg.NotificationQueueSize, cfg.Log, sinks...)
}

func initServices(cfg *config.Config, notifier service.Notifier) service.HolidayService {
	holidayValidator := validator.NewHolidayValidator(cfg.Log)
	holidayRepo := repository.NewMongoHolidayRepository(cfg)
	holidayService := service.NewHolidayService(
		holidayRepo,
		holidayValidator,
		notifier,
		cfg,
	)

	cfg.Log.Info("Holiday service initialized", "database", cfg.MongoDatabaseName)
	return holidayService
}

func initFlightProvider(cfg *config.Config) flights.Provider {
	if cfg.FlightsProviderURL == "" {
		cfg.Log.Info("Flight search uses the built-in mock provider")
		return flights.NewMockProvider()
	}
	cfg.Log.Info("Flight search uses an HTTP provider", "url", cfg.FlightsProviderURL)
	return flights.NewHTTPProvider(cfg.FlightsProviderURL, cfg.FlightsProviderTimeout)
}
