package main

import (
	"context"
	"time"

	mongoMigration "holidayplanner/internal/migrations/mongo"
	"holidayplanner/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.LoadJob(JobName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Mongo migration job", "database", cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.GracefulShutdown()
	cfg.Log.Info("Migration completed successfully")
}
