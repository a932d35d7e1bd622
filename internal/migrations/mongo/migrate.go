package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"holidayplanner/internal/holidays/repository"
	"holidayplanner/internal/migrations/mongo/validators"
	"holidayplanner/pkg/logger"
)

// HolidaysIndexes back the owner-scoped list under every sort strategy and
// the subscriber lookup.
var HolidaysIndexes = []mongo.IndexModel{
	{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "destination", Value: 1}, {Key: "_id", Value: 1}}},
	{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "start_date", Value: 1}, {Key: "_id", Value: 1}}},
	{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "name", Value: 1}, {Key: "_id", Value: 1}}},
	{Keys: bson.D{{Key: "subscribers", Value: 1}}},
	{Keys: bson.D{{Key: "cloned_from", Value: 1}}, Options: options.Index().SetSparse(true)},
}

type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		repository.CollectionName: {
			Indexes:   HolidaysIndexes,
			Validator: validators.HolidayValidator,
		},
	}
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully", "database", dbName)
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	names, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", names)
	return nil
}
