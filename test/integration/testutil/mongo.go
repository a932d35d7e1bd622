package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"holidayplanner/internal/holidays/repository"
	"holidayplanner/pkg/model"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "holidayplanner_test"
	ConnectionTimeout   = 10 * time.Second
	HolidaysCollection  = repository.CollectionName
)

type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
		DBName:   dbName,
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// CleanCollection removes all documents from a collection, keeping its indexes.
func (m *MongoHelper) CleanCollection(t *testing.T, collectionName string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := m.Database.Collection(collectionName).DeleteMany(ctx, bson.M{})
	if err != nil {
		t.Fatalf("failed to clean collection %s: %v", collectionName, err)
	}
	t.Logf("Cleaned %d documents from collection: %s", result.DeletedCount, collectionName)
}

func (m *MongoHelper) CountDocuments(t *testing.T, collectionName string) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(collectionName).CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collectionName, err)
	}
	return count
}

// FindHoliday reads a stored holiday directly, bypassing the API.
func (m *MongoHelper) FindHoliday(t *testing.T, id string) *model.Holiday {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		t.Fatalf("invalid holiday id %q: %v", id, err)
	}

	var h model.Holiday
	if err := m.Database.Collection(HolidaysCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&h); err != nil {
		t.Fatalf("failed to load holiday %s: %v", id, err)
	}
	return &h
}
