package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/apna-store/internal/cart"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type storageEntry struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStorage implements cart.Storage with one document per key
type MongoStorage struct {
	collection *mongo.Collection
}

func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{
		collection: db.Collection("client_storage"),
	}
}

func (m *MongoStorage) Get(ctx context.Context, key string) (string, error) {
	var entry storageEntry
	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", cart.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to get storage entry: %w", err)
	}
	return entry.Value, nil
}

func (m *MongoStorage) Set(ctx context.Context, key, value string) error {
	update := bson.M{"$set": bson.M{"value": value, "updated_at": time.Now()}}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, bson.M{"_id": key}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert storage entry: %w", err)
	}
	return nil
}

func (m *MongoStorage) Remove(ctx context.Context, key string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete storage entry: %w", err)
	}
	return nil
}

// CreateIndexes expires entries that have not been written for 90 days.
func (m *MongoStorage) CreateIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60),
	}

	if _, err := m.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
