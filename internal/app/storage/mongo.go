package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ilya-burinskiy/repairguides/internal/app/models"
)

const repairsCollection = "repairs"

// MongoDB document storage
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Connects to MongoDB at uri and uses the repairs collection of database
func NewMongoStorage(ctx context.Context, uri, database string) (*MongoStorage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &MongoStorage{
		client:     client,
		collection: client.Database(database).Collection(repairsCollection),
	}, nil
}

// Create record document
func (ms *MongoStorage) Create(ctx context.Context, r models.RepairRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	if _, err := ms.collection.InsertOne(ctx, r); err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) && len(writeErr.WriteErrors) > 0 {
			return fmt.Errorf("%w: %s", models.ErrInvalidRecord, writeErr.WriteErrors[0].Message)
		}

		return fmt.Errorf("failed to save repair record: %w", err)
	}

	return nil
}

// Ping checks the primary is reachable
func (ms *MongoStorage) Ping(ctx context.Context) error {
	return ms.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (ms *MongoStorage) Close(ctx context.Context) error {
	return ms.client.Disconnect(ctx)
}
