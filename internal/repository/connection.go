package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig bounds the MongoDB client: dial and server selection timeouts
// plus pool sizing, all fed from configuration.
type MongoConfig struct {
	URI                    string
	Database               string
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	MaxPoolSize            uint64
	MinPoolSize            uint64
}

func ConnectMongoDB(ctx context.Context, cfg MongoConfig) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the repositories rely on: unique email
// and phone for users, one cart per user, and the order listing sort. Runs
// at startup; uniqueness must not rest on the pre-insert existence checks.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	creators := []interface {
		CreateIndexes(ctx context.Context) error
	}{
		&mongoUserRepository{collection: db.Collection("users")},
		&mongoCartRepository{collection: db.Collection("carts")},
		&mongoOrderRepository{collection: db.Collection("orders")},
	}

	for _, c := range creators {
		if err := c.CreateIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
