package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthyconnect/healthtrack-api/internal/config"
)

// Connect opens the Mongo client and returns the application database
// together with a disconnect function for main to defer.
func Connect(ctx context.Context, cfg config.Config) (*mongo.Database, func(context.Context) error, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, nil, err
	}

	return client.Database(cfg.MongoDatabase), client.Disconnect, nil
}

// userIndexes returns the users collection indexes. The unique email
// index backs duplicate-registration detection.
func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}

// goalIndexes returns the goals collection indexes. Every write stores
// date truncated to the start of its UTC day, so the (userId, type,
// date) index can be unique: the database itself rejects a second
// record for the same metric and day even if two upserts race.
func goalIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "type", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}
}

// EnsureIndexes creates the indexes the handlers rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes()); err != nil {
		return err
	}
	_, err := db.Collection("goals").Indexes().CreateMany(ctx, goalIndexes())
	return err
}
