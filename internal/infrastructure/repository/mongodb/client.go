package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	collectionMatches = "matches"
	collectionTeams   = "teams"
	collectionPlayers = "players"
	collectionEvents  = "events"
	collectionRawData = "raw_data"
)

// Connect opens a client and pings the primary so startup fails fast on a
// bad URI.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, func(context.Context) error, error) {
	if uri == "" {
		return nil, nil, fmt.Errorf("mongo uri is required")
	}
	if database == "" {
		return nil, nil, fmt.Errorf("mongo database name is required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client.Database(database), client.Disconnect, nil
}
