package db

import (
	"context"
	"net/url"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens the MongoDB database named in MONGODB_URI and verifies
// the connection with a ping.
func ConnectMongo() (*mongo.Database, context.CancelFunc, error) {
	mongoURI := os.Getenv("MONGODB_URI")

	uri, err := url.Parse(mongoURI)
	if err != nil {
		return nil, nil, err
	}
	dbName := strings.TrimPrefix(uri.Path, "/")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		cancel()
		return nil, nil, err
	}

	return client.Database(dbName), cancel, nil
}

// EnsureIndexes creates the indexes the stores query on. Safe to call on
// every startup; CreateOne is a no-op for an existing index.
func EnsureIndexes(db *mongo.Database) {
	users := db.Collection("users")
	if _, err := users.Indexes().CreateOne(context.TODO(), mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		log.Fatalf("create users index: %v", err)
	}

	saved := db.Collection("saved_games")
	savedIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "game_type", Value: 1}, {Key: "is_completed", Value: 1}}},
		{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "game_type", Value: 1}}},
		{Keys: bson.D{{Key: "players.username", Value: 1}, {Key: "game_type", Value: 1}, {Key: "is_completed", Value: 1}}},
	}
	if _, err := saved.Indexes().CreateMany(context.TODO(), savedIndexes); err != nil {
		log.Fatalf("create saved_games indexes: %v", err)
	}
}
