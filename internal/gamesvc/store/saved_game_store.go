package store

import (
	"context"
	"errors"
	"time"

	"github.com/numrace/game-services/internal/gamesvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoSavedGame is returned when the owner has no non-completed snapshot.
var ErrNoSavedGame = errors.New("no saved game")

// SavedGameStore persists match-in-progress snapshots. It keeps at most one
// non-completed snapshot per owner by deleting prior ones before every
// insert.
type SavedGameStore struct {
	col *mongo.Collection
}

func NewSavedGameStore(db *mongo.Database) *SavedGameStore {
	return &SavedGameStore{col: db.Collection("saved_games")}
}

func soloFilter(userID primitive.ObjectID) bson.M {
	return bson.M{"user_id": userID, "game_type": models.GameTypeSolo, "is_completed": false}
}

func roomFilter(roomID string) bson.M {
	return bson.M{"room_id": roomID, "game_type": models.GameTypeMultiplayer, "is_completed": false}
}

// SaveSolo replaces the caller's active solo snapshot.
func (s *SavedGameStore) SaveSolo(ctx context.Context, game *models.SavedGame) error {
	if _, err := s.col.DeleteMany(ctx, soloFilter(game.UserID)); err != nil {
		return err
	}
	game.GameType = models.GameTypeSolo
	game.SavedAt = time.Now().UTC()
	_, err := s.col.InsertOne(ctx, game)
	return err
}

// SaveMultiplayer replaces the room's active snapshot.
func (s *SavedGameStore) SaveMultiplayer(ctx context.Context, game *models.SavedGame) error {
	if _, err := s.col.DeleteMany(ctx, roomFilter(game.RoomID)); err != nil {
		return err
	}
	game.GameType = models.GameTypeMultiplayer
	game.SavedAt = time.Now().UTC()
	_, err := s.col.InsertOne(ctx, game)
	return err
}

// GetSolo returns the caller's latest non-completed solo snapshot.
func (s *SavedGameStore) GetSolo(ctx context.Context, userID primitive.ObjectID) (*models.SavedGame, error) {
	return s.findLatest(ctx, soloFilter(userID))
}

// GetMultiplayerForUser returns the latest non-completed multiplayer
// snapshot listing the username as a player.
func (s *SavedGameStore) GetMultiplayerForUser(ctx context.Context, username string) (*models.SavedGame, error) {
	return s.findLatest(ctx, bson.M{
		"players.username": username,
		"game_type":        models.GameTypeMultiplayer,
		"is_completed":     false,
	})
}

// GetMultiplayerByRoom returns the room's non-completed snapshot.
func (s *SavedGameStore) GetMultiplayerByRoom(ctx context.Context, roomID string) (*models.SavedGame, error) {
	return s.findLatest(ctx, roomFilter(roomID))
}

func (s *SavedGameStore) findLatest(ctx context.Context, filter bson.M) (*models.SavedGame, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "saved_at", Value: -1}})
	game := &models.SavedGame{}
	err := s.col.FindOne(ctx, filter, opts).Decode(game)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoSavedGame
	}
	if err != nil {
		return nil, err
	}
	return game, nil
}

// DeleteSolo drops the caller's active solo snapshot.
func (s *SavedGameStore) DeleteSolo(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, soloFilter(userID))
	return err
}

// DeleteMultiplayerByRoom drops the room's active snapshot.
func (s *SavedGameStore) DeleteMultiplayerByRoom(ctx context.Context, roomID string) error {
	_, err := s.col.DeleteMany(ctx, roomFilter(roomID))
	return err
}

// CompleteSolo marks the caller's solo snapshots completed.
func (s *SavedGameStore) CompleteSolo(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.UpdateMany(ctx, soloFilter(userID), bson.M{"$set": bson.M{"is_completed": true}})
	return err
}

// CompleteMultiplayer marks the room's snapshots completed.
func (s *SavedGameStore) CompleteMultiplayer(ctx context.Context, roomID string) error {
	_, err := s.col.UpdateMany(ctx, roomFilter(roomID), bson.M{"$set": bson.M{"is_completed": true}})
	return err
}
