package store

import (
	"context"
	"errors"

	"github.com/numrace/game-services/internal/gamesvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LeaderboardStore holds the cached solo and multiplayer leaderboards plus
// the solo streak documents.
type LeaderboardStore struct {
	solo    *mongo.Collection
	multi   *mongo.Collection
	streaks *mongo.Collection
}

func NewLeaderboardStore(db *mongo.Database) *LeaderboardStore {
	return &LeaderboardStore{
		solo:    db.Collection("solo_leaderboards"),
		multi:   db.Collection("multiplayer_leaderboards"),
		streaks: db.Collection("solo_streaks"),
	}
}

var upsert = options.Replace().SetUpsert(true)

func (s *LeaderboardStore) UpsertSolo(ctx context.Context, board *models.SoloLeaderboard) error {
	_, err := s.solo.ReplaceOne(ctx, bson.M{"difficulty": board.Difficulty}, board, upsert)
	return err
}

func (s *LeaderboardStore) GetSolo(ctx context.Context, difficulty string) (*models.SoloLeaderboard, error) {
	board := &models.SoloLeaderboard{}
	err := s.solo.FindOne(ctx, bson.M{"difficulty": difficulty}).Decode(board)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return board, nil
}

// UpsertMultiplayer replaces the single cached pair-standings document.
func (s *LeaderboardStore) UpsertMultiplayer(ctx context.Context, board *models.MultiplayerLeaderboard) error {
	_, err := s.multi.ReplaceOne(ctx, bson.M{}, board, upsert)
	return err
}

func (s *LeaderboardStore) GetMultiplayer(ctx context.Context) (*models.MultiplayerLeaderboard, error) {
	board := &models.MultiplayerLeaderboard{}
	err := s.multi.FindOne(ctx, bson.M{}).Decode(board)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (s *LeaderboardStore) GetStreak(ctx context.Context, difficulty string) (*models.SoloStreak, error) {
	streak := &models.SoloStreak{}
	err := s.streaks.FindOne(ctx, bson.M{"difficulty": difficulty}).Decode(streak)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.SoloStreak{Difficulty: difficulty}, nil
	}
	if err != nil {
		return nil, err
	}
	return streak, nil
}

func (s *LeaderboardStore) SaveStreak(ctx context.Context, streak *models.SoloStreak) error {
	_, err := s.streaks.ReplaceOne(ctx, bson.M{"difficulty": streak.Difficulty}, streak, upsert)
	return err
}
