package store

import (
	"context"
	"fmt"

	"github.com/numrace/game-services/internal/gamesvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserStore persists user records in the users collection.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if user.Coins == 0 {
		user.Coins = models.StartingCoins
	}
	res, err := s.col.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("could not create user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u := &models.User{}
	err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(u)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserStore) SetCoins(ctx context.Context, username string, coins int) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"coins": coins}},
	)
	return err
}

// IncCoins atomically adjusts a balance without the floor-reset rule; used
// for positive awards like the streak bonus.
func (s *UserStore) IncCoins(ctx context.Context, username string, delta int) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$inc": bson.M{"coins": delta}},
	)
	return err
}

func (s *UserStore) IncrementStats(ctx context.Context, username string, wins, losses, draws int) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$inc": bson.M{
			"total_wins":   wins,
			"total_losses": losses,
			"total_draws":  draws,
		}},
	)
	return err
}

// SetBestTimeIfLower records a solo time only when it beats (or first sets)
// the stored best for the difficulty. Reports whether an update happened.
func (s *UserStore) SetBestTimeIfLower(ctx context.Context, username, difficulty string, timeMs int64) (bool, error) {
	field, err := bestTimeField(difficulty)
	if err != nil {
		return false, err
	}

	filter := bson.M{
		"username": username,
		"$or": []bson.M{
			{field: nil},
			{field: bson.M{"$gt": timeMs}},
		},
	}
	res, err := s.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{field: timeMs}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// TopByBestTime returns the users holding the lowest solo times for a
// difficulty, ascending, skipping users with no recorded time.
func (s *UserStore) TopByBestTime(ctx context.Context, difficulty string, limit int) ([]*models.User, error) {
	field, err := bestTimeField(difficulty)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: 1}}).
		SetLimit(int64(limit))
	cur, err := s.col.Find(ctx, bson.M{field: bson.M{"$ne": nil}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []*models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func bestTimeField(difficulty string) (string, error) {
	switch difficulty {
	case "easy":
		return "best_solo_time_easy", nil
	case "medium":
		return "best_solo_time_medium", nil
	case "hard":
		return "best_solo_time_hard", nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", difficulty)
	}
}
