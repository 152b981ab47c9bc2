package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/numrace/game-services/internal/gamesvc/models"
	"github.com/numrace/game-services/internal/gamesvc/store"
)

// SavedGameService manages durable in-progress snapshots for both solo and
// multiplayer games. One live snapshot per owner; saving replaces any prior
// snapshot.
type SavedGameService struct {
	savedGames *store.SavedGameStore
}

func NewSavedGameService(savedGames *store.SavedGameStore) *SavedGameService {
	return &SavedGameService{savedGames: savedGames}
}

// SaveSolo snapshots a solo game for the given user.
func (s *SavedGameService) SaveSolo(ctx context.Context, userID primitive.ObjectID, username string, game *models.SavedGame) error {
	game.GameType = models.GameTypeSolo
	game.UserID = userID
	game.Username = username
	game.SavedAt = time.Now().UTC()
	game.IsCompleted = false
	return s.savedGames.SaveSolo(ctx, game)
}

// GetSolo returns the user's live solo snapshot, or store.ErrNoSavedGame.
func (s *SavedGameService) GetSolo(ctx context.Context, userID primitive.ObjectID) (*models.SavedGame, error) {
	return s.savedGames.GetSolo(ctx, userID)
}

func (s *SavedGameService) DeleteSolo(ctx context.Context, userID primitive.ObjectID) error {
	return s.savedGames.DeleteSolo(ctx, userID)
}

// CompleteSolo marks the snapshot finished instead of deleting it, so a
// client that saved right before the final click does not resurrect the game.
func (s *SavedGameService) CompleteSolo(ctx context.Context, userID primitive.ObjectID) error {
	return s.savedGames.CompleteSolo(ctx, userID)
}

// SaveMultiplayer snapshots a multiplayer room. All participants share the
// snapshot, keyed by room id.
func (s *SavedGameService) SaveMultiplayer(ctx context.Context, game *models.SavedGame) error {
	game.GameType = models.GameTypeMultiplayer
	game.SavedAt = time.Now().UTC()
	game.IsCompleted = false
	return s.savedGames.SaveMultiplayer(ctx, game)
}

// GetMultiplayerForUser finds the live room snapshot the username appears in.
func (s *SavedGameService) GetMultiplayerForUser(ctx context.Context, username string) (*models.SavedGame, error) {
	return s.savedGames.GetMultiplayerForUser(ctx, username)
}

// GetMultiplayerByRoom fetches the snapshot a resume handshake runs against.
func (s *SavedGameService) GetMultiplayerByRoom(ctx context.Context, roomID string) (*models.SavedGame, error) {
	return s.savedGames.GetMultiplayerByRoom(ctx, roomID)
}

func (s *SavedGameService) DeleteMultiplayer(ctx context.Context, roomID string) error {
	return s.savedGames.DeleteMultiplayerByRoom(ctx, roomID)
}

func (s *SavedGameService) CompleteMultiplayer(ctx context.Context, roomID string) error {
	return s.savedGames.CompleteMultiplayer(ctx, roomID)
}
