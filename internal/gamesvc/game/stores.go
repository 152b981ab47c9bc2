package game

import (
	"context"

	"github.com/numrace/game-services/internal/comm"
	"github.com/numrace/game-services/internal/gamesvc/models"
)

// UserStore is the slice of the user-record store the core consumes.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	SetCoins(ctx context.Context, username string, coins int) error
	IncrementStats(ctx context.Context, username string, wins, losses, draws int) error
}

// MatchStore persists completed match outcomes, append-only.
type MatchStore interface {
	Insert(ctx context.Context, rec *models.MatchRecord) error
}

// EventPublisher fans settled match results out to background consumers.
type EventPublisher interface {
	PublishMatchCompleted(ev comm.MatchCompleted) error
}

// Broadcaster delivers outbound events to connected clients. Implementations
// must tolerate unknown socket ids (the connection may already be gone).
type Broadcaster interface {
	Send(socketID, event string, payload any)
	Broadcast(socketIDs []string, event string, payload any)
}
