package game

import (
	"context"
	"fmt"

	"github.com/numrace/game-services/internal/comm"
	"github.com/numrace/game-services/internal/gamesvc/models"
)

// Ledger applies bounded coin deltas to user records with the floor-reset
// rule: a balance that would land at or below zero is replaced by the
// starting stipend instead of clamping to zero or going negative.
type Ledger struct {
	users UserStore
}

func NewLedger(users UserStore) *Ledger {
	return &Ledger{users: users}
}

// ApplyDelta reads the current balance, applies the delta and writes the
// result back. Concurrent calls for the same username are not ordered here;
// each user participates in at most one settling match at a time, so the
// read-modify-write is an accepted assumption, not an enforced guarantee.
func (l *Ledger) ApplyDelta(ctx context.Context, username string, delta int) (comm.CoinResult, error) {
	user, err := l.users.GetByUsername(ctx, username)
	if err != nil {
		return comm.CoinResult{}, fmt.Errorf("ledger: read balance for %s: %w", username, err)
	}

	newTotal := user.Coins + delta
	reset := false
	if newTotal <= 0 {
		newTotal = models.StartingCoins
		reset = true
	}

	if err := l.users.SetCoins(ctx, username, newTotal); err != nil {
		return comm.CoinResult{}, fmt.Errorf("ledger: write balance for %s: %w", username, err)
	}

	return comm.CoinResult{
		Username: username,
		Change:   delta,
		NewTotal: newTotal,
		Reset:    reset,
	}, nil
}

// Balance returns the user's current coin balance.
func (l *Ledger) Balance(ctx context.Context, username string) (int, error) {
	user, err := l.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return user.Coins, nil
}
