package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/numrace/game-services/internal/comm"
	"github.com/numrace/game-services/internal/gamesvc/models"
	log "github.com/sirupsen/logrus"
)

// Recorder persists a completed match's outcome: the append-only history
// record plus the cumulative win/loss/draw counters for both usernames.
type Recorder struct {
	matches MatchStore
	users   UserStore
	events  EventPublisher
}

// NewRecorder wires the recorder. events may be nil when no background
// consumers are attached.
func NewRecorder(matches MatchStore, users UserStore, events EventPublisher) *Recorder {
	return &Recorder{matches: matches, users: users, events: events}
}

// RecordMatch writes the match record and counter increments sequentially so
// partial completion is a recognized state: any step failing is reflected in
// the returned error rather than swallowed.
func (r *Recorder) RecordMatch(ctx context.Context, room *Room, winner string) error {
	if len(room.Players) != 2 {
		return fmt.Errorf("recorder: room %s has %d players, want 2", room.RoomId, len(room.Players))
	}
	p1, p2 := room.Players[0], room.Players[1]

	rec := &models.MatchRecord{
		Player1:      p1.Username,
		Player2:      p2.Username,
		Winner:       winner,
		Player1Score: p1.Score,
		Player2Score: p2.Score,
		Difficulty:   room.Difficulty,
		Mode:         room.Mode,
		CompletedAt:  time.Now().UTC(),
	}

	var errs []error
	if err := r.matches.Insert(ctx, rec); err != nil {
		errs = append(errs, fmt.Errorf("insert match record: %w", err))
	}

	if winner == models.WinnerDraw {
		for _, p := range room.Players {
			if err := r.users.IncrementStats(ctx, p.Username, 0, 0, 1); err != nil {
				errs = append(errs, fmt.Errorf("increment draws for %s: %w", p.Username, err))
			}
		}
	} else {
		loser := p1.Username
		if loser == winner {
			loser = p2.Username
		}
		if err := r.users.IncrementStats(ctx, winner, 1, 0, 0); err != nil {
			errs = append(errs, fmt.Errorf("increment wins for %s: %w", winner, err))
		}
		if err := r.users.IncrementStats(ctx, loser, 0, 1, 0); err != nil {
			errs = append(errs, fmt.Errorf("increment losses for %s: %w", loser, err))
		}
	}

	if r.events != nil {
		ev := comm.MatchCompleted{
			Player1:      rec.Player1,
			Player2:      rec.Player2,
			Winner:       rec.Winner,
			Player1Score: rec.Player1Score,
			Player2Score: rec.Player2Score,
			Difficulty:   rec.Difficulty,
			Mode:         rec.Mode,
			CompletedAt:  rec.CompletedAt,
		}
		if err := r.events.PublishMatchCompleted(ev); err != nil {
			// Leaderboard caches refresh on the next event; not part of the
			// durable outcome.
			log.Errorf("recorder: publish match completed: %v", err)
		}
	}

	return errors.Join(errs...)
}
