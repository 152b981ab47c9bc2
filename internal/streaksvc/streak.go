package streaksvc

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/numrace/game-services/internal/gamesvc/game"
	"github.com/numrace/game-services/internal/gamesvc/models"
)

const (
	streakAwardCoins    = 50
	streakDaysForAward  = 7
	dailyCheckOpTimeout = 30 * time.Second
)

var streakDifficulties = []string{game.DifficultyEasy, game.DifficultyMedium, game.DifficultyHard}

// UserStore is the slice of the user store the sweep consumes.
type UserStore interface {
	TopByBestTime(ctx context.Context, difficulty string, limit int) ([]*models.User, error)
	IncCoins(ctx context.Context, username string, delta int) error
}

// StreakStore persists per-difficulty streak state between daily sweeps.
type StreakStore interface {
	GetStreak(ctx context.Context, difficulty string) (*models.SoloStreak, error)
	SaveStreak(ctx context.Context, streak *models.SoloStreak) error
}

// Checker runs the daily solo-streak sweep: a user who holds the top solo
// time for one difficulty across seven consecutive daily checks earns a coin
// award, once per streak.
type Checker struct {
	users  UserStore
	boards StreakStore
	now    func() time.Time
}

func NewChecker(users UserStore, boards StreakStore) *Checker {
	return &Checker{users: users, boards: boards, now: time.Now}
}

// Run fires the sweep once at startup to catch up after downtime, then at
// every UTC midnight until the context is cancelled.
func (c *Checker) Run(ctx context.Context) {
	c.sweep(ctx)

	for {
		next := nextMidnight(c.now().UTC())
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
			log.Info("running daily streak check")
			c.sweep(ctx)
		}
	}
}

func (c *Checker) sweep(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, dailyCheckOpTimeout)
	defer cancel()

	for _, diff := range streakDifficulties {
		if err := c.checkDifficulty(cctx, diff); err != nil {
			log.Errorf("streak check failed for %s: %v", diff, err)
		}
	}
}

// checkDifficulty is idempotent within one day: a repeat run after the daily
// stamp was written is a no-op.
func (c *Checker) checkDifficulty(ctx context.Context, difficulty string) error {
	top, err := c.users.TopByBestTime(ctx, difficulty, 1)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		return nil
	}
	leader := top[0]

	streak, err := c.boards.GetStreak(ctx, difficulty)
	if err != nil {
		return err
	}

	today := startOfDay(c.now().UTC())
	if streak.LastCheckDate != nil && !streak.LastCheckDate.Before(today) {
		return nil
	}

	if streak.CurrentTop1 == leader.Username {
		streak.StreakDays++

		if streak.StreakDays == streakDaysForAward &&
			(streak.LastAwardedDate == nil || streak.LastAwardedDate.Before(today)) {
			if err := c.users.IncCoins(ctx, leader.Username, streakAwardCoins); err != nil {
				return err
			}
			awarded := today
			streak.LastAwardedDate = &awarded
			log.Infof("awarded %d coins to %s for %d-day %s streak", streakAwardCoins, leader.Username, streakDaysForAward, difficulty)
		}
	} else {
		// a new leader restarts the count
		streak.CurrentTop1 = leader.Username
		streak.StreakDays = 1
		streak.LastAwardedDate = nil
	}

	checked := today
	streak.LastCheckDate = &checked
	streak.Difficulty = difficulty
	return c.boards.SaveStreak(ctx, streak)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nextMidnight(t time.Time) time.Time {
	return startOfDay(t).Add(24 * time.Hour)
}
