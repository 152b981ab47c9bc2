package service

import (
	"context"
	"time"

	"github.com/numrace/game-services/internal/gamesvc/game"
	"github.com/numrace/game-services/internal/gamesvc/models"
	"github.com/numrace/game-services/internal/gamesvc/store"
	log "github.com/sirupsen/logrus"
)

const leaderboardSize = 100

// SoloService records solo finish times and serves the cached per-difficulty
// leaderboards, falling back to a live query when no cache exists yet.
type SoloService struct {
	userStore *store.UserStore
	boards    *store.LeaderboardStore
}

func NewSoloService(userStore *store.UserStore, boards *store.LeaderboardStore) *SoloService {
	return &SoloService{userStore: userStore, boards: boards}
}

// FinishResult reports the outcome of a solo finish submission.
type FinishResult struct {
	Username   string `json:"username"`
	Difficulty string `json:"difficulty"`
	BestTime   int64  `json:"bestTime"`
	Updated    bool   `json:"updated"`
}

// Finish records a completion time, keeping only personal bests, and
// refreshes the difficulty's leaderboard cache when a record changed. A
// cache refresh failure is logged, not surfaced: the submission succeeded.
func (s *SoloService) Finish(ctx context.Context, username, difficulty string, timeMs int64) (*FinishResult, error) {
	updated, err := s.userStore.SetBestTimeIfLower(ctx, username, difficulty, timeMs)
	if err != nil {
		return nil, err
	}

	if updated {
		if err := s.RefreshCache(ctx, difficulty); err != nil {
			log.Errorf("refresh solo leaderboard cache for %s: %v", difficulty, err)
		}
	}

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	best := bestTimeFor(user, difficulty)

	return &FinishResult{
		Username:   username,
		Difficulty: difficulty,
		BestTime:   best,
		Updated:    updated,
	}, nil
}

// Leaderboard returns the cached entries for a difficulty, computing them
// live when the cache is empty.
func (s *SoloService) Leaderboard(ctx context.Context, difficulty string) ([]models.SoloEntry, error) {
	cached, err := s.boards.GetSolo(ctx, difficulty)
	if err != nil {
		return nil, err
	}
	if cached != nil && len(cached.Entries) > 0 {
		return cached.Entries, nil
	}
	return s.computeEntries(ctx, difficulty)
}

// RefreshCache rebuilds one difficulty's cached leaderboard from the users
// collection.
func (s *SoloService) RefreshCache(ctx context.Context, difficulty string) error {
	entries, err := s.computeEntries(ctx, difficulty)
	if err != nil {
		return err
	}
	return s.boards.UpsertSolo(ctx, &models.SoloLeaderboard{
		Difficulty:  difficulty,
		Entries:     entries,
		LastUpdated: time.Now().UTC(),
	})
}

func (s *SoloService) computeEntries(ctx context.Context, difficulty string) ([]models.SoloEntry, error) {
	users, err := s.userStore.TopByBestTime(ctx, difficulty, leaderboardSize)
	if err != nil {
		return nil, err
	}
	entries := make([]models.SoloEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, models.SoloEntry{
			Username: u.Username,
			BestTime: bestTimeFor(u, difficulty),
			Rank:     i + 1,
		})
	}
	return entries, nil
}

func bestTimeFor(u *models.User, difficulty string) int64 {
	var t *int64
	switch difficulty {
	case game.DifficultyEasy:
		t = u.BestSoloTimeEasy
	case game.DifficultyMedium:
		t = u.BestSoloTimeMedium
	case game.DifficultyHard:
		t = u.BestSoloTimeHard
	}
	if t == nil {
		return 0
	}
	return *t
}
