package service

import (
	"context"
	"sort"

	"github.com/numrace/game-services/internal/gamesvc/models"
	"github.com/numrace/game-services/internal/gamesvc/store"
)

const (
	pairLeaderboardSize = 50
	recentMatchWindow   = 5000
)

// MultiplayerService serves head-to-head stats and the pair-standings
// leaderboard over the match history.
type MultiplayerService struct {
	matchStore *store.MatchStore
	boards     *store.LeaderboardStore
}

func NewMultiplayerService(matchStore *store.MatchStore, boards *store.LeaderboardStore) *MultiplayerService {
	return &MultiplayerService{matchStore: matchStore, boards: boards}
}

// HeadToHead aggregates all matches between the two usernames.
func (s *MultiplayerService) HeadToHead(ctx context.Context, player1, player2 string) (*models.HeadToHead, error) {
	matches, err := s.matchStore.QueryByPair(ctx, player1, player2)
	if err != nil {
		return nil, err
	}

	h2h := &models.HeadToHead{Player1: player1, Player2: player2, TotalMatches: len(matches)}
	for _, m := range matches {
		switch m.Winner {
		case models.WinnerDraw:
			h2h.Draws++
		case player1:
			h2h.Player1Wins++
		case player2:
			h2h.Player2Wins++
		}
	}
	return h2h, nil
}

// Leaderboard returns the cached pair standings, computing them live when
// no cache has been built yet.
func (s *MultiplayerService) Leaderboard(ctx context.Context) ([]models.PairStanding, error) {
	cached, err := s.boards.GetMultiplayer(ctx)
	if err != nil {
		return nil, err
	}
	if cached != nil && len(cached.Pairs) > 0 {
		return cached.Pairs, nil
	}
	return s.ComputePairs(ctx)
}

// ComputePairs builds the most-played-pairs standings from recent history.
// Pairs are keyed with usernames in lexicographic order so both seat orders
// collapse into one row.
func (s *MultiplayerService) ComputePairs(ctx context.Context) ([]models.PairStanding, error) {
	matches, err := s.matchStore.QueryRecent(ctx, recentMatchWindow)
	if err != nil {
		return nil, err
	}

	pairMap := map[[2]string]*models.PairStanding{}
	for _, m := range matches {
		a, b := m.Player1, m.Player2
		if a > b {
			a, b = b, a
		}
		key := [2]string{a, b}
		standing, ok := pairMap[key]
		if !ok {
			standing = &models.PairStanding{Player1: a, Player2: b}
			pairMap[key] = standing
		}
		standing.TotalMatches++
		switch m.Winner {
		case models.WinnerDraw:
			standing.Draws++
		case a:
			standing.Player1Wins++
		case b:
			standing.Player2Wins++
		}
	}

	pairs := make([]models.PairStanding, 0, len(pairMap))
	for _, standing := range pairMap {
		pairs = append(pairs, *standing)
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].TotalMatches > pairs[j].TotalMatches
	})
	if len(pairs) > pairLeaderboardSize {
		pairs = pairs[:pairLeaderboardSize]
	}
	return pairs, nil
}
