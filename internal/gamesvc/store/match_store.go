package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/numrace/game-services/internal/gamesvc/models"
)

// MatchStore is the append-only match history, kept in Postgres for the
// head-to-head and pair-standing queries.
type MatchStore struct {
	db *pgxpool.Pool
}

func NewMatchStore(db *pgxpool.Pool) *MatchStore {
	return &MatchStore{db: db}
}

func (s *MatchStore) Insert(ctx context.Context, rec *models.MatchRecord) error {
	query := `
        INSERT INTO match_history
            (player1, player2, winner, player1_score, player2_score, difficulty, mode, completed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id;
    `
	err := s.db.QueryRow(ctx, query,
		rec.Player1, rec.Player2, rec.Winner,
		rec.Player1Score, rec.Player2Score,
		rec.Difficulty, rec.Mode, rec.CompletedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("could not insert match record: %w", err)
	}
	return nil
}

// QueryByPair returns every match played between the two usernames, in
// either seat order, newest first.
func (s *MatchStore) QueryByPair(ctx context.Context, player1, player2 string) ([]*models.MatchRecord, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, player1, player2, winner, player1_score, player2_score, difficulty, mode, completed_at
        FROM match_history
        WHERE (player1 = $1 AND player2 = $2) OR (player1 = $2 AND player2 = $1)
        ORDER BY completed_at DESC
    `, player1, player2)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows.Next, rows.Scan, rows.Err)
}

// QueryRecent returns the most recent matches across all pairs, used to
// rebuild the pair-standings leaderboard cache.
func (s *MatchStore) QueryRecent(ctx context.Context, limit int) ([]*models.MatchRecord, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, player1, player2, winner, player1_score, player2_score, difficulty, mode, completed_at
        FROM match_history
        ORDER BY completed_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows.Next, rows.Scan, rows.Err)
}

func scanRecords(next func() bool, scan func(...any) error, rowsErr func() error) ([]*models.MatchRecord, error) {
	var records []*models.MatchRecord
	for next() {
		rec := &models.MatchRecord{}
		err := scan(
			&rec.ID, &rec.Player1, &rec.Player2, &rec.Winner,
			&rec.Player1Score, &rec.Player2Score,
			&rec.Difficulty, &rec.Mode, &rec.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rowsErr()
}
