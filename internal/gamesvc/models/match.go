package models

import "time"

// WinnerDraw is the sentinel stored in a match record when neither player won.
const WinnerDraw = "draw"

// MatchRecord is one completed multiplayer match, append-only.
type MatchRecord struct {
	ID           int64     `json:"id"`
	Player1      string    `json:"player1"`
	Player2      string    `json:"player2"`
	Winner       string    `json:"winner"` // username or WinnerDraw
	Player1Score int       `json:"player1Score"`
	Player2Score int       `json:"player2Score"`
	Difficulty   string    `json:"difficulty"`
	Mode         string    `json:"mode"`
	CompletedAt  time.Time `json:"completedAt"`
}

// HeadToHead aggregates the match history between two usernames.
type HeadToHead struct {
	Player1      string `json:"player1"`
	Player2      string `json:"player2"`
	Player1Wins  int    `json:"player1Wins"`
	Player2Wins  int    `json:"player2Wins"`
	Draws        int    `json:"draws"`
	TotalMatches int    `json:"totalMatches"`
}
