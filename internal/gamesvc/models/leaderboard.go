package models

import "time"

// SoloEntry is one row of a cached solo leaderboard.
type SoloEntry struct {
	Username string `bson:"username" json:"username"`
	BestTime int64  `bson:"best_time" json:"bestTime"`
	Rank     int    `bson:"rank" json:"rank"`
}

// SoloLeaderboard caches the top solo times for one difficulty so reads do
// not scan the users collection.
type SoloLeaderboard struct {
	Difficulty  string      `bson:"difficulty" json:"difficulty"`
	Entries     []SoloEntry `bson:"entries" json:"entries"`
	LastUpdated time.Time   `bson:"last_updated" json:"lastUpdated"`
}

// PairStanding summarizes all matches played between one pair of usernames.
// Player1/Player2 are in lexicographic order so A-vs-B and B-vs-A collapse.
type PairStanding struct {
	Player1      string `bson:"player1" json:"player1"`
	Player2      string `bson:"player2" json:"player2"`
	Player1Wins  int    `bson:"player1_wins" json:"player1Wins"`
	Player2Wins  int    `bson:"player2_wins" json:"player2Wins"`
	Draws        int    `bson:"draws" json:"draws"`
	TotalMatches int    `bson:"total_matches" json:"totalMatches"`
}

// MultiplayerLeaderboard caches the most played pairs, refreshed by the
// streak service whenever a match completes.
type MultiplayerLeaderboard struct {
	Pairs       []PairStanding `bson:"pairs" json:"pairs"`
	LastUpdated time.Time      `bson:"last_updated" json:"lastUpdated"`
}

// SoloStreak tracks how long one user has held the top solo time for a
// difficulty; seven consecutive days earns a coin award.
type SoloStreak struct {
	Difficulty      string     `bson:"difficulty" json:"difficulty"`
	CurrentTop1     string     `bson:"current_top1" json:"currentTop1"`
	StreakDays      int        `bson:"streak_days" json:"streakDays"`
	LastCheckDate   *time.Time `bson:"last_check_date" json:"lastCheckDate"`
	LastAwardedDate *time.Time `bson:"last_awarded_date" json:"lastAwardedDate"`
}
