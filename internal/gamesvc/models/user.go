package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// StartingCoins is the stipend a fresh account begins with and the value a
// non-positive balance resets to after a losing settlement.
const StartingCoins = 50

// User represents one account in the users collection.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"`
	Coins    int                `bson:"coins" json:"coins"`

	// Best solo completion times in milliseconds, nil until the first finish.
	BestSoloTimeEasy   *int64 `bson:"best_solo_time_easy" json:"bestSoloTimeEasy"`
	BestSoloTimeMedium *int64 `bson:"best_solo_time_medium" json:"bestSoloTimeMedium"`
	BestSoloTimeHard   *int64 `bson:"best_solo_time_hard" json:"bestSoloTimeHard"`

	TotalWins   int `bson:"total_wins" json:"totalWins"`
	TotalLosses int `bson:"total_losses" json:"totalLosses"`
	TotalDraws  int `bson:"total_draws" json:"totalDraws"`
}
