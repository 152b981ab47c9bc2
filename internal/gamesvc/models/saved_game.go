package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GameTypeSolo        = "solo"
	GameTypeMultiplayer = "multiplayer"
)

// Position is a rendered board coordinate for one number. The server never
// interprets positions; they ride along so a resumed client can restore its
// layout in keep-position mode.
type Position struct {
	Number int     `bson:"number" json:"number"`
	X      float64 `bson:"x" json:"x"`
	Y      float64 `bson:"y" json:"y"`
}

// SavedGame is a durable snapshot of a match in progress, keyed by user for
// solo games and by room id for multiplayer games. At most one non-completed
// snapshot exists per owner; writers delete prior snapshots before inserting.
type SavedGame struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	GameType string             `bson:"game_type" json:"gameType"`

	// Solo owner.
	UserID   primitive.ObjectID `bson:"user_id,omitempty" json:"-"`
	Username string             `bson:"username,omitempty" json:"username,omitempty"`

	// Multiplayer owner.
	RoomID          string        `bson:"room_id,omitempty" json:"roomId,omitempty"`
	Players         []PlayerState `bson:"players,omitempty" json:"players,omitempty"`
	CreatorUsername string        `bson:"creator_username,omitempty" json:"creatorUsername,omitempty"`

	Difficulty   string            `bson:"difficulty" json:"difficulty"`
	Mode         string            `bson:"mode" json:"mode"`
	MyColor      string            `bson:"my_color,omitempty" json:"myColor,omitempty"`
	Grid         []int             `bson:"grid" json:"grid"`
	Positions    []Position        `bson:"positions" json:"positions"`
	FoundNumbers map[string]string `bson:"found_numbers" json:"foundNumbers"`
	NextNumber   int               `bson:"next_number" json:"nextNumber"`
	TimeMs       int64             `bson:"time_ms" json:"timeMs"`
	IsDarkTheme  bool              `bson:"is_dark_theme" json:"isDarkTheme"`
	Turn         string            `bson:"turn,omitempty" json:"turn,omitempty"`

	SavedAt     time.Time `bson:"saved_at" json:"savedAt"`
	IsCompleted bool      `bson:"is_completed" json:"isCompleted"`
}
