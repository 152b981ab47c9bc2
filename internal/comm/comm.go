package comm

import (
	"encoding/json"
	"time"

	"github.com/numrace/game-services/internal/gamesvc/models"
)

// WSMessage is the envelope for every websocket frame in both directions.
type WSMessage struct {
	Type     string          `json:"type"` // e.g. "create_room", "number_click"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

// Inbound event types.
const (
	EventCreateRoom  = "create_room"
	EventJoinRoom    = "join_room"
	EventStartGame   = "start_game"
	EventNumberClick = "number_click"
	EventToggleTheme = "toggle_theme"
	EventChangeColor = "change_color"
	EventLeaveRoom   = "leave_room"
	EventResumeRoom  = "resume_room"
	EventStartResume = "start_resume_game"
)

// Outbound event types.
const (
	EventRoomState        = "room_state"
	EventGameState        = "game_state"
	EventNumberFound      = "number_found"
	EventGameOver         = "game_over"
	EventError            = "error"
	EventResumeWaiting    = "resume_waiting"
	EventResumeReady      = "resume_ready"
	EventResumeTimeout    = "resume_timeout"
	EventResumePlayerLeft = "resume_player_left"
)

type CreateRoomPayload struct {
	Username   string `json:"username"`
	Difficulty string `json:"difficulty"`
	Mode       string `json:"mode"`
	Color      string `json:"color"`
}

type JoinRoomPayload struct {
	RoomId   string `json:"roomId"`
	Username string `json:"username"`
	Color    string `json:"color"`
}

type NumberClickPayload struct {
	Number int `json:"number"`
}

type ChangeColorPayload struct {
	Color string `json:"color"`
}

type LeaveRoomPayload struct {
	RoomId   string `json:"roomId"`
	Username string `json:"username"`
}

type ResumeRoomPayload struct {
	RoomId   string `json:"roomId"`
	Username string `json:"username"`
	Color    string `json:"color"`
}

type StartResumePayload struct {
	RoomId         string           `json:"roomId"`
	SavedGameState models.SavedGame `json:"savedGameState"`
}

// CoinResult reports one participant's settlement outcome. Reset is true
// when the balance would have gone non-positive and was floored back to the
// starting stipend, so the client can explain the floor instead of showing a
// positive-looking total after a loss.
type CoinResult struct {
	Username string `json:"username"`
	Change   int    `json:"change"`
	NewTotal int    `json:"newTotal"`
	Reset    bool   `json:"reset"`
}

type GameOverPayload struct {
	Message     string                `json:"message"`
	CoinResults map[string]CoinResult `json:"coinResults"`
	FinalScores map[string]int        `json:"finalScores"`
	// Recorded is false when the durable bookkeeping (ledger writes, match
	// record) did not fully persist; the live outcome is still authoritative.
	Recorded bool `json:"recorded"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type ResumeWaitingPayload struct {
	RoomId       string   `json:"roomId"`
	ReadyPlayers []string `json:"readyPlayers"`
	TotalNeeded  int      `json:"totalNeeded"`
	Message      string   `json:"message"`
}

type ResumeReadyPayload struct {
	RoomId       string               `json:"roomId"`
	Players      []models.PlayerState `json:"players"`
	ReadyPlayers []string             `json:"readyPlayers"`
	Message      string               `json:"message"`
}

type ResumeTimeoutPayload struct {
	Message string `json:"message"`
}

type ResumePlayerLeftPayload struct {
	Message      string   `json:"message"`
	ReadyPlayers []string `json:"readyPlayers"`
}

// MatchCompleted is published to NATS after a match settles so background
// consumers can refresh leaderboard caches without touching room state.
type MatchCompleted struct {
	Player1      string    `json:"player1"`
	Player2      string    `json:"player2"`
	Winner       string    `json:"winner"`
	Player1Score int       `json:"player1Score"`
	Player2Score int       `json:"player2Score"`
	Difficulty   string    `json:"difficulty"`
	Mode         string    `json:"mode"`
	CompletedAt  time.Time `json:"completedAt"`
}

// TopicMatchCompleted is the NATS subject carrying MatchCompleted events.
const TopicMatchCompleted = "game.match.completed"
