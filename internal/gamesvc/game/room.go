package game

import (
	"time"

	"github.com/numrace/game-services/internal/gamesvc/models"
)

// Room is one live 1v1 match instance. It is broadcast wholesale as the
// room_state / game_state payload, hence the json tags. FoundNumbers keys
// are the claimed numbers as decimal strings, values the claiming player's
// connection id.
type Room struct {
	RoomId       string                `json:"roomId"`
	Players      []*models.PlayerState `json:"players"`
	Difficulty   string                `json:"difficulty"`
	Mode         string                `json:"mode"`
	IsDarkTheme  bool                  `json:"isDarkTheme"`
	GameStarted  bool                  `json:"gameStarted"`
	Grid         []int                 `json:"grid"`
	NextNumber   int                   `json:"nextNumber"`
	Message      string                `json:"message"`
	Turn         string                `json:"turn"`
	FoundNumbers map[string]string     `json:"foundNumbers"`
}

// Player returns the member with the given username, or nil.
func (r *Room) Player(username string) *models.PlayerState {
	for _, p := range r.Players {
		if p.Username == username {
			return p
		}
	}
	return nil
}

// PlayerByConn returns the member bound to the given connection id, or nil.
func (r *Room) PlayerByConn(connID string) *models.PlayerState {
	for _, p := range r.Players {
		if p.ID == connID {
			return p
		}
	}
	return nil
}

// Creator returns the member holding the creator flag, or nil.
func (r *Room) Creator() *models.PlayerState {
	for _, p := range r.Players {
		if p.IsCreator {
			return p
		}
	}
	return nil
}

// SocketIds returns the connection ids of all members, the broadcast target
// set for room-scoped events.
func (r *Room) SocketIds() []string {
	ids := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

// ResumeSession is the transient pre-match state for players reconnecting to
// a persisted match. It lives between the first resume attempt and either
// promotion into a live Room or the eviction timer firing.
type ResumeSession struct {
	RoomId       string
	Players      []*models.PlayerState
	ReadyPlayers []string

	// Eviction timer, armed while readiness is below two. Managed solely by
	// the coordinator under its event lock.
	timer *time.Timer
}

// Player returns the session participant with the given username, or nil.
func (s *ResumeSession) Player(username string) *models.PlayerState {
	for _, p := range s.Players {
		if p.Username == username {
			return p
		}
	}
	return nil
}

// PlayerByConn returns the participant bound to the given connection id, or nil.
func (s *ResumeSession) PlayerByConn(connID string) *models.PlayerState {
	for _, p := range s.Players {
		if p.ID == connID {
			return p
		}
	}
	return nil
}

// IsReady reports whether the username has signaled readiness.
func (s *ResumeSession) IsReady(username string) bool {
	for _, u := range s.ReadyPlayers {
		if u == username {
			return true
		}
	}
	return false
}

// SocketIds returns the connection ids of all session participants.
func (s *ResumeSession) SocketIds() []string {
	ids := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

// PlayerStates returns value copies of the participants for broadcast payloads.
func (s *ResumeSession) PlayerStates() []models.PlayerState {
	out := make([]models.PlayerState, 0, len(s.Players))
	for _, p := range s.Players {
		out = append(out, *p)
	}
	return out
}
