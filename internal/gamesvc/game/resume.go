package game

import (
	"fmt"
	"time"

	"github.com/numrace/game-services/internal/comm"
	"github.com/numrace/game-services/internal/gamesvc/models"
	log "github.com/sirupsen/logrus"
)

// Resume reconciliation bridges persisted saved games and live room state:
// both players of an interrupted match reconnect independently, gather in a
// transient ResumeSession, and the creator promotes the persisted snapshot
// into a live Active room. A session that never reaches two ready players
// within the eviction window is discarded.

const resumePlayersNeeded = 2

// HandleResumeRoom registers a reconnecting player's intent to resume. The
// first intent for a room id creates the session and arms the eviction
// timer; the window is measured from that first attempt and is not reset by
// repeat calls, only re-armed if readiness later drops below two.
func (c *Coordinator) HandleResumeRoom(socketID string, p comm.ResumeRoomPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.registry.Session(p.RoomId)
	if !ok {
		session = &ResumeSession{RoomId: p.RoomId}
		c.registry.PutSession(session)
	}

	if existing := session.Player(p.Username); existing != nil {
		existing.ID = socketID
		existing.Color = p.Color
	} else {
		session.Players = append(session.Players, &models.PlayerState{
			ID:       socketID,
			Username: p.Username,
			Color:    p.Color,
		})
	}
	if !session.IsReady(p.Username) {
		session.ReadyPlayers = append(session.ReadyPlayers, p.Username)
	}

	c.out.Broadcast(session.SocketIds(), comm.EventResumeWaiting, comm.ResumeWaitingPayload{
		RoomId:       session.RoomId,
		ReadyPlayers: session.ReadyPlayers,
		TotalNeeded:  resumePlayersNeeded,
		Message:      fmt.Sprintf("Waiting for players... (%d/%d)", len(session.ReadyPlayers), resumePlayersNeeded),
	})

	if len(session.ReadyPlayers) >= resumePlayersNeeded {
		c.stopSessionTimer(session)
		c.out.Broadcast(session.SocketIds(), comm.EventResumeReady, comm.ResumeReadyPayload{
			RoomId:       session.RoomId,
			Players:      session.PlayerStates(),
			ReadyPlayers: session.ReadyPlayers,
			Message:      "Both players are ready! The room creator can start.",
		})
		return
	}

	if session.timer == nil {
		roomID := session.RoomId
		session.timer = time.AfterFunc(c.resumeWindow, func() {
			c.expireSession(roomID, session)
		})
	}
}

// HandleStartResumeGame promotes a ready session into a live Active room
// built from the persisted snapshot the caller fetched: grid, nextNumber,
// found numbers, turn pointer and theme carry over verbatim, while each
// player's coin balance is refreshed from the ledger and their connection id
// and color are re-bound from the session.
func (c *Coordinator) HandleStartResumeGame(socketID string, p comm.StartResumePayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.registry.Session(p.RoomId)
	if !ok || len(session.ReadyPlayers) < resumePlayersNeeded {
		c.sendError(socketID, ErrNotEnoughPlayers)
		return
	}

	saved := p.SavedGameState
	if saved.CreatorUsername != "" {
		caller := session.PlayerByConn(socketID)
		if caller == nil || caller.Username != saved.CreatorUsername {
			c.sendError(socketID, ErrNotAuthorized)
			return
		}
	}

	players := make([]*models.PlayerState, 0, len(saved.Players))
	for _, sp := range saved.Players {
		player := sp
		player.Coins = c.lookupBalance(player.Username)
		if sessionPlayer := session.Player(player.Username); sessionPlayer != nil {
			player.ID = sessionPlayer.ID
			player.Color = sessionPlayer.Color
		}
		players = append(players, &player)
	}

	found := saved.FoundNumbers
	if found == nil {
		found = map[string]string{}
	}

	room := &Room{
		RoomId:       p.RoomId,
		Players:      players,
		Difficulty:   saved.Difficulty,
		Mode:         saved.Mode,
		IsDarkTheme:  saved.IsDarkTheme,
		GameStarted:  true,
		Grid:         saved.Grid,
		NextNumber:   saved.NextNumber,
		Message:      "Resuming saved game!",
		Turn:         saved.Turn,
		FoundNumbers: found,
	}

	c.stopSessionTimer(session)
	c.registry.DeleteSession(p.RoomId)
	c.registry.PutRoom(room)
	c.broadcastRoom(room, comm.EventGameState)
}

// expireSession fires when the eviction window lapses with fewer than two
// ready players. It is idempotent against stale fires: the session must
// still be the one registered under the room id.
func (c *Coordinator) expireSession(roomID string, session *ResumeSession) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.registry.Session(roomID)
	if !ok || current != session {
		return
	}

	c.out.Broadcast(session.SocketIds(), comm.EventResumeTimeout, comm.ResumeTimeoutPayload{
		Message: "Resume window expired. The other player did not join.",
	})
	c.registry.DeleteSession(roomID)
	log.Infof("resume session %s timed out", roomID)
}

// dropFromSession removes a departed username from the player list and
// readiness set, rebroadcasts the remaining readiness, and discards the
// session once empty. Callers hold the event mutex.
func (c *Coordinator) dropFromSession(session *ResumeSession, username, message string) {
	for i, p := range session.Players {
		if p.Username == username {
			session.Players = append(session.Players[:i], session.Players[i+1:]...)
			break
		}
	}
	ready := session.ReadyPlayers[:0]
	for _, u := range session.ReadyPlayers {
		if u != username {
			ready = append(ready, u)
		}
	}
	session.ReadyPlayers = ready

	c.out.Broadcast(session.SocketIds(), comm.EventResumePlayerLeft, comm.ResumePlayerLeftPayload{
		Message:      message,
		ReadyPlayers: session.ReadyPlayers,
	})

	if len(session.Players) == 0 {
		c.stopSessionTimer(session)
		c.registry.DeleteSession(session.RoomId)
	}
}

func (c *Coordinator) stopSessionTimer(session *ResumeSession) {
	if session.timer != nil {
		session.timer.Stop()
		session.timer = nil
	}
}
