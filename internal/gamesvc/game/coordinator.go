package game

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/numrace/game-services/internal/comm"
	"github.com/numrace/game-services/internal/gamesvc/models"
	log "github.com/sirupsen/logrus"
)

const (
	winDelta  = 10
	loseDelta = -10
	drawDelta = 5
)

// Coordinator receives client events, validates them against registry state,
// mutates it and broadcasts the result to room members.
//
// Every handler takes the single event mutex for its full duration, so events
// are processed one at a time to completion, matching a single-threaded event
// loop: no handler ever observes a torn intermediate state, and the terminal
// settlement of a match (compute outcome, persist, broadcast) runs as one
// sequential unit. Resume eviction timers funnel back through the same mutex.
type Coordinator struct {
	mu       sync.Mutex
	registry *Registry
	ledger   *Ledger
	recorder *Recorder
	out      Broadcaster

	resumeWindow time.Duration
	opTimeout    time.Duration
}

func NewCoordinator(registry *Registry, ledger *Ledger, recorder *Recorder, out Broadcaster) *Coordinator {
	return &Coordinator{
		registry:     registry,
		ledger:       ledger,
		recorder:     recorder,
		out:          out,
		resumeWindow: 60 * time.Second,
		opTimeout:    10 * time.Second,
	}
}

// SetResumeWindow overrides the resume eviction window.
func (c *Coordinator) SetResumeWindow(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumeWindow = d
}

// HandleCreateRoom builds a fresh single-player room in lobby state and
// broadcasts it to the creator.
func (c *Coordinator) HandleCreateRoom(socketID string, p comm.CreateRoomPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	roomID := c.newRoomId()
	coins := c.lookupBalance(p.Username)

	player := &models.PlayerState{
		ID:        socketID,
		Username:  p.Username,
		Score:     0,
		Color:     p.Color,
		IsCreator: true,
		Coins:     coins,
	}

	room := &Room{
		RoomId:       roomID,
		Players:      []*models.PlayerState{player},
		Difficulty:   p.Difficulty,
		Mode:         p.Mode,
		IsDarkTheme:  false,
		GameStarted:  false,
		Grid:         GenerateGrid(p.Difficulty),
		NextNumber:   1,
		Message:      "Your room is ready. Waiting for another player...",
		Turn:         socketID,
		FoundNumbers: map[string]string{},
	}

	c.registry.PutRoom(room)
	c.broadcastRoom(room, comm.EventRoomState)
}

// HandleJoinRoom admits a second player, or rebinds a reconnecting username
// to its new connection without adding a duplicate.
func (c *Coordinator) HandleJoinRoom(socketID string, p comm.JoinRoomPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.Room(p.RoomId)
	if !ok {
		c.sendError(socketID, ErrRoomNotFound)
		return
	}

	if existing := room.Player(p.Username); existing != nil {
		c.registry.RebindConn(room, existing, socketID)
		c.broadcastRoom(room, comm.EventRoomState)
		return
	}

	if len(room.Players) >= 2 {
		c.sendError(socketID, ErrRoomFull)
		return
	}

	player := &models.PlayerState{
		ID:        socketID,
		Username:  p.Username,
		Score:     0,
		Color:     p.Color,
		IsCreator: false,
		Coins:     c.lookupBalance(p.Username),
	}
	if _, err := c.registry.AddPlayer(p.RoomId, player); err != nil {
		c.sendError(socketID, err)
		return
	}

	room.Message = fmt.Sprintf("Player %s joined.", p.Username)
	c.broadcastRoom(room, comm.EventRoomState)
}

// HandleStartGame starts (or restarts) the caller's room with a freshly
// shuffled grid. Only the creator may trigger it.
func (c *Coordinator) HandleStartGame(socketID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.RoomByConn(socketID)
	if !ok {
		return
	}

	if creator := room.Creator(); creator != nil && creator.ID != socketID {
		c.sendError(socketID, ErrNotAuthorized)
		return
	}

	room.Grid = GenerateGrid(room.Difficulty)
	room.GameStarted = true
	room.NextNumber = 1
	room.FoundNumbers = map[string]string{}
	for _, p := range room.Players {
		p.Score = 0
	}
	room.Message = "The game has started!"
	c.broadcastRoom(room, comm.EventGameState)
}

// HandleNumberClick processes a claim. A candidate that is not the current
// expected number is silently ignored, which absorbs the losing side of a
// "number vanished" race without penalty. The claim that completes the grid
// triggers settlement.
func (c *Coordinator) HandleNumberClick(socketID string, number int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.RoomByConn(socketID)
	if !ok || !room.GameStarted {
		return
	}
	player := room.PlayerByConn(socketID)
	if player == nil {
		return
	}

	if number != room.NextNumber {
		return
	}

	room.FoundNumbers[strconv.Itoa(number)] = socketID
	room.NextNumber++
	player.Score++

	if room.NextNumber > len(room.Grid) {
		c.settle(room)
		return
	}

	c.broadcastRoom(room, comm.EventNumberFound)
}

// settle runs the terminal bookkeeping for a finished match: outcome by
// strict score comparison, ledger deltas, match record, then the game_over
// broadcast. The room transitions out of active play before the first
// persistence call so a racing claim is already a no-op. Persistence
// failures are logged and surfaced via Recorded=false; they never block the
// broadcast, because the live outcome is authoritative.
func (c *Coordinator) settle(room *Room) {
	room.GameStarted = false

	if len(room.Players) != 2 {
		log.Warnf("room %s finished with %d players, skipping settlement", room.RoomId, len(room.Players))
		room.Message = "Game over."
		room.FoundNumbers = map[string]string{}
		c.broadcastRoom(room, comm.EventGameState)
		return
	}

	p1, p2 := room.Players[0], room.Players[1]
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	coinResults := map[string]comm.CoinResult{}
	recorded := true
	var winnerName, message string

	apply := func(p *models.PlayerState, delta int) {
		res, err := c.ledger.ApplyDelta(ctx, p.Username, delta)
		if err != nil {
			log.Errorf("settlement for room %s: %v", room.RoomId, err)
			recorded = false
			return
		}
		coinResults[p.Username] = res
		p.Coins = res.NewTotal
	}

	switch {
	case p1.Score > p2.Score:
		winnerName = p1.Username
		message = fmt.Sprintf("%s wins %d-%d!", p1.Username, p1.Score, p2.Score)
		apply(p1, winDelta)
		apply(p2, loseDelta)
	case p2.Score > p1.Score:
		winnerName = p2.Username
		message = fmt.Sprintf("%s wins %d-%d!", p2.Username, p2.Score, p1.Score)
		apply(p2, winDelta)
		apply(p1, loseDelta)
	default:
		winnerName = models.WinnerDraw
		message = fmt.Sprintf("Draw %d-%d!", p1.Score, p2.Score)
		apply(p1, drawDelta)
		apply(p2, drawDelta)
	}

	if err := c.recorder.RecordMatch(ctx, room, winnerName); err != nil {
		log.Errorf("record match for room %s: %v", room.RoomId, err)
		recorded = false
	}

	room.Message = message
	room.FoundNumbers = map[string]string{}

	c.out.Broadcast(room.SocketIds(), comm.EventGameOver, comm.GameOverPayload{
		Message:     message,
		CoinResults: coinResults,
		FinalScores: map[string]int{
			p1.Username: p1.Score,
			p2.Username: p2.Score,
		},
		Recorded: recorded,
	})
}

// HandleToggleTheme flips the room theme flag.
func (c *Coordinator) HandleToggleTheme(socketID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.RoomByConn(socketID)
	if !ok {
		return
	}
	room.IsDarkTheme = !room.IsDarkTheme
	c.broadcastRoom(room, comm.EventRoomState)
	if room.GameStarted {
		c.broadcastRoom(room, comm.EventGameState)
	}
}

// HandleChangeColor updates the caller's display color.
func (c *Coordinator) HandleChangeColor(socketID, color string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.RoomByConn(socketID)
	if !ok {
		return
	}
	player := room.PlayerByConn(socketID)
	if player == nil {
		return
	}
	player.Color = color
	c.broadcastRoom(room, comm.EventRoomState)
	if room.GameStarted {
		c.broadcastRoom(room, comm.EventGameState)
	}
}

// HandleLeaveRoom removes the named player. The room is deleted once empty.
func (c *Coordinator) HandleLeaveRoom(socketID string, p comm.LeaveRoomPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.Room(p.RoomId)
	if !ok {
		return
	}
	if _, removed := c.registry.RemovePlayer(p.RoomId, p.Username); !removed {
		return
	}
	c.afterDeparture(room, "A player left. Waiting for a new player...")
}

// HandleDisconnect performs leave-equivalent cleanup when the transport drops
// a connection without an explicit leave, covering both live rooms and any
// resume session the connection was waiting in.
func (c *Coordinator) HandleDisconnect(socketID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, session := range c.registry.Sessions() {
		departed := session.PlayerByConn(socketID)
		if departed == nil {
			continue
		}
		c.dropFromSession(session, departed.Username,
			fmt.Sprintf("%s left the resume lobby.", departed.Username))
	}

	room, ok := c.registry.RoomByConn(socketID)
	if !ok {
		return
	}
	player := room.PlayerByConn(socketID)
	if player == nil {
		return
	}
	if _, removed := c.registry.RemovePlayer(room.RoomId, player.Username); !removed {
		return
	}
	c.afterDeparture(room, "A player left. Waiting for a new player...")
}

// afterDeparture applies the post-removal lifecycle: one player left means
// the room drops back to a waiting lobby with that player as creator and
// turn reference; zero players means eviction.
func (c *Coordinator) afterDeparture(room *Room, message string) {
	switch len(room.Players) {
	case 1:
		remaining := room.Players[0]
		remaining.IsCreator = true
		room.GameStarted = false
		room.Turn = remaining.ID
		room.Message = message
		c.broadcastRoom(room, comm.EventRoomState)
	case 0:
		c.registry.DeleteRoom(room.RoomId)
		log.Infof("room %s deleted", room.RoomId)
	}
}

// lookupBalance fetches the caller's coin balance for display. A persistence
// failure here must not block room membership, so it degrades to the
// starting stipend.
func (c *Coordinator) lookupBalance(username string) int {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	coins, err := c.ledger.Balance(ctx, username)
	if err != nil {
		log.Warnf("balance lookup for %s failed, assuming stipend: %v", username, err)
		return models.StartingCoins
	}
	return coins
}

func (c *Coordinator) newRoomId() string {
	for {
		id := uuid.NewString()[:6]
		if !c.registry.HasRoom(id) {
			return id
		}
	}
}

func (c *Coordinator) broadcastRoom(room *Room, event string) {
	c.out.Broadcast(room.SocketIds(), event, room)
}

func (c *Coordinator) sendError(socketID string, err error) {
	c.out.Send(socketID, comm.EventError, comm.ErrorPayload{Message: err.Error()})
}
