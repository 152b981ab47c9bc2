package game

import (
	"testing"

	"github.com/numrace/game-services/internal/comm"
	"github.com/numrace/game-services/internal/gamesvc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRoom(c *Coordinator, registry *Registry, socketID, username string) *Room {
	c.HandleCreateRoom(socketID, comm.CreateRoomPayload{
		Username:   username,
		Difficulty: DifficultyEasy,
		Mode:       ModeShuffle,
		Color:      "#ff0000",
	})
	return onlyRoom(registry)
}

func TestCreateRoom(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100})
	c, registry, out, _ := newTestCoordinator(users)

	room := createRoom(c, registry, "sock-a", "alice")
	require.NotNil(t, room)

	assert.Len(t, room.RoomId, 6)
	assert.False(t, room.GameStarted)
	assert.Equal(t, 1, room.NextNumber)
	assert.Len(t, room.Grid, 50)
	require.Len(t, room.Players, 1)
	assert.True(t, room.Players[0].IsCreator)
	assert.Equal(t, 100, room.Players[0].Coins)
	assert.Equal(t, "sock-a", room.Turn)

	ev, ok := out.last(comm.EventRoomState)
	require.True(t, ok)
	assert.Equal(t, []string{"sock-a"}, ev.sockets)
}

func TestCreateRoomBalanceLookupDegrades(t *testing.T) {
	users := newFakeUserStore(nil)
	users.failGet = true
	c, registry, _, _ := newTestCoordinator(users)

	room := createRoom(c, registry, "sock-a", "alice")
	require.NotNil(t, room)
	assert.Equal(t, models.StartingCoins, room.Players[0].Coins)
}

func TestJoinRoom(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, out, _ := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")

	c.HandleJoinRoom("sock-b", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "bob", Color: "#00ff00"})

	require.Len(t, room.Players, 2)
	assert.False(t, room.Players[1].IsCreator)
	assert.Equal(t, "Player bob joined.", room.Message)

	ev, ok := out.last(comm.EventRoomState)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"sock-a", "sock-b"}, ev.sockets)
}

func TestJoinRoomNotFound(t *testing.T) {
	users := newFakeUserStore(map[string]int{"bob": 50})
	c, _, out, _ := newTestCoordinator(users)

	c.HandleJoinRoom("sock-b", comm.JoinRoomPayload{RoomId: "nope42", Username: "bob"})

	ev, ok := out.last(comm.EventError)
	require.True(t, ok)
	assert.Equal(t, []string{"sock-b"}, ev.sockets)
	assert.Equal(t, ErrRoomNotFound.Error(), ev.payload.(comm.ErrorPayload).Message)
}

func TestJoinRoomFull(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50, "carol": 50})
	c, registry, out, _ := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")
	c.HandleJoinRoom("sock-b", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "bob"})

	c.HandleJoinRoom("sock-c", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "carol"})

	ev, ok := out.last(comm.EventError)
	require.True(t, ok)
	assert.Equal(t, []string{"sock-c"}, ev.sockets)
	assert.Equal(t, ErrRoomFull.Error(), ev.payload.(comm.ErrorPayload).Message)
	assert.Len(t, room.Players, 2)
}

func TestJoinRoomReconnectIsIdempotent(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, _, _ := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")
	c.HandleJoinRoom("sock-b", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "bob"})

	// A full room still admits a known username on a new connection.
	c.HandleJoinRoom("sock-b2", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "bob"})

	require.Len(t, room.Players, 2)
	assert.Equal(t, "sock-b2", room.Player("bob").ID)
}

func TestStartGameOnlyCreator(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, out, _ := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")
	c.HandleJoinRoom("sock-b", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "bob"})

	c.HandleStartGame("sock-b")
	assert.False(t, room.GameStarted)
	ev, ok := out.last(comm.EventError)
	require.True(t, ok)
	assert.Equal(t, ErrNotAuthorized.Error(), ev.payload.(comm.ErrorPayload).Message)

	c.HandleStartGame("sock-a")
	assert.True(t, room.GameStarted)
	assert.Equal(t, 1, room.NextNumber)
	assert.Empty(t, room.FoundNumbers)
}

func TestStartGameRegeneratesGrid(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100})
	c, registry, _, _ := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")
	initial := append([]int(nil), room.Grid...)

	c.HandleStartGame("sock-a")
	assert.NotEqual(t, initial, room.Grid)
	assert.Len(t, room.Grid, 50)
}

func TestNumberClickStaleIsNoOp(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, out, _ := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")
	c.HandleJoinRoom("sock-b", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "bob"})
	c.HandleStartGame("sock-a")

	c.HandleNumberClick("sock-a", 1)
	require.Equal(t, 2, room.NextNumber)
	require.Equal(t, 1, room.Player("alice").Score)

	// Second, stale click on the same number: state changes exactly once.
	c.HandleNumberClick("sock-b", 1)
	assert.Equal(t, 2, room.NextNumber)
	assert.Equal(t, 1, room.Player("alice").Score)
	assert.Equal(t, 0, room.Player("bob").Score)
	assert.Equal(t, 1, out.count(comm.EventNumberFound))

	// Out-of-order click is ignored too.
	c.HandleNumberClick("sock-b", 7)
	assert.Equal(t, 2, room.NextNumber)
}

func TestNumberClickRecordsClaimant(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100})
	c, registry, _, _ := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")
	c.HandleStartGame("sock-a")

	c.HandleNumberClick("sock-a", 1)
	assert.Equal(t, "sock-a", room.FoundNumbers["1"])
}

func TestFullMatch(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, out, matches := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")
	c.HandleJoinRoom("sock-b", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "bob"})
	c.HandleStartGame("sock-a")

	// Alice claims the odd numbers 1..49 plus the final 50: 26 vs 24.
	for n := 1; n <= 49; n++ {
		if n%2 == 1 {
			c.HandleNumberClick("sock-a", n)
		} else {
			c.HandleNumberClick("sock-b", n)
		}
	}
	c.HandleNumberClick("sock-a", 50)

	assert.False(t, room.GameStarted)
	assert.Empty(t, room.FoundNumbers)

	ev, ok := out.last(comm.EventGameOver)
	require.True(t, ok)
	payload := ev.payload.(comm.GameOverPayload)
	assert.True(t, payload.Recorded)
	assert.Equal(t, "alice wins 26-24!", payload.Message)
	assert.Equal(t, map[string]int{"alice": 26, "bob": 24}, payload.FinalScores)

	require.Contains(t, payload.CoinResults, "alice")
	require.Contains(t, payload.CoinResults, "bob")
	assert.Equal(t, comm.CoinResult{Username: "alice", Change: 10, NewTotal: 110}, payload.CoinResults["alice"])
	assert.Equal(t, comm.CoinResult{Username: "bob", Change: -10, NewTotal: 40}, payload.CoinResults["bob"])
	assert.Equal(t, 110, users.coins("alice"))
	assert.Equal(t, 40, users.coins("bob"))
	assert.Equal(t, 110, room.Player("alice").Coins)

	wins, losses, draws := users.stats("alice")
	assert.Equal(t, [3]int{1, 0, 0}, [3]int{wins, losses, draws})
	wins, losses, draws = users.stats("bob")
	assert.Equal(t, [3]int{0, 1, 0}, [3]int{wins, losses, draws})

	records := matches.all()
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].Winner)
	assert.Equal(t, 26, records[0].Player1Score)
	assert.Equal(t, 24, records[0].Player2Score)

	// The room survives in finished state; the creator can start a rematch.
	_, ok = registry.Room(room.RoomId)
	require.True(t, ok)
	c.HandleStartGame("sock-a")
	assert.True(t, room.GameStarted)
	assert.Equal(t, 0, room.Player("alice").Score)
}

func TestDrawPaysBothPlayers(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, out, matches := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")
	c.HandleJoinRoom("sock-b", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "bob"})
	c.HandleStartGame("sock-a")

	for n := 1; n <= 50; n++ {
		if n%2 == 1 {
			c.HandleNumberClick("sock-a", n)
		} else {
			c.HandleNumberClick("sock-b", n)
		}
	}

	ev, ok := out.last(comm.EventGameOver)
	require.True(t, ok)
	payload := ev.payload.(comm.GameOverPayload)
	assert.Equal(t, "Draw 25-25!", payload.Message)
	assert.Equal(t, 105, users.coins("alice"))
	assert.Equal(t, 55, users.coins("bob"))

	records := matches.all()
	require.Len(t, records, 1)
	assert.Equal(t, models.WinnerDraw, records[0].Winner)

	_, _, draws := users.stats("alice")
	assert.Equal(t, 1, draws)
}

func TestLoserFloorResetReported(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 5})
	c, registry, out, _ := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")
	c.HandleJoinRoom("sock-b", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "bob"})
	c.HandleStartGame("sock-a")

	// Alice sweeps the board.
	for n := 1; n <= 50; n++ {
		c.HandleNumberClick("sock-a", n)
	}

	ev, ok := out.last(comm.EventGameOver)
	require.True(t, ok)
	payload := ev.payload.(comm.GameOverPayload)
	res := payload.CoinResults["bob"]
	assert.True(t, res.Reset)
	assert.Equal(t, -10, res.Change)
	assert.Equal(t, models.StartingCoins, res.NewTotal)
	assert.Equal(t, models.StartingCoins, users.coins("bob"))
}

func TestSettlementFailureStillBroadcasts(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, out, matches := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")
	c.HandleJoinRoom("sock-b", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "bob"})
	c.HandleStartGame("sock-a")

	matches.fail = true
	for n := 1; n <= 50; n++ {
		c.HandleNumberClick("sock-a", n)
	}

	ev, ok := out.last(comm.EventGameOver)
	require.True(t, ok)
	assert.False(t, ev.payload.(comm.GameOverPayload).Recorded)
}

func TestToggleThemeAndChangeColor(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100})
	c, registry, out, _ := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")

	c.HandleToggleTheme("sock-a")
	assert.True(t, room.IsDarkTheme)

	c.HandleChangeColor("sock-a", "#123456")
	assert.Equal(t, "#123456", room.Players[0].Color)

	// Cosmetic events on an active game echo game_state as well.
	c.HandleStartGame("sock-a")
	before := out.count(comm.EventGameState)
	c.HandleToggleTheme("sock-a")
	assert.Equal(t, before+1, out.count(comm.EventGameState))
}

func TestLeaveRoom(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, _, _ := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")
	c.HandleJoinRoom("sock-b", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "bob"})
	c.HandleStartGame("sock-a")

	c.HandleLeaveRoom("sock-a", comm.LeaveRoomPayload{RoomId: room.RoomId, Username: "alice"})

	require.Len(t, room.Players, 1)
	assert.False(t, room.GameStarted)
	assert.Equal(t, "sock-b", room.Turn)
	// The remaining player inherits the creator flag so the room stays
	// startable.
	assert.True(t, room.Player("bob").IsCreator)

	c.HandleLeaveRoom("sock-b", comm.LeaveRoomPayload{RoomId: room.RoomId, Username: "bob"})
	_, ok := registry.Room(room.RoomId)
	assert.False(t, ok)
}

func TestDisconnectCleansRoom(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, _, _ := newTestCoordinator(users)
	room := createRoom(c, registry, "sock-a", "alice")
	c.HandleJoinRoom("sock-b", comm.JoinRoomPayload{RoomId: room.RoomId, Username: "bob"})

	c.HandleDisconnect("sock-b")
	require.Len(t, room.Players, 1)
	assert.Equal(t, "alice", room.Players[0].Username)

	c.HandleDisconnect("sock-a")
	_, ok := registry.Room(room.RoomId)
	assert.False(t, ok)
}
