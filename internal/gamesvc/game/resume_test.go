package game

import (
	"testing"
	"time"

	"github.com/numrace/game-services/internal/comm"
	"github.com/numrace/game-services/internal/gamesvc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savedGameFixture() models.SavedGame {
	return models.SavedGame{
		GameType: models.GameTypeMultiplayer,
		RoomID:   "abc123",
		Players: []models.PlayerState{
			{ID: "old-a", Username: "alice", Score: 8, Color: "#111111", IsCreator: true, Coins: 100},
			{ID: "old-b", Username: "bob", Score: 8, Color: "#222222", Coins: 50},
		},
		CreatorUsername: "alice",
		Difficulty:      DifficultyEasy,
		Mode:            ModeKeep,
		Grid:            GenerateGrid(DifficultyEasy),
		FoundNumbers: map[string]string{
			"1": "old-a", "2": "old-b", "3": "old-a",
		},
		NextNumber:  17,
		IsDarkTheme: true,
		Turn:        "old-a",
	}
}

func TestResumeRoomWaitingAndReady(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, out, _ := newTestCoordinator(users)

	c.HandleResumeRoom("sock-a2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "alice", Color: "#111111"})

	session, ok := registry.Session("abc123")
	require.True(t, ok)
	assert.Equal(t, []string{"alice"}, session.ReadyPlayers)

	ev, ok := out.last(comm.EventResumeWaiting)
	require.True(t, ok)
	waiting := ev.payload.(comm.ResumeWaitingPayload)
	assert.Equal(t, 2, waiting.TotalNeeded)
	assert.Equal(t, []string{"alice"}, waiting.ReadyPlayers)

	c.HandleResumeRoom("sock-b2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "bob", Color: "#222222"})

	ev, ok = out.last(comm.EventResumeReady)
	require.True(t, ok)
	ready := ev.payload.(comm.ResumeReadyPayload)
	assert.ElementsMatch(t, []string{"alice", "bob"}, ready.ReadyPlayers)
	assert.ElementsMatch(t, []string{"sock-a2", "sock-b2"}, ev.sockets)
}

func TestResumeRoomRepeatIntentIsUpsert(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100})
	c, registry, _, _ := newTestCoordinator(users)

	c.HandleResumeRoom("sock-a2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "alice", Color: "#111111"})
	c.HandleResumeRoom("sock-a3", comm.ResumeRoomPayload{RoomId: "abc123", Username: "alice", Color: "#333333"})

	session, _ := registry.Session("abc123")
	require.Len(t, session.Players, 1)
	assert.Equal(t, "sock-a3", session.Players[0].ID)
	assert.Equal(t, "#333333", session.Players[0].Color)
	assert.Equal(t, []string{"alice"}, session.ReadyPlayers)
}

func TestStartResumeGameRoundTrip(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 87, "bob": 62})
	c, registry, out, _ := newTestCoordinator(users)
	saved := savedGameFixture()

	c.HandleResumeRoom("sock-a2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "alice", Color: "#aaaaaa"})
	c.HandleResumeRoom("sock-b2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "bob", Color: "#bbbbbb"})
	c.HandleStartResumeGame("sock-a2", comm.StartResumePayload{RoomId: "abc123", SavedGameState: saved})

	room, ok := registry.Room("abc123")
	require.True(t, ok)

	// Snapshot state carried over verbatim.
	assert.Equal(t, saved.Grid, room.Grid)
	assert.Equal(t, 17, room.NextNumber)
	assert.Equal(t, saved.FoundNumbers, room.FoundNumbers)
	assert.Equal(t, "old-a", room.Turn)
	assert.True(t, room.IsDarkTheme)
	assert.True(t, room.GameStarted)

	// Players re-keyed to their new connections, colors from the session,
	// balances refreshed from the ledger.
	alice := room.Player("alice")
	require.NotNil(t, alice)
	assert.Equal(t, "sock-a2", alice.ID)
	assert.Equal(t, "#aaaaaa", alice.Color)
	assert.Equal(t, 87, alice.Coins)
	assert.Equal(t, 8, alice.Score)

	bob := room.Player("bob")
	require.NotNil(t, bob)
	assert.Equal(t, "sock-b2", bob.ID)
	assert.Equal(t, 62, bob.Coins)

	// Session gone, connection index live, state broadcast.
	_, ok = registry.Session("abc123")
	assert.False(t, ok)
	got, ok := registry.RoomByConn("sock-b2")
	require.True(t, ok)
	assert.Same(t, room, got)
	_, ok = out.last(comm.EventGameState)
	assert.True(t, ok)
}

func TestStartResumeGameNotEnoughPlayers(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100})
	c, registry, out, _ := newTestCoordinator(users)

	c.HandleResumeRoom("sock-a2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "alice"})
	c.HandleStartResumeGame("sock-a2", comm.StartResumePayload{RoomId: "abc123", SavedGameState: savedGameFixture()})

	ev, ok := out.last(comm.EventError)
	require.True(t, ok)
	assert.Equal(t, ErrNotEnoughPlayers.Error(), ev.payload.(comm.ErrorPayload).Message)
	_, ok = registry.Room("abc123")
	assert.False(t, ok)
}

func TestStartResumeGameOnlyCreator(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, out, _ := newTestCoordinator(users)

	c.HandleResumeRoom("sock-a2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "alice"})
	c.HandleResumeRoom("sock-b2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "bob"})
	c.HandleStartResumeGame("sock-b2", comm.StartResumePayload{RoomId: "abc123", SavedGameState: savedGameFixture()})

	ev, ok := out.last(comm.EventError)
	require.True(t, ok)
	assert.Equal(t, ErrNotAuthorized.Error(), ev.payload.(comm.ErrorPayload).Message)
	_, ok = registry.Room("abc123")
	assert.False(t, ok)
	_, ok = registry.Session("abc123")
	assert.True(t, ok)
}

func TestResumeSessionTimeout(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100})
	c, registry, out, _ := newTestCoordinator(users)
	c.SetResumeWindow(20 * time.Millisecond)

	c.HandleResumeRoom("sock-a2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "alice"})

	require.Eventually(t, func() bool {
		_, ok := out.last(comm.EventResumeTimeout)
		return ok
	}, time.Second, 5*time.Millisecond)

	c.mu.Lock()
	_, ok := registry.Session("abc123")
	c.mu.Unlock()
	assert.False(t, ok)
}

func TestResumeTimeoutCancelledWhenReady(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, out, _ := newTestCoordinator(users)
	c.SetResumeWindow(30 * time.Millisecond)

	c.HandleResumeRoom("sock-a2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "alice"})
	c.HandleResumeRoom("sock-b2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "bob"})

	time.Sleep(80 * time.Millisecond)

	_, timedOut := out.last(comm.EventResumeTimeout)
	assert.False(t, timedOut)
	c.mu.Lock()
	_, ok := registry.Session("abc123")
	c.mu.Unlock()
	assert.True(t, ok)
}

func TestDisconnectDuringResumeWaiting(t *testing.T) {
	users := newFakeUserStore(map[string]int{"alice": 100, "bob": 50})
	c, registry, out, _ := newTestCoordinator(users)

	c.HandleResumeRoom("sock-a2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "alice"})
	c.HandleResumeRoom("sock-b2", comm.ResumeRoomPayload{RoomId: "abc123", Username: "bob"})

	c.HandleDisconnect("sock-b2")

	session, ok := registry.Session("abc123")
	require.True(t, ok)
	assert.Equal(t, []string{"alice"}, session.ReadyPlayers)
	require.Len(t, session.Players, 1)

	ev, ok := out.last(comm.EventResumePlayerLeft)
	require.True(t, ok)
	assert.Equal(t, []string{"alice"}, ev.payload.(comm.ResumePlayerLeftPayload).ReadyPlayers)

	// Last participant leaving empties and discards the session.
	c.HandleDisconnect("sock-a2")
	_, ok = registry.Session("abc123")
	assert.False(t, ok)
}
