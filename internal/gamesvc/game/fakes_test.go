package game

import (
	"context"
	"errors"
	"sync"

	"github.com/numrace/game-services/internal/comm"
	"github.com/numrace/game-services/internal/gamesvc/models"
)

type fakeUserStore struct {
	mu      sync.Mutex
	users   map[string]*models.User
	failGet bool
	failSet bool
}

func newFakeUserStore(balances map[string]int) *fakeUserStore {
	users := make(map[string]*models.User, len(balances))
	for username, coins := range balances {
		users[username] = &models.User{Username: username, Coins: coins}
	}
	return &fakeUserStore{users: users}
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, errors.New("store unavailable")
	}
	u, ok := f.users[username]
	if !ok {
		return nil, errors.New("user not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) SetCoins(_ context.Context, username string, coins int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errors.New("store unavailable")
	}
	u, ok := f.users[username]
	if !ok {
		return errors.New("user not found")
	}
	u.Coins = coins
	return nil
}

func (f *fakeUserStore) IncrementStats(_ context.Context, username string, wins, losses, draws int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return errors.New("user not found")
	}
	u.TotalWins += wins
	u.TotalLosses += losses
	u.TotalDraws += draws
	return nil
}

func (f *fakeUserStore) coins(username string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[username].Coins
}

func (f *fakeUserStore) stats(username string) (wins, losses, draws int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[username]
	return u.TotalWins, u.TotalLosses, u.TotalDraws
}

type fakeMatchStore struct {
	mu      sync.Mutex
	records []*models.MatchRecord
	fail    bool
}

func (f *fakeMatchStore) Insert(_ context.Context, rec *models.MatchRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("store unavailable")
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeMatchStore) all() []*models.MatchRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.MatchRecord(nil), f.records...)
}

type sentEvent struct {
	sockets []string
	event   string
	payload any
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
}

func (f *fakeBroadcaster) Send(socketID, event string, payload any) {
	f.Broadcast([]string{socketID}, event, payload)
}

func (f *fakeBroadcaster) Broadcast(socketIDs []string, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{sockets: socketIDs, event: event, payload: payload})
}

// last returns the most recent event of the given type, if any.
func (f *fakeBroadcaster) last(event string) (sentEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].event == event {
			return f.events[i], true
		}
	}
	return sentEvent{}, false
}

func (f *fakeBroadcaster) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.event == event {
			n++
		}
	}
	return n
}

type fakePublisher struct {
	mu     sync.Mutex
	events []comm.MatchCompleted
}

func (f *fakePublisher) PublishMatchCompleted(ev comm.MatchCompleted) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func newTestCoordinator(users *fakeUserStore) (*Coordinator, *Registry, *fakeBroadcaster, *fakeMatchStore) {
	registry := NewRegistry()
	matches := &fakeMatchStore{}
	out := &fakeBroadcaster{}
	ledger := NewLedger(users)
	recorder := NewRecorder(matches, users, &fakePublisher{})
	return NewCoordinator(registry, ledger, recorder, out), registry, out, matches
}

// onlyRoom returns the single live room, failing the calling test otherwise
// via panic in the registry access.
func onlyRoom(registry *Registry) *Room {
	for _, room := range registry.rooms {
		return room
	}
	return nil
}
