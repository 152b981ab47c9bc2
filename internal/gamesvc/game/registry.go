package game

import "github.com/numrace/game-services/internal/gamesvc/models"

// Registry holds every live Room and ResumeSession plus a secondary
// connection-id → room-id index so per-connection events resolve their room
// without scanning. It carries no locking of its own: all access is confined
// to the Coordinator's event serialization.
type Registry struct {
	rooms    map[string]*Room
	sessions map[string]*ResumeSession
	connRoom map[string]string
}

// NewRegistry returns an empty registry. Instances are independent so tests
// construct one per case.
func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		sessions: make(map[string]*ResumeSession),
		connRoom: make(map[string]string),
	}
}

// Room returns the live room with the given id.
func (g *Registry) Room(roomID string) (*Room, bool) {
	r, ok := g.rooms[roomID]
	return r, ok
}

// RoomByConn resolves the room containing the given connection id.
func (g *Registry) RoomByConn(connID string) (*Room, bool) {
	roomID, ok := g.connRoom[connID]
	if !ok {
		return nil, false
	}
	return g.Room(roomID)
}

// HasRoom reports whether a room id is taken.
func (g *Registry) HasRoom(roomID string) bool {
	_, ok := g.rooms[roomID]
	return ok
}

// PutRoom inserts or replaces a room and indexes every member's connection.
func (g *Registry) PutRoom(room *Room) {
	g.rooms[room.RoomId] = room
	for _, p := range room.Players {
		g.connRoom[p.ID] = room.RoomId
	}
}

// DeleteRoom evicts a room and drops its members' connection bindings.
func (g *Registry) DeleteRoom(roomID string) {
	room, ok := g.rooms[roomID]
	if !ok {
		return
	}
	for _, p := range room.Players {
		delete(g.connRoom, p.ID)
	}
	delete(g.rooms, roomID)
}

// AddPlayer appends a player to a room, enforcing the two-player capacity.
// A username already present is treated as a reconnect: the existing record's
// connection id is rebound in place and no duplicate is added.
func (g *Registry) AddPlayer(roomID string, p *models.PlayerState) (rejoined bool, err error) {
	room, ok := g.rooms[roomID]
	if !ok {
		return false, ErrRoomNotFound
	}
	if existing := room.Player(p.Username); existing != nil {
		g.RebindConn(room, existing, p.ID)
		return true, nil
	}
	if len(room.Players) >= 2 {
		return false, ErrRoomFull
	}
	room.Players = append(room.Players, p)
	g.connRoom[p.ID] = roomID
	return false, nil
}

// RebindConn points an existing player record at a new connection id,
// keeping the connection index transactional with the change.
func (g *Registry) RebindConn(room *Room, p *models.PlayerState, connID string) {
	delete(g.connRoom, p.ID)
	p.ID = connID
	g.connRoom[connID] = room.RoomId
}

// RemovePlayer drops the named player from a room and unbinds their
// connection. It reports the removed record, if any.
func (g *Registry) RemovePlayer(roomID, username string) (*models.PlayerState, bool) {
	room, ok := g.rooms[roomID]
	if !ok {
		return nil, false
	}
	for i, p := range room.Players {
		if p.Username == username {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			delete(g.connRoom, p.ID)
			return p, true
		}
	}
	return nil, false
}

// Session returns the resume session for a room id.
func (g *Registry) Session(roomID string) (*ResumeSession, bool) {
	s, ok := g.sessions[roomID]
	return s, ok
}

// PutSession inserts or replaces a resume session.
func (g *Registry) PutSession(s *ResumeSession) {
	g.sessions[s.RoomId] = s
}

// DeleteSession discards a resume session.
func (g *Registry) DeleteSession(roomID string) {
	delete(g.sessions, roomID)
}

// Sessions returns all live resume sessions; disconnect handling scans them
// for the departing connection.
func (g *Registry) Sessions() []*ResumeSession {
	out := make([]*ResumeSession, 0, len(g.sessions))
	for _, s := range g.sessions {
		out = append(out, s)
	}
	return out
}
