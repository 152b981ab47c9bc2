package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/numrace/game-services/internal/comm"
)

// client wraps a websocket connection with a write lock; gorilla allows only
// one concurrent writer per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Ws tracks live socket connections and delivers outbound game events to
// them. It is the delivery side of the game coordinator.
type Ws struct {
	connMap sync.Map // socketId -> *client
}

func NewWs() *Ws {
	return &Ws{}
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, &client{conn: conn})
}

func (s *Ws) RemoveConnection(socketId string) {
	s.connMap.Delete(socketId)
}

// Send marshals the payload into the standard envelope and writes it to one
// socket. Unknown socket ids are tolerated; the connection may be gone.
func (s *Ws) Send(socketId, event string, payload any) {
	v, ok := s.connMap.Load(socketId)
	if !ok {
		log.Debugf("send to unknown socket %s dropped: %s", socketId, event)
		return
	}

	data, err := encode(socketId, event, payload)
	if err != nil {
		log.Errorf("failed to marshal %s event: %v", event, err)
		return
	}

	if err := v.(*client).write(data); err != nil {
		log.Warnf("failed to write %s to socket %s: %v", event, socketId, err)
	}
}

// Broadcast delivers one event to every listed socket.
func (s *Ws) Broadcast(socketIds []string, event string, payload any) {
	for _, id := range socketIds {
		s.Send(id, event, payload)
	}
}

func encode(socketId, event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&comm.WSMessage{
		Type:     event,
		Data:     raw,
		SocketId: socketId,
	})
}
