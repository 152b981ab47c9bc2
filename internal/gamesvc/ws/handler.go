package ws

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/numrace/game-services/internal/comm"
	"github.com/numrace/game-services/internal/gamesvc/game"
)

// Handler upgrades HTTP requests to websockets and pumps inbound frames into
// the game coordinator.
type Handler struct {
	upgrader    websocket.Upgrader
	ws          *Ws
	coordinator *game.Coordinator
}

func NewHandler(s *Ws, coordinator *game.Coordinator) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ws:          s,
		coordinator: coordinator,
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("failed to upgrade to WebSocket: %v", err)
		return
	}

	socketId := uuid.New().String()
	h.ws.StoreConnection(socketId, conn)

	log.Infof("new WebSocket connection established: %s", socketId)

	go h.handleConnection(conn, socketId)
}

func (h *Handler) handleConnection(conn *websocket.Conn, socketId string) {
	defer func() {
		log.Infof("closing WebSocket connection: %s", socketId)
		conn.Close()
		h.ws.RemoveConnection(socketId)
		h.coordinator.HandleDisconnect(socketId)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Errorf("WebSocket unexpected close error for socket %s: %v", socketId, err)
			} else {
				log.Infof("WebSocket connection closed normally for socket: %s", socketId)
			}
			break
		}

		message := &comm.WSMessage{}
		if err := json.Unmarshal(raw, message); err != nil {
			log.Errorf("failed to unmarshal message from socket %s: %v", socketId, err)
			h.ws.Send(socketId, comm.EventError, comm.ErrorPayload{Message: "invalid message format"})
			continue
		}

		log.Debugf("received message from socket %s: type=%s", socketId, message.Type)

		h.dispatch(socketId, message)
	}
}

func (h *Handler) dispatch(socketId string, msg *comm.WSMessage) {
	switch msg.Type {
	case comm.EventCreateRoom:
		var p comm.CreateRoomPayload
		if !h.decode(socketId, msg, &p) {
			return
		}
		h.coordinator.HandleCreateRoom(socketId, p)
	case comm.EventJoinRoom:
		var p comm.JoinRoomPayload
		if !h.decode(socketId, msg, &p) {
			return
		}
		h.coordinator.HandleJoinRoom(socketId, p)
	case comm.EventStartGame:
		h.coordinator.HandleStartGame(socketId)
	case comm.EventNumberClick:
		var p comm.NumberClickPayload
		if !h.decode(socketId, msg, &p) {
			return
		}
		h.coordinator.HandleNumberClick(socketId, p.Number)
	case comm.EventToggleTheme:
		h.coordinator.HandleToggleTheme(socketId)
	case comm.EventChangeColor:
		var p comm.ChangeColorPayload
		if !h.decode(socketId, msg, &p) {
			return
		}
		h.coordinator.HandleChangeColor(socketId, p.Color)
	case comm.EventLeaveRoom:
		var p comm.LeaveRoomPayload
		if !h.decode(socketId, msg, &p) {
			return
		}
		h.coordinator.HandleLeaveRoom(socketId, p)
	case comm.EventResumeRoom:
		var p comm.ResumeRoomPayload
		if !h.decode(socketId, msg, &p) {
			return
		}
		h.coordinator.HandleResumeRoom(socketId, p)
	case comm.EventStartResume:
		var p comm.StartResumePayload
		if !h.decode(socketId, msg, &p) {
			return
		}
		h.coordinator.HandleStartResumeGame(socketId, p)
	default:
		log.Warnf("unknown event received from socket %s: %s", socketId, msg.Type)
	}
}

func (h *Handler) decode(socketId string, msg *comm.WSMessage, out any) bool {
	if err := json.Unmarshal(msg.Data, out); err != nil {
		log.Errorf("malformed %s payload from socket %s: %v", msg.Type, socketId, err)
		h.ws.Send(socketId, comm.EventError, comm.ErrorPayload{Message: "malformed " + msg.Type + " payload"})
		return false
	}
	return true
}
