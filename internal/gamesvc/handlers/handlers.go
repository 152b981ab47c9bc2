package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/numrace/game-services/internal/gamesvc/service"
	"github.com/numrace/game-services/internal/gamesvc/ws"
)

type Handler struct {
	tokenAuth *jwtauth.JWTAuth

	users       *service.UserService
	solo        *service.SoloService
	multiplayer *service.MultiplayerService
	savedGames  *service.SavedGameService
	wsHandler   *ws.Handler
}

func NewHandler(
	users *service.UserService,
	solo *service.SoloService,
	multiplayer *service.MultiplayerService,
	savedGames *service.SavedGameService,
	wsHandler *ws.Handler,
) *Handler {
	return &Handler{
		users:       users,
		solo:        solo,
		multiplayer: multiplayer,
		savedGames:  savedGames,
		wsHandler:   wsHandler,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "game service is running at port " + os.Getenv("SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("failed to encode health response: %v", err)
	}
}

// usernameFromContext extracts the authenticated username from the verified
// JWT. Routes behind the Authenticator middleware always have a valid token.
func (h *Handler) usernameFromContext(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", err
	}
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", errors.New("token missing username claim")
	}
	return username, nil
}
