package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/numrace/game-services/internal/gamesvc/models"
	"github.com/numrace/game-services/internal/gamesvc/service"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "username and password are required"})
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			h.CreateResponse(w, Response{Code: http.StatusConflict, Error: "username already taken"})
			return
		}
		log.Errorf("failed to register user %s: %v", req.Username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "registration failed"})
		return
	}

	token, err := h.issueToken(user.Username)
	if err != nil {
		log.Errorf("failed to issue token for %s: %v", user.Username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "registration failed"})
		return
	}

	h.CreateResponse(w, Response{
		Message: "registered",
		Code:    http.StatusCreated,
		Data:    authResponse{Token: token, User: user},
	})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}

	user, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "invalid username or password"})
			return
		}
		log.Errorf("failed to login user %s: %v", req.Username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "login failed"})
		return
	}

	token, err := h.issueToken(user.Username)
	if err != nil {
		log.Errorf("failed to issue token for %s: %v", user.Username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "login failed"})
		return
	}

	h.CreateResponse(w, Response{
		Message: "logged in",
		Code:    http.StatusOK,
		Data:    authResponse{Token: token, User: user},
	})
}

func (h *Handler) issueToken(username string) (string, error) {
	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()
	_, tokenString, err := h.tokenAuth.Encode(map[string]interface{}{
		"username": username,
		"exp":      expirationTime,
	})
	return tokenString, err
}

func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	username, err := h.usernameFromContext(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "unauthorized"})
		return
	}

	user, err := h.users.Profile(r.Context(), username)
	if err != nil {
		log.Errorf("failed to load profile for %s: %v", username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to load profile"})
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: user})
}
