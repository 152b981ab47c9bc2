package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"

	"github.com/numrace/game-services/internal/gamesvc/models"
	"github.com/numrace/game-services/internal/gamesvc/store"
)

// SaveSoloGameHandler stores a solo snapshot for the authenticated user,
// replacing any previous one.
func (h *Handler) SaveSoloGameHandler(w http.ResponseWriter, r *http.Request) {
	username, err := h.usernameFromContext(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "unauthorized"})
		return
	}

	var game models.SavedGame
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}

	user, err := h.users.Profile(r.Context(), username)
	if err != nil {
		log.Errorf("failed to resolve user %s: %v", username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to save game"})
		return
	}

	if err := h.savedGames.SaveSolo(r.Context(), user.ID, username, &game); err != nil {
		log.Errorf("failed to save solo game for %s: %v", username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to save game"})
		return
	}

	h.CreateResponse(w, Response{Message: "saved", Code: http.StatusCreated})
}

func (h *Handler) GetSoloGameHandler(w http.ResponseWriter, r *http.Request) {
	username, err := h.usernameFromContext(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "unauthorized"})
		return
	}

	user, err := h.users.Profile(r.Context(), username)
	if err != nil {
		log.Errorf("failed to resolve user %s: %v", username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to load saved game"})
		return
	}

	game, err := h.savedGames.GetSolo(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNoSavedGame) {
			h.CreateResponse(w, Response{Code: http.StatusNotFound, Error: "no saved game"})
			return
		}
		log.Errorf("failed to load solo saved game for %s: %v", username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to load saved game"})
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: game})
}

func (h *Handler) DeleteSoloGameHandler(w http.ResponseWriter, r *http.Request) {
	username, err := h.usernameFromContext(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "unauthorized"})
		return
	}

	user, err := h.users.Profile(r.Context(), username)
	if err != nil {
		log.Errorf("failed to resolve user %s: %v", username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to delete saved game"})
		return
	}

	if err := h.savedGames.DeleteSolo(r.Context(), user.ID); err != nil {
		log.Errorf("failed to delete solo saved game for %s: %v", username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to delete saved game"})
		return
	}

	h.CreateResponse(w, Response{Message: "deleted", Code: http.StatusOK})
}

// CompleteSoloGameHandler marks the snapshot finished so a stale client save
// cannot resurrect an already-won game.
func (h *Handler) CompleteSoloGameHandler(w http.ResponseWriter, r *http.Request) {
	username, err := h.usernameFromContext(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "unauthorized"})
		return
	}

	user, err := h.users.Profile(r.Context(), username)
	if err != nil {
		log.Errorf("failed to resolve user %s: %v", username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to complete saved game"})
		return
	}

	if err := h.savedGames.CompleteSolo(r.Context(), user.ID); err != nil {
		log.Errorf("failed to complete solo saved game for %s: %v", username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to complete saved game"})
		return
	}

	h.CreateResponse(w, Response{Message: "completed", Code: http.StatusOK})
}

// SaveMultiplayerGameHandler stores a room snapshot shared by both players.
func (h *Handler) SaveMultiplayerGameHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := h.usernameFromContext(r); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "unauthorized"})
		return
	}

	var game models.SavedGame
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}
	if game.RoomID == "" {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "roomId is required"})
		return
	}

	if err := h.savedGames.SaveMultiplayer(r.Context(), &game); err != nil {
		log.Errorf("failed to save multiplayer game for room %s: %v", game.RoomID, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to save game"})
		return
	}

	h.CreateResponse(w, Response{Message: "saved", Code: http.StatusCreated})
}

// GetMultiplayerGameHandler returns the live room snapshot the authenticated
// user appears in, used to offer a resume after reconnecting.
func (h *Handler) GetMultiplayerGameHandler(w http.ResponseWriter, r *http.Request) {
	username, err := h.usernameFromContext(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "unauthorized"})
		return
	}

	game, err := h.savedGames.GetMultiplayerForUser(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNoSavedGame) {
			h.CreateResponse(w, Response{Code: http.StatusNotFound, Error: "no saved game"})
			return
		}
		log.Errorf("failed to load multiplayer saved game for %s: %v", username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to load saved game"})
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: game})
}

func (h *Handler) DeleteMultiplayerGameHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := h.usernameFromContext(r); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "unauthorized"})
		return
	}

	roomId := chi.URLParam(r, "roomId")
	if err := h.savedGames.DeleteMultiplayer(r.Context(), roomId); err != nil {
		log.Errorf("failed to delete multiplayer saved game for room %s: %v", roomId, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to delete saved game"})
		return
	}

	h.CreateResponse(w, Response{Message: "deleted", Code: http.StatusOK})
}

func (h *Handler) CompleteMultiplayerGameHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := h.usernameFromContext(r); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "unauthorized"})
		return
	}

	roomId := chi.URLParam(r, "roomId")
	if err := h.savedGames.CompleteMultiplayer(r.Context(), roomId); err != nil {
		log.Errorf("failed to complete multiplayer saved game for room %s: %v", roomId, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to complete saved game"})
		return
	}

	h.CreateResponse(w, Response{Message: "completed", Code: http.StatusOK})
}
