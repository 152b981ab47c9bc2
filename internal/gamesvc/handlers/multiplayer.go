package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"
)

// HeadToHeadHandler aggregates the full match history between two usernames.
func (h *Handler) HeadToHeadHandler(w http.ResponseWriter, r *http.Request) {
	player1 := chi.URLParam(r, "player1")
	player2 := chi.URLParam(r, "player2")
	if player1 == "" || player2 == "" || player1 == player2 {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "two distinct usernames are required"})
		return
	}

	h2h, err := h.multiplayer.HeadToHead(r.Context(), player1, player2)
	if err != nil {
		log.Errorf("failed to load head-to-head %s vs %s: %v", player1, player2, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to load head-to-head"})
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: h2h})
}

func (h *Handler) MultiplayerLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.multiplayer.Leaderboard(r.Context())
	if err != nil {
		log.Errorf("failed to load multiplayer leaderboard: %v", err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to load leaderboard"})
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: pairs})
}
