package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"
)

type soloFinishRequest struct {
	Difficulty string `json:"difficulty"`
	TimeMs     int64  `json:"timeMs"`
}

// SoloFinishHandler records a completed solo run. A new personal best
// refreshes the cached leaderboard for that difficulty.
func (h *Handler) SoloFinishHandler(w http.ResponseWriter, r *http.Request) {
	username, err := h.usernameFromContext(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "unauthorized"})
		return
	}

	var req soloFinishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}
	if req.TimeMs <= 0 {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "timeMs must be positive"})
		return
	}

	result, err := h.solo.Finish(r.Context(), username, req.Difficulty, req.TimeMs)
	if err != nil {
		log.Errorf("failed to record solo finish for %s: %v", username, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to record finish"})
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: result})
}

func (h *Handler) SoloLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	difficulty := chi.URLParam(r, "difficulty")

	entries, err := h.solo.Leaderboard(r.Context(), difficulty)
	if err != nil {
		log.Errorf("failed to load solo leaderboard for %s: %v", difficulty, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "failed to load leaderboard"})
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: entries})
}
