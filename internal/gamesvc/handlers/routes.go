package handlers

import (
	"os"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		// public routes
		r.Get("/health", h.HealthHandler)
		r.Post("/auth/register", h.RegisterHandler)
		r.Post("/auth/login", h.LoginHandler)
		r.Get("/solo/leaderboard/{difficulty}", h.SoloLeaderboardHandler)
		r.Get("/multiplayer/leaderboard", h.MultiplayerLeaderboardHandler)
		r.Get("/multiplayer/head-to-head/{player1}/{player2}", h.HeadToHeadHandler)

		// the game socket authenticates per-message with usernames, not JWTs
		r.Get("/ws", h.wsHandler.HandleWebSocket)

		// secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Get("/profile", h.ProfileHandler)

			r.Post("/solo/finish", h.SoloFinishHandler)

			r.Post("/saved-games/solo", h.SaveSoloGameHandler)
			r.Get("/saved-games/solo", h.GetSoloGameHandler)
			r.Delete("/saved-games/solo", h.DeleteSoloGameHandler)
			r.Post("/saved-games/solo/complete", h.CompleteSoloGameHandler)

			r.Post("/saved-games/multiplayer", h.SaveMultiplayerGameHandler)
			r.Get("/saved-games/multiplayer", h.GetMultiplayerGameHandler)
			r.Delete("/saved-games/multiplayer/{roomId}", h.DeleteMultiplayerGameHandler)
			r.Post("/saved-games/multiplayer/{roomId}/complete", h.CompleteMultiplayerGameHandler)
		})
	})
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)
}
