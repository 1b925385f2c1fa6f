package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (app *Application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(cors.AllowAll().Handler)

	mux.NotFound(app.handlers.NotFoundHandler)
	mux.MethodNotAllowed(app.handlers.MethodNotAllowedHandler)

	mux.Route("/arenas", func(r chi.Router) {
		// Public listing and detail routes
		r.Get("/", app.handlers.ListArenasHandler)
		r.Get("/{arena_id}", app.handlers.GetArenaHandler)

		// Auth-protected routes for arena interaction
		r.Group(func(r chi.Router) {
			r.Use(app.handlers.AuthMiddleware)

			r.Post("/", app.handlers.CreateArenaHandler)
			r.Post("/{arena_id}/join", app.handlers.JoinArenaHandler)
			r.Post("/{arena_id}/test-cases", app.handlers.GenerateTestCasesHandler)
			r.Post("/{arena_id}/submit", app.handlers.SubmitSolutionHandler)
			r.Post("/{arena_id}/rewards", app.handlers.AwardRewardsHandler)

			// Live room: SSE stream plus gameplay feeds
			r.Get("/{arena_id}/room", app.handlers.JoinRoomHandler)
			r.Post("/{arena_id}/room/code", app.handlers.RoomCodeHandler)
			r.Post("/{arena_id}/room/chat", app.handlers.RoomChatHandler)
			r.Post("/{arena_id}/room/typing", app.handlers.RoomTypingHandler)
		})
	})

	mux.Route("/matchmaking", func(r chi.Router) {
		r.Use(app.handlers.AuthMiddleware)

		r.Get("/queue", app.handlers.JoinQueueHandler)
		r.Post("/queue/leave", app.handlers.LeaveQueueHandler)
		r.Post("/quick-match", app.handlers.QuickMatchHandler)
	})

	mux.Route("/leaderboard", func(r chi.Router) {
		r.Get("/", app.handlers.GetLeaderboardHandler)
	})

	mux.Route("/users", func(r chi.Router) {
		r.Get("/{user_id}", app.handlers.GetUserHandler)
	})

	return mux
}
