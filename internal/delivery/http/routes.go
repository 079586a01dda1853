package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vidstream/backend/internal/middleware"
)

func NewRouter(handler *Handler, authMiddleware *middleware.AuthMiddleware, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		// Public
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/refresh-token", handler.RefreshToken)

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/logout", handler.Logout)
			r.Post("/change-password", handler.ChangePassword)
			r.Get("/current-user", handler.GetCurrentUser)
			r.Delete("/current-user", handler.DeleteAccount)
			r.Get("/login-events", handler.GetLoginHistory)
			r.Patch("/update-account", handler.UpdateAccount)
			r.Patch("/avatar", handler.UpdateAvatar)
			r.Patch("/cover-image", handler.UpdateCoverImage)

			r.Get("/c/{username}", handler.GetChannelProfile)
			r.Post("/c/{username}/subscribe", handler.Subscribe)
			r.Delete("/c/{username}/subscribe", handler.Unsubscribe)

			r.Get("/history", handler.GetWatchHistory)
			r.Delete("/history", handler.ClearWatchHistory)
			r.Post("/history/{videoId}", handler.AddToWatchHistory)
		})
	})

	return r
}
