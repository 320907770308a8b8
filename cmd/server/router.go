package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/trimtrack/trimtrack-api/internal/api"
	apiMiddleware "github.com/trimtrack/trimtrack-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.userService,
		app.jwtService,
		app.passwordVerifier,
		app.tokenLifetime(),
	)
	userHandler := api.NewUserHandler(app.userService)
	trackingHandler := api.NewTrackingHandler(app.trackingService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Credential and profile endpoints
			r.Post("/auth/password", authHandler.ChangePassword)
			r.Put("/users/me/profile", userHandler.UpdateProfile)

			// Tracking endpoints
			r.Post("/tracking", trackingHandler.Initialize)
			r.Put("/tracking/weight", trackingHandler.UpdateWeight)
			r.Get("/tracking", trackingHandler.Get)
			r.Get("/tracking/history", trackingHandler.GetHistory)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
