package routes

import (
	"github.com/clearharbor/vaultgate/internal/handlers"
	"github.com/clearharbor/vaultgate/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	accessHandler *handlers.AccessHandler,
	healthHandler *handlers.HealthHandler,
) {
	throttle := middleware.DefaultLoginThrottle()

	// The volume throttle guards only the credential endpoint; the
	// failed-login lockout inside the service handles guessing
	router.With(middleware.ThrottleByIP(throttle)).Post("/api/login", authHandler.Login)

	router.Post("/api/log-access", accessHandler.LogAccess)
	router.Get("/api/access-count", accessHandler.AccessCount)

	router.Get("/health", healthHandler.Health)
}
