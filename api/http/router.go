package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artemv/authcore/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, auth *handlers.AuthHandler, health *handlers.HealthHandler, requireSession fiber.Handler) {
	// Health and readiness endpoints for probes/monitoring
	app.Get("/health", health.Health)
	app.Get("/ready", health.Ready)

	app.Post("/register", auth.Register)
	app.Post("/login", auth.Login)
	app.Post("/logout", auth.Logout)

	// Protected: a valid unexpired session is required.
	app.Get("/profile", requireSession, auth.Profile)
}
