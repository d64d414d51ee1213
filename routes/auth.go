package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/docwell/docwell-backend/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App, deps Deps) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", deps.Auth.Register)
	auth.Post("/login", deps.Auth.Login)
	auth.Post("/refresh", deps.Auth.RefreshToken)

	// Protected routes
	auth.Get("/me", middleware.Protected(deps.JWTSecret), deps.Auth.Me)
}
