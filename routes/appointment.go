package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/docwell/docwell-backend/middleware"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App, deps Deps) {
	appointments := app.Group("/appointments", middleware.Protected(deps.JWTSecret))
	appointments.Get("/", deps.Appointment.List)
	appointments.Get("/:id", deps.Appointment.Get)
	appointments.Post("/", deps.Appointment.Book)
	appointments.Put("/:id/status", deps.Appointment.UpdateStatus)
}
