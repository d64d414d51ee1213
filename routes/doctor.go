package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/docwell/docwell-backend/middleware"
)

// SetupDoctorRoutes configures doctor listing, profile and weekly
// availability routes.
func SetupDoctorRoutes(app *fiber.App, deps Deps) {
	doctors := app.Group("/doctors")

	// Public listing and availability lookups
	doctors.Get("/", deps.Doctor.ListDoctors)
	doctors.Get("/:id<int>", deps.Doctor.GetDoctor)
	doctors.Get("/:id<int>/available-dates", deps.Appointment.AvailableDates)
	doctors.Get("/:id<int>/available-slots", deps.Appointment.AvailableSlots)

	// Doctor-owned profile and schedule
	own := doctors.Group("/", middleware.Protected(deps.JWTSecret), middleware.RequireRole("doctor"))
	own.Patch("/profile", deps.Doctor.UpdateProfile)
	own.Post("/profile/picture", deps.Doctor.UploadProfilePicture)
	own.Get("/availability", deps.Availability.ListWindows)
	own.Post("/availability", deps.Availability.CreateWindow)
	own.Put("/availability/:id", deps.Availability.UpdateWindow)
	own.Delete("/availability/:id", deps.Availability.DeleteWindow)
}
