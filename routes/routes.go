package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/docwell/docwell-backend/controllers"
)

// Deps bundles the constructed controllers handed to route setup.
type Deps struct {
	Auth         *controllers.AuthController
	Doctor       *controllers.DoctorController
	Availability *controllers.AvailabilityController
	Appointment  *controllers.AppointmentController
	JWTSecret    string
}

// Setup wires every route group onto the app.
func Setup(app *fiber.App, deps Deps) {
	SetupAuthRoutes(app, deps)
	SetupDoctorRoutes(app, deps)
	SetupAppointmentRoutes(app, deps)
}
