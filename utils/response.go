package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/docwell/docwell-backend/scheduler"
)

// ErrorDetail is the machine-readable half of an error response.
type ErrorDetail struct {
	Code  string `json:"code"`
	Issue string `json:"issue"`
}

// ErrorResponse is the uniform error envelope for every endpoint.
type ErrorResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Error   ErrorDetail `json:"error"`
}

func Fail(c *fiber.Ctx, httpStatus int, message, code, issue string) error {
	return c.Status(httpStatus).JSON(ErrorResponse{
		Status:  false,
		Message: message,
		Error:   ErrorDetail{Code: code, Issue: issue},
	})
}

// FailScheduler maps the booking core's sentinel errors onto 4xx
// responses. Anything unrecognized is a persistence failure: the root
// cause is not leaked to the client.
func FailScheduler(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, scheduler.ErrInvalidWindow):
		return Fail(c, fiber.StatusBadRequest, message, "INVALID_WINDOW", err.Error())
	case errors.Is(err, scheduler.ErrDoctorNotFound):
		return Fail(c, fiber.StatusNotFound, message, "DOCTOR_NOT_FOUND", err.Error())
	case errors.Is(err, scheduler.ErrPatientNotFound):
		return Fail(c, fiber.StatusNotFound, message, "PATIENT_NOT_FOUND", err.Error())
	case errors.Is(err, scheduler.ErrSlotConflict):
		return Fail(c, fiber.StatusConflict, message, "SLOT_CONFLICT", err.Error())
	case errors.Is(err, scheduler.ErrOutsideAvailability):
		return Fail(c, fiber.StatusConflict, message, "OUTSIDE_AVAILABILITY", err.Error())
	default:
		return Fail(c, fiber.StatusInternalServerError, message, "INTERNAL", "unexpected error")
	}
}
