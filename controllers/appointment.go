package controllers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/docwell/docwell-backend/cache"
	"github.com/docwell/docwell-backend/mailer"
	"github.com/docwell/docwell-backend/models"
	"github.com/docwell/docwell-backend/scheduler"
	"github.com/docwell/docwell-backend/utils"
)

// DefaultSlotMinutes applies when a client does not ask for a specific
// consultation length.
const DefaultSlotMinutes = 30

type AppointmentController struct {
	DB     *gorm.DB
	Sched  *scheduler.Scheduler
	Cache  *cache.SlotCache
	Mailer *mailer.Mailer
}

type slotResponse struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type bookRequest struct {
	DoctorID        uint      `json:"doctorId"`
	PatientID       uint      `json:"patientId"`
	AppointmentTime time.Time `json:"appointmentTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Note            string    `json:"note"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func durationParam(c *fiber.Ctx) (int, error) {
	raw := c.Query("duration")
	if raw == "" {
		return DefaultSlotMinutes, nil
	}
	d, err := strconv.Atoi(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("duration must be a positive number of minutes")
	}
	return d, nil
}

// AvailableDates lists the dates of a month on which the doctor has at
// least one open slot.
func (apc *AppointmentController) AvailableDates(c *fiber.Ctx) error {
	doctorID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid doctor ID", "BAD_REQUEST", "doctor ID must be numeric")
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid year", "BAD_REQUEST", "year query parameter is required")
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid month", "BAD_REQUEST", "month must be between 1 and 12")
	}

	duration, err := durationParam(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid duration", "BAD_REQUEST", err.Error())
	}

	dates, err := apc.Sched.ResolveAvailableDates(uint(doctorID), year, time.Month(month), duration)
	if err != nil {
		return utils.FailScheduler(c, "Failed to resolve available dates", err)
	}
	return c.JSON(fiber.Map{"availableDates": dates})
}

// AvailableSlots lists the open slots for a doctor on one date as
// ISO-8601 UTC timestamps. Responses are briefly cached per doctor and
// invalidated on every booking or schedule change.
func (apc *AppointmentController) AvailableSlots(c *fiber.Ctx) error {
	doctorID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid doctor ID", "BAD_REQUEST", "doctor ID must be numeric")
	}
	date, err := scheduler.ParseDate(c.Query("date"))
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid date", "BAD_REQUEST", err.Error())
	}
	duration, err := durationParam(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid duration", "BAD_REQUEST", err.Error())
	}

	var cached []slotResponse
	if apc.Cache.GetSlots(c.Context(), uint(doctorID), date.String(), duration, &cached) {
		return c.JSON(fiber.Map{"availableSlots": cached})
	}

	slots, err := apc.Sched.ResolveAvailableSlots(uint(doctorID), date, duration)
	if err != nil {
		return utils.FailScheduler(c, "Failed to resolve available slots", err)
	}

	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{StartTime: s.Start, EndTime: s.End})
	}
	apc.Cache.SetSlots(c.Context(), uint(doctorID), date.String(), duration, out)
	return c.JSON(fiber.Map{"availableSlots": out})
}

// Book commits a slot for the authenticated patient. The committer
// re-validates everything at commit time, so a stale slot listing
// degrades into a SLOT_CONFLICT here rather than a double booking.
func (apc *AppointmentController) Book(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)

	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Failed to parse request body", "BAD_REQUEST", err.Error())
	}
	if req.DoctorID == 0 || req.AppointmentTime.IsZero() {
		return utils.Fail(c, fiber.StatusBadRequest, "Missing required fields", "BAD_REQUEST",
			"doctorId and appointmentTime are required")
	}

	patientID := req.PatientID
	if patientID == 0 {
		patientID = userID
	}
	if patientID != userID && role != string(models.RoleAdmin) {
		return utils.Fail(c, fiber.StatusForbidden, "Cannot book for another patient", "FORBIDDEN",
			"patientId must match the authenticated user")
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = DefaultSlotMinutes
	}

	appointment, err := apc.Sched.BookSlot(req.DoctorID, patientID, req.AppointmentTime, duration)
	if err != nil {
		return utils.FailScheduler(c, "Failed to book appointment", err)
	}
	if req.Note != "" {
		appointment.Note = req.Note
		if err := apc.DB.Model(appointment).Update("note", req.Note).Error; err != nil {
			return utils.Fail(c, fiber.StatusInternalServerError, "Failed to save appointment note", "INTERNAL", "unexpected error")
		}
	}

	apc.Cache.InvalidateDoctor(context.Background(), req.DoctorID)
	apc.notifyBooked(appointment)

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// UpdateStatus moves an appointment through its lifecycle. Doctors
// manage their own appointments; patients may only cancel their own.
func (apc *AppointmentController) UpdateStatus(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)
	id := c.Params("id")

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Failed to parse request body", "BAD_REQUEST", err.Error())
	}
	next := models.AppointmentStatus(req.Status)
	switch next {
	case models.StatusPending, models.StatusConfirmed, models.StatusCanceled, models.StatusCompleted:
	default:
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid status", "BAD_REQUEST",
			"status must be one of pending, confirmed, canceled, completed")
	}

	var appointment models.Appointment
	if err := apc.DB.First(&appointment, id).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Appointment not found", "APPOINTMENT_NOT_FOUND", "no such appointment")
	}

	switch {
	case role == string(models.RoleAdmin):
	case role == string(models.RoleDoctor) && appointment.DoctorID == userID:
	case role == string(models.RolePatient) && appointment.PatientID == userID && next == models.StatusCanceled:
	default:
		return utils.Fail(c, fiber.StatusForbidden, "Not allowed to update this appointment", "FORBIDDEN",
			"only the doctor may manage status; patients may cancel their own booking")
	}

	if err := appointment.UpdateStatus(apc.DB, next); err != nil {
		return utils.Fail(c, fiber.StatusConflict, "Invalid status transition", "INVALID_TRANSITION", err.Error())
	}

	apc.Cache.InvalidateDoctor(context.Background(), appointment.DoctorID)
	apc.notifyStatus(&appointment)

	return c.JSON(appointment)
}

// List returns the caller's appointments: doctors see their schedule,
// patients their bookings, admins everything.
func (apc *AppointmentController) List(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)

	query := apc.DB.Preload("Doctor").Preload("Patient").Order("appointment_time")
	switch role {
	case string(models.RoleDoctor):
		query = query.Where("doctor_id = ?", userID)
	case string(models.RolePatient):
		query = query.Where("patient_id = ?", userID)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to fetch appointments", "INTERNAL", "unexpected error")
	}
	for i := range appointments {
		appointments[i].Doctor.Password = ""
		appointments[i].Patient.Password = ""
	}
	return c.JSON(fiber.Map{"appointments": appointments})
}

// Get returns one appointment, restricted to its participants.
func (apc *AppointmentController) Get(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)
	id := c.Params("id")

	var appointment models.Appointment
	if err := apc.DB.Preload("Doctor").Preload("Patient").First(&appointment, id).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Appointment not found", "APPOINTMENT_NOT_FOUND", "no such appointment")
	}
	if role != string(models.RoleAdmin) && appointment.DoctorID != userID && appointment.PatientID != userID {
		return utils.Fail(c, fiber.StatusForbidden, "Not allowed to view this appointment", "FORBIDDEN",
			"only participants may view an appointment")
	}
	appointment.Doctor.Password = ""
	appointment.Patient.Password = ""
	return c.JSON(appointment)
}

func (apc *AppointmentController) notifyBooked(appointment *models.Appointment) {
	var doctor, patient models.User
	if err := apc.DB.First(&doctor, appointment.DoctorID).Error; err != nil {
		return
	}
	if err := apc.DB.First(&patient, appointment.PatientID).Error; err != nil {
		return
	}
	apc.Mailer.SendBookingConfirmation(appointment, &doctor, &patient)
}

func (apc *AppointmentController) notifyStatus(appointment *models.Appointment) {
	var patient models.User
	if err := apc.DB.First(&patient, appointment.PatientID).Error; err != nil {
		return
	}
	apc.Mailer.SendStatusUpdate(appointment, &patient)
}
