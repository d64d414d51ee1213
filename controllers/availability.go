package controllers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/docwell/docwell-backend/cache"
	"github.com/docwell/docwell-backend/models"
	"github.com/docwell/docwell-backend/utils"
)

// AvailabilityController manages a doctor's recurring weekly windows.
// Windows are single-writer: only the owning doctor may mutate them.
type AvailabilityController struct {
	DB    *gorm.DB
	Cache *cache.SlotCache
}

type windowRequest struct {
	DayOfWeek *int   `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type windowResponse struct {
	ID        uint   `json:"id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func toWindowResponse(w *models.AvailabilityWindow) windowResponse {
	return windowResponse{
		ID:        w.ID,
		DayOfWeek: int(w.DayOfWeek),
		StartTime: w.StartMinute.Clock(),
		EndTime:   w.EndMinute.Clock(),
	}
}

// parseWindow validates the boundary representation (HH:MM strings,
// day 0-6) and converts it to minute counts.
func parseWindow(req *windowRequest) (*models.AvailabilityWindow, string) {
	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return nil, "day_of_week must be between 0 (Sunday) and 6 (Saturday)"
	}
	start, err := models.ParseClock(req.StartTime)
	if err != nil {
		return nil, err.Error()
	}
	end, err := models.ParseClock(req.EndTime)
	if err != nil {
		return nil, err.Error()
	}
	if start >= end {
		return nil, "start_time must be before end_time"
	}
	return &models.AvailabilityWindow{
		DayOfWeek:   models.DayOfWeek(*req.DayOfWeek),
		StartMinute: start,
		EndMinute:   end,
	}, ""
}

// ListWindows returns the authenticated doctor's weekly schedule.
func (wc *AvailabilityController) ListWindows(c *fiber.Ctx) error {
	doctorID, _ := c.Locals("userID").(uint)

	var windows []models.AvailabilityWindow
	if err := wc.DB.Where("doctor_id = ?", doctorID).
		Order("day_of_week, start_minute").Find(&windows).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to fetch availability", "INTERNAL", "unexpected error")
	}

	out := make([]windowResponse, 0, len(windows))
	for i := range windows {
		out = append(out, toWindowResponse(&windows[i]))
	}
	return c.JSON(fiber.Map{"windows": out})
}

// CreateWindow adds a window after checking it does not overlap an
// existing window on the same day.
func (wc *AvailabilityController) CreateWindow(c *fiber.Ctx) error {
	doctorID, _ := c.Locals("userID").(uint)

	var req windowRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Failed to parse request body", "BAD_REQUEST", err.Error())
	}
	window, issue := parseWindow(&req)
	if issue != "" {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid availability window", "INVALID_WINDOW", issue)
	}
	window.DoctorID = doctorID

	if err := wc.rejectOverlap(window, 0); err != nil {
		return utils.Fail(c, fiber.StatusConflict, "Overlapping availability window", "WINDOW_OVERLAP", err.Error())
	}
	if err := wc.DB.Create(window).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to create availability window", "INTERNAL", "unexpected error")
	}

	wc.Cache.InvalidateDoctor(context.Background(), doctorID)
	return c.Status(fiber.StatusCreated).JSON(toWindowResponse(window))
}

// UpdateWindow replaces a window's day and times.
func (wc *AvailabilityController) UpdateWindow(c *fiber.Ctx) error {
	doctorID, _ := c.Locals("userID").(uint)
	id := c.Params("id")

	var existing models.AvailabilityWindow
	if err := wc.DB.Where("doctor_id = ?", doctorID).First(&existing, id).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Availability window not found", "WINDOW_NOT_FOUND", "no such window for this doctor")
	}

	var req windowRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Failed to parse request body", "BAD_REQUEST", err.Error())
	}
	window, issue := parseWindow(&req)
	if issue != "" {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid availability window", "INVALID_WINDOW", issue)
	}

	if err := wc.rejectOverlap(&models.AvailabilityWindow{
		DoctorID:    doctorID,
		DayOfWeek:   window.DayOfWeek,
		StartMinute: window.StartMinute,
		EndMinute:   window.EndMinute,
	}, existing.ID); err != nil {
		return utils.Fail(c, fiber.StatusConflict, "Overlapping availability window", "WINDOW_OVERLAP", err.Error())
	}

	existing.DayOfWeek = window.DayOfWeek
	existing.StartMinute = window.StartMinute
	existing.EndMinute = window.EndMinute
	if err := wc.DB.Save(&existing).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to update availability window", "INTERNAL", "unexpected error")
	}

	wc.Cache.InvalidateDoctor(context.Background(), doctorID)
	return c.JSON(toWindowResponse(&existing))
}

// DeleteWindow removes a window. Appointments already booked inside it
// are untouched; only future bookings are blocked.
func (wc *AvailabilityController) DeleteWindow(c *fiber.Ctx) error {
	doctorID, _ := c.Locals("userID").(uint)
	id := c.Params("id")

	var window models.AvailabilityWindow
	if err := wc.DB.Where("doctor_id = ?", doctorID).First(&window, id).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Availability window not found", "WINDOW_NOT_FOUND", "no such window for this doctor")
	}
	if err := wc.DB.Delete(&window).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to delete availability window", "INTERNAL", "unexpected error")
	}

	wc.Cache.InvalidateDoctor(context.Background(), doctorID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (wc *AvailabilityController) rejectOverlap(candidate *models.AvailabilityWindow, excludeID uint) error {
	var existing []models.AvailabilityWindow
	query := wc.DB.Where("doctor_id = ? AND day_of_week = ?", candidate.DoctorID, candidate.DayOfWeek)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&existing).Error; err != nil {
		return err
	}
	for i := range existing {
		if candidate.Overlaps(&existing[i]) {
			return fmt.Errorf("window overlaps existing window %s-%s",
				existing[i].StartMinute.Clock(), existing[i].EndMinute.Clock())
		}
	}
	return nil
}
