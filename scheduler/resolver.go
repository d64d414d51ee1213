package scheduler

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/docwell/docwell-backend/models"
)

// SlotTime is a resolved slot anchored to a calendar date, in UTC.
type SlotTime struct {
	Start time.Time
	End   time.Time
}

// ResolveAvailableSlots computes the currently bookable slots for a
// doctor on a calendar date: the doctor's windows for that weekday
// (weekday taken in the doctor's timezone) expanded into slots, minus
// every slot whose interval intersects a non-canceled appointment.
//
// The result is a point-in-time snapshot, not a reservation; BookSlot
// re-validates at commit time. An empty result means fully booked and
// not-working-that-day alike.
func (s *Scheduler) ResolveAvailableSlots(doctorID uint, date Date, durationMinutes int) ([]SlotTime, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidWindow
	}
	doc, err := s.loadDoctor(s.db, doctorID)
	if err != nil {
		return nil, err
	}
	return s.resolveForDoctor(s.db, doc, doctorID, date, durationMinutes)
}

func (s *Scheduler) resolveForDoctor(db *gorm.DB, doc *doctor, doctorID uint, date Date, durationMinutes int) ([]SlotTime, error) {
	loc := doc.location()
	dayStart := time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var windows []models.AvailabilityWindow
	if err := db.
		Where("doctor_id = ? AND day_of_week = ?", doctorID, models.DayOfWeek(dayStart.Weekday())).
		Find(&windows).Error; err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return []SlotTime{}, nil
	}

	var candidates []SlotTime
	for _, w := range windows {
		slots, err := GenerateSlots(w.StartMinute, w.EndMinute, durationMinutes)
		if err != nil {
			return nil, err
		}
		for _, slot := range slots {
			candidates = append(candidates, SlotTime{
				Start: slot.Start.At(date.Year, date.Month, date.Day, loc).UTC(),
				End:   slot.End.At(date.Year, date.Month, date.Day, loc).UTC(),
			})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Start.Before(candidates[j].Start) })

	booked, err := s.bookedIntervals(db, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	available := make([]SlotTime, 0, len(candidates))
	for _, slot := range candidates {
		if !intersectsAny(slot, booked) {
			available = append(available, slot)
		}
	}
	return available, nil
}

// bookedIntervals fetches the intervals of every blocking appointment
// that could intersect [dayStart, dayEnd). The query over-fetches by a
// day on the left so appointments straddling midnight are caught, then
// filters precisely in memory.
func (s *Scheduler) bookedIntervals(db *gorm.DB, doctorID uint, dayStart, dayEnd time.Time) ([]SlotTime, error) {
	var appointments []models.Appointment
	if err := db.
		Where("doctor_id = ? AND appointment_time >= ? AND appointment_time < ?",
			doctorID, dayStart.UTC().AddDate(0, 0, -1), dayEnd.UTC()).
		Find(&appointments).Error; err != nil {
		return nil, err
	}

	intervals := make([]SlotTime, 0, len(appointments))
	for _, a := range appointments {
		if a.Blocks() && a.EndTime().After(dayStart) {
			intervals = append(intervals, SlotTime{Start: a.AppointmentTime, End: a.EndTime()})
		}
	}
	return intervals, nil
}

// intersectsAny uses strict inequalities: intervals that merely touch
// at a boundary do not conflict.
func intersectsAny(slot SlotTime, booked []SlotTime) bool {
	for _, b := range booked {
		if b.Start.Before(slot.End) && b.End.After(slot.Start) {
			return true
		}
	}
	return false
}

// ResolveAvailableDates lists the dates of a month on which the doctor
// has at least one bookable slot. It is a convenience aggregate over
// ResolveAvailableSlots, re-derived per date.
func (s *Scheduler) ResolveAvailableDates(doctorID uint, year int, month time.Month, durationMinutes int) ([]string, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidWindow
	}
	doc, err := s.loadDoctor(s.db, doctorID)
	if err != nil {
		return nil, err
	}

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	dates := make([]string, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := Date{Year: year, Month: month, Day: day}
		slots, err := s.resolveForDoctor(s.db, doc, doctorID, date, durationMinutes)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			dates = append(dates, date.String())
		}
	}
	return dates, nil
}
