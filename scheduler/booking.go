package scheduler

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/docwell/docwell-backend/models"
)

// BookSlot validates a requested slot against the live availability
// and appointment data and persists the booking. Nothing from an
// earlier ResolveAvailableSlots call is trusted: the window containment
// and overlap checks run again inside the booking transaction, and a
// partial unique index on (doctor_id, appointment_time) over
// non-canceled rows closes the race between two concurrent commits
// for the same slot.
func (s *Scheduler) BookSlot(doctorID, patientID uint, start time.Time, durationMinutes int) (*models.Appointment, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidWindow
	}

	var patient models.User
	if err := s.db.First(&patient, patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	if patient.Role != models.RolePatient {
		return nil, ErrPatientNotFound
	}

	appointment := &models.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentTime: start.UTC(),
		DurationMinutes: durationMinutes,
		Status:          models.StatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		doc, err := s.loadDoctor(tx, doctorID)
		if err != nil {
			return err
		}
		if err := s.checkWithinWindow(tx, doc, doctorID, start, durationMinutes); err != nil {
			return err
		}

		end := appointment.EndTime()
		booked, err := s.bookedIntervals(tx, doctorID, appointment.AppointmentTime, end)
		if err != nil {
			return err
		}
		if intersectsAny(SlotTime{Start: appointment.AppointmentTime, End: end}, booked) {
			return ErrSlotConflict
		}

		if err := tx.Create(appointment).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrSlotConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// checkWithinWindow verifies the requested interval sits inside one of
// the doctor's currently declared windows for that weekday, evaluated
// in the doctor's timezone.
func (s *Scheduler) checkWithinWindow(tx *gorm.DB, doc *doctor, doctorID uint, start time.Time, durationMinutes int) error {
	local := start.In(doc.location())
	startMinute := models.MinuteOfDay(local.Hour()*60 + local.Minute())
	endMinute := startMinute + models.MinuteOfDay(durationMinutes)
	if local.Second() != 0 || local.Nanosecond() != 0 || endMinute > models.MinutesPerDay {
		return ErrOutsideAvailability
	}

	var windows []models.AvailabilityWindow
	if err := tx.
		Where("doctor_id = ? AND day_of_week = ?", doctorID, models.DayOfWeek(local.Weekday())).
		Find(&windows).Error; err != nil {
		return err
	}
	for _, w := range windows {
		if w.Contains(startMinute, endMinute) {
			return nil
		}
	}
	return ErrOutsideAvailability
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
