package models

import (
	"gorm.io/gorm"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// AvailabilityWindow is a doctor's recurring weekly availability on one
// weekday. Times are stored as minutes since midnight in the doctor's
// timezone; same-day windows only, no overnight wraparound.
type AvailabilityWindow struct {
	gorm.Model
	DoctorID    uint        `json:"doctor_id" gorm:"index:idx_windows_doctor_day"`
	Doctor      User        `json:"-" gorm:"foreignKey:DoctorID"`
	DayOfWeek   DayOfWeek   `json:"day_of_week" gorm:"index:idx_windows_doctor_day"`
	StartMinute MinuteOfDay `json:"-"`
	EndMinute   MinuteOfDay `json:"-"`
}

// Overlaps reports whether two windows on the same day intersect.
// Touching boundaries do not count as overlap.
func (w *AvailabilityWindow) Overlaps(other *AvailabilityWindow) bool {
	if w.DayOfWeek != other.DayOfWeek {
		return false
	}
	return w.StartMinute < other.EndMinute && other.StartMinute < w.EndMinute
}

// Contains reports whether the [start, end) minute range falls entirely
// inside the window.
func (w *AvailabilityWindow) Contains(start, end MinuteOfDay) bool {
	return start >= w.StartMinute && end <= w.EndMinute
}
