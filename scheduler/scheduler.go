package scheduler

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/docwell/docwell-backend/models"
)

// Scheduler derives bookable slots from a doctor's recurring weekly
// availability and commits conflict-free bookings against them. It
// holds its dependencies explicitly; nothing here reaches for package
// globals.
type Scheduler struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Scheduler {
	return &Scheduler{db: db}
}

// Date is a plain calendar date. Which instant it denotes depends on
// the doctor's timezone, so it stays free of a location until resolved.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// doctor bundles the user row with its profile; the profile may be
// absent for a freshly registered doctor, in which case UTC applies.
type doctor struct {
	user    models.User
	profile *models.DoctorProfile
}

func (d *doctor) location() *time.Location {
	if d.profile == nil {
		return time.UTC
	}
	return d.profile.Location()
}

func (s *Scheduler) loadDoctor(db *gorm.DB, doctorID uint) (*doctor, error) {
	var user models.User
	if err := db.First(&user, doctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	if user.Role != models.RoleDoctor {
		return nil, ErrDoctorNotFound
	}

	d := &doctor{user: user}
	var profile models.DoctorProfile
	err := db.Where("user_id = ?", doctorID).First(&profile).Error
	switch {
	case err == nil:
		d.profile = &profile
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no profile yet, timezone defaults to UTC
	default:
		return nil, err
	}
	return d, nil
}
