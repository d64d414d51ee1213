package db

import (
	"gorm.io/gorm"

	"github.com/docwell/docwell-backend/models"
)

// Migrate applies the schema. Besides AutoMigrate it installs the
// partial unique index that makes the booking commit atomic: no two
// non-canceled appointments may share (doctor_id, appointment_time),
// while canceled rows stay out of the way of rebooking.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.DoctorProfile{},
		&models.AvailabilityWindow{},
		&models.Appointment{},
	); err != nil {
		return err
	}

	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_doctor_slot
		ON appointments (doctor_id, appointment_time)
		WHERE status <> 'canceled'
	`).Error
}
