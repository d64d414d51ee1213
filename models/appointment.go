package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCanceled  AppointmentStatus = "canceled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment is a booked slot. Rows are never physically deleted;
// cancellation is a status change so the history stays auditable.
type Appointment struct {
	gorm.Model
	Reference       string            `json:"reference" gorm:"uniqueIndex;size:36"`
	DoctorID        uint              `json:"doctor_id" gorm:"index"`
	Doctor          User              `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	PatientID       uint              `json:"patient_id" gorm:"index"`
	Patient         User              `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	AppointmentTime time.Time         `json:"appointment_time"`
	DurationMinutes int               `json:"duration_minutes"`
	Status          AppointmentStatus `json:"status"`
	Note            string            `json:"note"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.Reference == "" {
		a.Reference = uuid.NewString()
	}
	return nil
}

// EndTime is the exclusive end of the appointment interval.
func (a *Appointment) EndTime() time.Time {
	return a.AppointmentTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Blocks reports whether the appointment occupies its interval for
// booking purposes. Every status except canceled blocks the slot.
func (a *Appointment) Blocks() bool {
	return a.Status != StatusCanceled
}

// CanTransitionTo validates a status change against the appointment
// lifecycle: pending may confirm or cancel, confirmed may complete or
// cancel, completed and canceled are terminal.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) error {
	switch a.Status {
	case StatusPending:
		if next != StatusConfirmed && next != StatusCanceled {
			return fmt.Errorf("invalid transition from pending to %s", next)
		}
	case StatusConfirmed:
		if next != StatusCompleted && next != StatusCanceled {
			return fmt.Errorf("invalid transition from confirmed to %s", next)
		}
	case StatusCompleted, StatusCanceled:
		return fmt.Errorf("no transitions allowed from %s", a.Status)
	}
	return nil
}

// UpdateStatus applies a validated status transition and persists it.
func (a *Appointment) UpdateStatus(tx *gorm.DB, next AppointmentStatus) error {
	if err := a.CanTransitionTo(next); err != nil {
		return err
	}
	a.Status = next
	return tx.Save(a).Error
}
