package scheduler

import "errors"

// Sentinel errors for the availability and booking core. Controllers
// map these onto 4xx responses; anything else is a persistence failure
// and surfaces as a 500.
var (
	ErrInvalidWindow       = errors.New("invalid time window")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrSlotConflict        = errors.New("time slot already booked")
	ErrOutsideAvailability = errors.New("slot outside doctor availability")
)
