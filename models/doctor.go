package models

import (
	"time"

	"gorm.io/gorm"
)

// DoctorProfile carries the practice details shown on doctor listings.
// The availability and booking logic only reads TimeZone and
// PracticeStartDate from here.
type DoctorProfile struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"uniqueIndex"`
	User              User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Specialization    string     `json:"specialization"`
	ClinicName        string     `json:"clinic_name"`
	ClinicAddress     string     `json:"clinic_address"`
	City              string     `json:"city"`
	ConsultationFee   float64    `json:"consultation_fee"`
	PracticeStartDate *time.Time `json:"practice_start_date"`
	TimeZone          string     `json:"time_zone" gorm:"default:'UTC'"`
	IsVerified        bool       `json:"is_verified" gorm:"default:false"`
	ProfilePicture    string     `json:"profile_picture"`
}

// Location resolves the doctor's IANA timezone, falling back to UTC
// when unset or unknown.
func (p *DoctorProfile) Location() *time.Location {
	if p.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
