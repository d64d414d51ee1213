package models

import (
	"time"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name"`
	Email      string    `json:"email" gorm:"unique"`
	Password   string    `json:"password,omitempty"`
	Role       Role      `json:"role" gorm:"type:varchar(16);default:'patient';index"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	DoctorProfile *DoctorProfile `json:"doctor_profile,omitempty" gorm:"foreignKey:UserID"`
}
