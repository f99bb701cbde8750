package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	LoginID            string    `gorm:"uniqueIndex;not null" json:"login_id"`
	PasswordHash       string    `gorm:"not null" json:"-"`
	Role               string    `gorm:"not null" json:"role"`
	IsActive           bool      `gorm:"not null;default:true" json:"is_active"`
	MustChangePassword bool      `gorm:"not null;default:false" json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	default:
		return false
	}
}
