package models

const DefaultDepartment = "Cardiology"

type DoctorProfile struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	UserID         uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	Name           string `gorm:"not null" json:"name"`
	Department     string `gorm:"not null;default:Cardiology" json:"department"`
	ContactNumber  string `json:"contact_number"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}
