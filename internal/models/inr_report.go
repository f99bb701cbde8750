package models

import "time"

type INRReport struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PatientID  uint      `gorm:"not null;index" json:"patient_id"`
	TestDate   time.Time `gorm:"type:date;not null" json:"test_date"`
	UploadedAt time.Time `gorm:"not null" json:"uploaded_at"`
	INRValue   float64   `gorm:"column:inr_value;not null" json:"inr_value"`
	IsCritical bool      `gorm:"not null;default:false" json:"is_critical"`
	FileKey    string    `json:"file_key,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}
