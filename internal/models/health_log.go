package models

import "time"

const (
	HealthLogSideEffect = "SIDE_EFFECT"
	HealthLogIllness    = "ILLNESS"
	HealthLogLifestyle  = "LIFESTYLE"
	HealthLogOtherMeds  = "OTHER_MEDS"

	SeverityNormal    = "Normal"
	SeverityHigh      = "High"
	SeverityEmergency = "Emergency"
)

type HealthLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PatientID   uint      `gorm:"not null;uniqueIndex:uidx_health_log_patient_type" json:"patient_id"`
	Type        string    `gorm:"not null;uniqueIndex:uidx_health_log_patient_type" json:"type"`
	Description string    `gorm:"not null" json:"description"`
	Severity    string    `gorm:"not null;default:Normal" json:"severity"`
	Date        time.Time `gorm:"not null" json:"date"`
	IsResolved  bool      `gorm:"not null;default:false" json:"is_resolved"`
}
