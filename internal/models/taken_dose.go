package models

import "time"

// TakenDose records that a patient confirmed the dose due on Date.
// (patient_id, date) is unique, so a repeated insert is a no-op.
type TakenDose struct {
	ID        uint      `gorm:"primaryKey"`
	PatientID uint      `gorm:"not null;uniqueIndex:uidx_taken_dose_patient_date"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_taken_dose_patient_date"`
	CreatedAt time.Time
}
