package models

import "time"

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"

	AccountActive     = "Active"
	AccountDischarged = "Discharged"
	AccountDeceased   = "Deceased"

	DefaultTargetINRMin = 2.0
	DefaultTargetINRMax = 3.0
)

// DosageSchedule is the persisted weekly prescription, one amount per weekday.
type DosageSchedule struct {
	Monday    float64 `json:"monday"`
	Tuesday   float64 `json:"tuesday"`
	Wednesday float64 `json:"wednesday"`
	Thursday  float64 `json:"thursday"`
	Friday    float64 `json:"friday"`
	Saturday  float64 `json:"saturday"`
	Sunday    float64 `json:"sunday"`
}

type MedicalHistoryEntry struct {
	Diagnosis     string `json:"diagnosis,omitempty"`
	DurationValue int    `json:"duration_value,omitempty"`
	DurationUnit  string `json:"duration_unit,omitempty"`
}

type PatientProfile struct {
	ID               uint                  `gorm:"primaryKey" json:"id"`
	UserID           uint                  `gorm:"not null;uniqueIndex" json:"user_id"`
	AssignedDoctorID uint                  `gorm:"not null;index" json:"assigned_doctor_id"`
	Name             string                `gorm:"not null" json:"name"`
	Age              int                   `json:"age,omitempty"`
	Gender           string                `json:"gender,omitempty"`
	Phone            string                `json:"phone,omitempty"`
	KinName          string                `json:"kin_name,omitempty"`
	KinRelation      string                `json:"kin_relation,omitempty"`
	KinPhone         string                `json:"kin_phone,omitempty"`
	Diagnosis        string                `json:"diagnosis,omitempty"`
	TherapyDrug      string                `json:"therapy_drug,omitempty"`
	TherapyStartDate *time.Time            `gorm:"type:date" json:"therapy_start_date,omitempty"`
	TargetINRMin     float64               `gorm:"not null;default:2" json:"target_inr_min"`
	TargetINRMax     float64               `gorm:"not null;default:3" json:"target_inr_max"`
	NextReviewDate   *time.Time            `gorm:"type:date" json:"next_review_date,omitempty"`
	Instructions     []string              `gorm:"serializer:json" json:"instructions"`
	WeeklyDosage     *DosageSchedule       `gorm:"serializer:json" json:"weekly_dosage,omitempty"`
	MedicalHistory   []MedicalHistoryEntry `gorm:"serializer:json" json:"medical_history"`
	AccountStatus    string                `gorm:"not null;default:Active" json:"account_status"`
	ProfilePicture   string                `json:"profile_picture,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}
