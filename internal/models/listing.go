package models

// DoctorRecord joins a doctor profile with its login.
type DoctorRecord struct {
	DoctorProfile
	LoginID  string `gorm:"column:login_id" json:"login_id"`
	IsActive bool   `gorm:"column:is_active" json:"is_active"`
}

// PatientRecord joins a patient profile with its login id, the OP number.
type PatientRecord struct {
	PatientProfile
	LoginID string `gorm:"column:login_id" json:"op_num"`
}

// DoctorListFilter narrows doctor listings. Empty fields do not filter.
type DoctorListFilter struct {
	Department string
	IsActive   *bool
	Search     string
	Offset     int
	Limit      int
}

type PatientListFilter struct {
	AssignedDoctorID uint
	AccountStatus    string
	Search           string
	Offset           int
	Limit            int
}
