package db

import "gorm.io/gorm"

type Repositories struct {
	Users      *UserRepository
	Doctors    *DoctorRepository
	Patients   *PatientRepository
	TakenDoses *TakenDoseRepository
	INRReports *INRReportRepository
	HealthLogs *HealthLogRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(database),
		Doctors:    NewDoctorRepository(database),
		Patients:   NewPatientRepository(database),
		TakenDoses: NewTakenDoseRepository(database),
		INRReports: NewINRReportRepository(database),
		HealthLogs: NewHealthLogRepository(database),
	}
}
