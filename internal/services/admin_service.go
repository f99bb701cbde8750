package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/vitalink/internal/models"
)

type DoctorQuery struct {
	Department string
	IsActive   *bool
	Search     string
	Page       int
	Limit      int
}

type PatientQuery struct {
	AccountStatus string
	Search        string
	Page          int
	Limit         int
}

type DoctorPage struct {
	Doctors    []models.DoctorRecord `json:"doctors"`
	Pagination Pagination            `json:"pagination"`
}

type PatientPage struct {
	Patients   []models.PatientRecord `json:"patients"`
	Pagination Pagination             `json:"pagination"`
}

// AdminDoctorUpdate extends the doctor profile patch with account fields.
type AdminDoctorUpdate struct {
	DoctorProfilePatch
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

type AdminService struct {
	users    AccountUserRepository
	doctors  ClinicDoctorRepository
	patients ClinicPatientRepository
	location *time.Location
}

func NewAdminService(users AccountUserRepository, doctors ClinicDoctorRepository, patients ClinicPatientRepository, location *time.Location) *AdminService {
	if location == nil {
		location = time.UTC
	}
	return &AdminService{
		users:    users,
		doctors:  doctors,
		patients: patients,
		location: location,
	}
}

func (service *AdminService) CreateDoctor(input CreateDoctorInput) (models.DoctorRecord, error) {
	return createDoctorAccount(service.users, input)
}

func (service *AdminService) ListDoctors(query DoctorQuery) (DoctorPage, error) {
	page, limit := NormalizePage(query.Page, query.Limit)
	records, total, err := service.doctors.List(models.DoctorListFilter{
		Department: query.Department,
		IsActive:   query.IsActive,
		Search:     query.Search,
		Offset:     (page - 1) * limit,
		Limit:      limit,
	})
	if err != nil {
		return DoctorPage{}, fmt.Errorf("list doctors: %w", err)
	}
	return DoctorPage{Doctors: records, Pagination: NewPagination(total, page, limit)}, nil
}

func (service *AdminService) Doctor(doctorUserID uint) (models.DoctorRecord, error) {
	record, found, err := service.doctors.FindRecordByUserID(doctorUserID)
	if err != nil {
		return models.DoctorRecord{}, fmt.Errorf("load doctor: %w", err)
	}
	if !found {
		return models.DoctorRecord{}, ErrDoctorNotFound
	}
	return record, nil
}

func (service *AdminService) UpdateDoctor(doctorUserID uint, update AdminDoctorUpdate) (models.DoctorRecord, error) {
	record, err := service.Doctor(doctorUserID)
	if err != nil {
		return models.DoctorRecord{}, err
	}

	updates, err := update.updates()
	if err != nil {
		return models.DoctorRecord{}, err
	}
	var passwordHash string
	if update.Password != nil {
		if err := ValidatePasswordStrength(*update.Password); err != nil {
			return models.DoctorRecord{}, err
		}
		if passwordHash, err = HashPassword(*update.Password); err != nil {
			return models.DoctorRecord{}, err
		}
	}

	if err := service.doctors.UpdateByUserID(record.UserID, updates); err != nil {
		return models.DoctorRecord{}, fmt.Errorf("update doctor: %w", err)
	}
	if update.IsActive != nil {
		if err := service.users.UpdateActive(record.UserID, *update.IsActive); err != nil {
			return models.DoctorRecord{}, fmt.Errorf("update doctor status: %w", err)
		}
	}
	if passwordHash != "" {
		if err := service.users.UpdatePassword(record.UserID, passwordHash, true); err != nil {
			return models.DoctorRecord{}, fmt.Errorf("update doctor password: %w", err)
		}
	}
	return service.Doctor(record.UserID)
}

// CreatePatient requires the assigned doctor's login id in the input.
func (service *AdminService) CreatePatient(input CreatePatientInput) (models.PatientRecord, error) {
	doctor, err := resolveDoctorUser(service.users, input.AssignedDoctorID)
	if err != nil {
		return models.PatientRecord{}, err
	}
	return createPatientAccount(service.users, doctor.ID, input, service.location)
}

func (service *AdminService) ListPatients(query PatientQuery) (PatientPage, error) {
	page, limit := NormalizePage(query.Page, query.Limit)
	records, total, err := service.patients.List(models.PatientListFilter{
		AccountStatus: query.AccountStatus,
		Search:        query.Search,
		Offset:        (page - 1) * limit,
		Limit:         limit,
	})
	if err != nil {
		return PatientPage{}, fmt.Errorf("list patients: %w", err)
	}
	return PatientPage{Patients: records, Pagination: NewPagination(total, page, limit)}, nil
}

func (service *AdminService) Patient(opNum string) (models.PatientRecord, error) {
	return findPatientRecord(service.patients, opNum)
}

func (service *AdminService) UpdatePatient(opNum string, patch PatientProfilePatch) (models.PatientRecord, error) {
	record, err := findPatientRecord(service.patients, opNum)
	if err != nil {
		return models.PatientRecord{}, err
	}
	return savePatientPatch(service.patients, record, patch, service.location)
}

func (service *AdminService) ReassignPatient(opNum string, newDoctorLoginID string) (models.PatientRecord, error) {
	record, err := findPatientRecord(service.patients, opNum)
	if err != nil {
		return models.PatientRecord{}, err
	}
	return reassignPatient(service.users, service.patients, record, newDoctorLoginID)
}
