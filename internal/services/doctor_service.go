package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/vitalink/internal/models"
)

type DoctorOverview struct {
	Doctor        models.DoctorRecord `json:"doctor"`
	PatientsCount int64               `json:"patients_count"`
}

// ReportReview is a doctor's annotation of a submitted INR report.
type ReportReview struct {
	IsCritical *bool   `json:"is_critical"`
	Notes      *string `json:"notes"`
}

type DoctorService struct {
	users    AccountUserRepository
	doctors  ClinicDoctorRepository
	patients ClinicPatientRepository
	reports  INRReportRepository
	location *time.Location
}

func NewDoctorService(
	users AccountUserRepository,
	doctors ClinicDoctorRepository,
	patients ClinicPatientRepository,
	reports INRReportRepository,
	location *time.Location,
) *DoctorService {
	if location == nil {
		location = time.UTC
	}
	return &DoctorService{
		users:    users,
		doctors:  doctors,
		patients: patients,
		reports:  reports,
		location: location,
	}
}

func (service *DoctorService) ListPatients(doctorUserID uint) ([]models.PatientRecord, error) {
	records, _, err := service.patients.List(models.PatientListFilter{AssignedDoctorID: doctorUserID})
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return records, nil
}

// AssignedPatient resolves an OP number and checks that the patient is under
// this doctor's care.
func (service *DoctorService) AssignedPatient(doctorUserID uint, opNum string) (models.PatientRecord, error) {
	record, err := findPatientRecord(service.patients, opNum)
	if err != nil {
		return models.PatientRecord{}, err
	}
	if record.AssignedDoctorID != doctorUserID {
		return models.PatientRecord{}, ErrPatientNotAssigned
	}
	return record, nil
}

func (service *DoctorService) CreatePatient(doctorUserID uint, input CreatePatientInput) (models.PatientRecord, error) {
	return createPatientAccount(service.users, doctorUserID, input, service.location)
}

func (service *DoctorService) ReassignPatient(doctorUserID uint, opNum string, newDoctorLoginID string) (models.PatientRecord, error) {
	record, err := service.AssignedPatient(doctorUserID, opNum)
	if err != nil {
		return models.PatientRecord{}, err
	}
	return reassignPatient(service.users, service.patients, record, newDoctorLoginID)
}

func (service *DoctorService) UpdateDosage(doctorUserID uint, opNum string, prescription *models.DosageSchedule) (models.PatientRecord, error) {
	if prescription == nil {
		return models.PatientRecord{}, ErrMissingTherapyConfiguration
	}
	return service.patchAssigned(doctorUserID, opNum, PatientProfilePatch{WeeklyDosage: prescription})
}

func (service *DoctorService) UpdateNextReview(doctorUserID uint, opNum string, rawDate string) (models.PatientRecord, error) {
	if _, err := ParseDate(rawDate); err != nil {
		return models.PatientRecord{}, err
	}
	return service.patchAssigned(doctorUserID, opNum, PatientProfilePatch{NextReviewDate: &rawDate})
}

func (service *DoctorService) UpdateInstructions(doctorUserID uint, opNum string, instructions []string) (models.PatientRecord, error) {
	if instructions == nil {
		return models.PatientRecord{}, ErrInvalidInstructions
	}
	return service.patchAssigned(doctorUserID, opNum, PatientProfilePatch{Instructions: &instructions})
}

func (service *DoctorService) Report(doctorUserID uint, opNum string, reportID uint) (models.INRReport, error) {
	record, err := service.AssignedPatient(doctorUserID, opNum)
	if err != nil {
		return models.INRReport{}, err
	}
	report, found, err := service.reports.FindByPatientAndID(record.ID, reportID)
	if err != nil {
		return models.INRReport{}, fmt.Errorf("load report: %w", err)
	}
	if !found {
		return models.INRReport{}, ErrReportNotFound
	}
	return report, nil
}

func (service *DoctorService) ReviewReport(doctorUserID uint, opNum string, reportID uint, review ReportReview) (models.INRReport, error) {
	report, err := service.Report(doctorUserID, opNum, reportID)
	if err != nil {
		return models.INRReport{}, err
	}
	if review.IsCritical != nil {
		report.IsCritical = *review.IsCritical
	}
	if review.Notes != nil {
		report.Notes = strings.TrimSpace(*review.Notes)
	}
	if err := service.reports.Save(&report); err != nil {
		return models.INRReport{}, fmt.Errorf("save report: %w", err)
	}
	return report, nil
}

func (service *DoctorService) Overview(doctorUserID uint) (DoctorOverview, error) {
	record, found, err := service.doctors.FindRecordByUserID(doctorUserID)
	if err != nil {
		return DoctorOverview{}, fmt.Errorf("load doctor: %w", err)
	}
	if !found {
		return DoctorOverview{}, ErrDoctorNotFound
	}
	count, err := service.patients.CountByDoctor(doctorUserID)
	if err != nil {
		return DoctorOverview{}, fmt.Errorf("count patients: %w", err)
	}
	return DoctorOverview{Doctor: record, PatientsCount: count}, nil
}

func (service *DoctorService) UpdateProfile(doctorUserID uint, patch DoctorProfilePatch) error {
	updates, err := patch.updates()
	if err != nil {
		return err
	}
	return service.doctors.UpdateByUserID(doctorUserID, updates)
}

func (service *DoctorService) UpdateProfilePicture(doctorUserID uint, fileKey string) error {
	return service.doctors.UpdateByUserID(doctorUserID, map[string]any{"profile_picture": fileKey})
}

func (service *DoctorService) ListDoctors() ([]models.DoctorRecord, error) {
	active := true
	records, _, err := service.doctors.List(models.DoctorListFilter{IsActive: &active})
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return records, nil
}

func (service *DoctorService) patchAssigned(doctorUserID uint, opNum string, patch PatientProfilePatch) (models.PatientRecord, error) {
	record, err := service.AssignedPatient(doctorUserID, opNum)
	if err != nil {
		return models.PatientRecord{}, err
	}
	return savePatientPatch(service.patients, record, patch, service.location)
}

func savePatientPatch(patients ClinicPatientRepository, record models.PatientRecord, patch PatientProfilePatch, location *time.Location) (models.PatientRecord, error) {
	updated, err := ApplyPatientPatch(record.PatientProfile, patch, location)
	if err != nil {
		return models.PatientRecord{}, err
	}
	if err := patients.Save(&updated); err != nil {
		return models.PatientRecord{}, fmt.Errorf("save patient profile: %w", err)
	}
	record.PatientProfile = updated
	return record, nil
}

func reassignPatient(users AccountUserRepository, patients ClinicPatientRepository, record models.PatientRecord, newDoctorLoginID string) (models.PatientRecord, error) {
	doctor, err := resolveDoctorUser(users, newDoctorLoginID)
	if err != nil {
		return models.PatientRecord{}, err
	}
	if err := patients.UpdateByID(record.ID, map[string]any{"assigned_doctor_id": doctor.ID}); err != nil {
		return models.PatientRecord{}, fmt.Errorf("reassign patient: %w", err)
	}
	record.AssignedDoctorID = doctor.ID
	return record, nil
}
