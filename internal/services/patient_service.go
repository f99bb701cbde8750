package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/vitalink/internal/models"
)

type PatientProfileRepository interface {
	FindByUserID(userID uint) (models.PatientProfile, bool, error)
	FindRecordByUserID(userID uint) (models.PatientRecord, bool, error)
	Save(profile *models.PatientProfile) error
	UpdateByID(profileID uint, updates map[string]any) error
}

type PatientDoctorLookup interface {
	FindRecordByUserID(userID uint) (models.DoctorRecord, bool, error)
}

type INRReportRepository interface {
	Create(report *models.INRReport) error
	ListByPatient(patientID uint) ([]models.INRReport, error)
	FindByPatientAndID(patientID uint, reportID uint) (models.INRReport, bool, error)
	Save(report *models.INRReport) error
}

type HealthLogRepository interface {
	Upsert(entry *models.HealthLog) error
	ListByPatient(patientID uint) ([]models.HealthLog, error)
}

type PatientOverview struct {
	Patient models.PatientRecord `json:"patient"`
	Doctor  *models.DoctorRecord `json:"doctor,omitempty"`
}

type PatientReports struct {
	INRHistory   []models.INRReport     `json:"inr_history"`
	HealthLogs   []models.HealthLog     `json:"health_logs"`
	WeeklyDosage *models.DosageSchedule `json:"weekly_dosage,omitempty"`
	TargetINRMin float64                `json:"target_inr_min"`
	TargetINRMax float64                `json:"target_inr_max"`
}

type INRReportInput struct {
	INRValue string
	TestDate string
	FileKey  string
	Notes    string
}

type HealthLogInput struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

type PatientService struct {
	patients   PatientProfileRepository
	doctors    PatientDoctorLookup
	reports    INRReportRepository
	healthLogs HealthLogRepository
	location   *time.Location
	now        func() time.Time
}

func NewPatientService(
	patients PatientProfileRepository,
	doctors PatientDoctorLookup,
	reports INRReportRepository,
	healthLogs HealthLogRepository,
	location *time.Location,
) *PatientService {
	if location == nil {
		location = time.UTC
	}
	return &PatientService{
		patients:   patients,
		doctors:    doctors,
		reports:    reports,
		healthLogs: healthLogs,
		location:   location,
		now:        time.Now,
	}
}

func (service *PatientService) WithClock(now func() time.Time) *PatientService {
	if now != nil {
		service.now = now
	}
	return service
}

func (service *PatientService) Overview(userID uint) (PatientOverview, error) {
	record, found, err := service.patients.FindRecordByUserID(userID)
	if err != nil {
		return PatientOverview{}, fmt.Errorf("load patient: %w", err)
	}
	if !found {
		return PatientOverview{}, ErrPatientNotFound
	}

	overview := PatientOverview{Patient: record}
	doctor, found, err := service.doctors.FindRecordByUserID(record.AssignedDoctorID)
	if err != nil {
		return PatientOverview{}, fmt.Errorf("load assigned doctor: %w", err)
	}
	if found {
		overview.Doctor = &doctor
	}
	return overview, nil
}

func (service *PatientService) UpdateProfile(userID uint, patch PatientProfilePatch) (models.PatientProfile, error) {
	profile, err := service.load(userID)
	if err != nil {
		return models.PatientProfile{}, err
	}

	updated, err := ApplyPatientPatch(profile, patch.SelfServiceFields(), service.location)
	if err != nil {
		return models.PatientProfile{}, err
	}
	if err := service.patients.Save(&updated); err != nil {
		return models.PatientProfile{}, fmt.Errorf("save patient profile: %w", err)
	}
	return updated, nil
}

// SubmitReport stores an INR result and flags it critical when the value
// falls outside the patient's target range.
func (service *PatientService) SubmitReport(userID uint, input INRReportInput) (models.INRReport, error) {
	profile, err := service.load(userID)
	if err != nil {
		return models.INRReport{}, err
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(input.INRValue), 64)
	if err != nil {
		return models.INRReport{}, ErrInvalidINRValue
	}
	if err := ValidateINRValue(value); err != nil {
		return models.INRReport{}, err
	}
	testDate, err := ParseDate(input.TestDate)
	if err != nil {
		return models.INRReport{}, err
	}

	report := models.INRReport{
		PatientID:  profile.ID,
		TestDate:   testDate.Time(service.location),
		UploadedAt: service.now().UTC(),
		INRValue:   value,
		IsCritical: IsCriticalINR(value, profile.TargetINRMin, profile.TargetINRMax),
		FileKey:    strings.TrimSpace(input.FileKey),
		Notes:      strings.TrimSpace(input.Notes),
	}
	if err := service.reports.Create(&report); err != nil {
		return models.INRReport{}, fmt.Errorf("store inr report: %w", err)
	}
	return report, nil
}

func (service *PatientService) Reports(userID uint) (PatientReports, error) {
	profile, err := service.load(userID)
	if err != nil {
		return PatientReports{}, err
	}
	return service.ReportsForProfile(profile)
}

func (service *PatientService) ReportsForProfile(profile models.PatientProfile) (PatientReports, error) {
	reports, err := service.reports.ListByPatient(profile.ID)
	if err != nil {
		return PatientReports{}, fmt.Errorf("list inr reports: %w", err)
	}
	healthLogs, err := service.healthLogs.ListByPatient(profile.ID)
	if err != nil {
		return PatientReports{}, fmt.Errorf("list health logs: %w", err)
	}
	return PatientReports{
		INRHistory:   reports,
		HealthLogs:   healthLogs,
		WeeklyDosage: profile.WeeklyDosage,
		TargetINRMin: profile.TargetINRMin,
		TargetINRMax: profile.TargetINRMax,
	}, nil
}

// UpsertHealthLog replaces the patient's entry of the same type.
func (service *PatientService) UpsertHealthLog(userID uint, input HealthLogInput) (models.HealthLog, error) {
	profile, err := service.load(userID)
	if err != nil {
		return models.HealthLog{}, err
	}

	logType, err := NormalizeHealthLogType(input.Type)
	if err != nil {
		return models.HealthLog{}, err
	}
	severity, err := NormalizeSeverity(input.Severity)
	if err != nil {
		return models.HealthLog{}, err
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return models.HealthLog{}, ErrHealthLogDescriptionRequired
	}

	entry := models.HealthLog{
		PatientID:   profile.ID,
		Type:        logType,
		Description: description,
		Severity:    severity,
		Date:        service.now().UTC(),
	}
	if err := service.healthLogs.Upsert(&entry); err != nil {
		return models.HealthLog{}, fmt.Errorf("store health log: %w", err)
	}
	return entry, nil
}

func (service *PatientService) UpdateProfilePicture(userID uint, fileKey string) error {
	profile, err := service.load(userID)
	if err != nil {
		return err
	}
	return service.patients.UpdateByID(profile.ID, map[string]any{"profile_picture": fileKey})
}

func (service *PatientService) load(userID uint) (models.PatientProfile, error) {
	profile, found, err := service.patients.FindByUserID(userID)
	if err != nil {
		return models.PatientProfile{}, fmt.Errorf("load patient profile: %w", err)
	}
	if !found {
		return models.PatientProfile{}, ErrPatientNotFound
	}
	return profile, nil
}
