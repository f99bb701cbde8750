package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/vitalink/internal/models"
)

var (
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrTargetDoctorNotFound = errors.New("target doctor not found")
	ErrDoctorNameRequired   = errors.New("doctor name is required")
	ErrContactRequired      = errors.New("contact number is required for the temporary password")
	ErrPatientNotAssigned   = errors.New("patient is not assigned to this doctor")
	ErrReportNotFound       = errors.New("report not found")
)

type AccountUserRepository interface {
	FindByLoginID(loginID string) (models.User, bool, error)
	ExistsByLoginID(loginID string) (bool, error)
	CreateDoctorAccount(user *models.User, profile *models.DoctorProfile) error
	CreatePatientAccount(user *models.User, profile *models.PatientProfile) error
	UpdateActive(userID uint, isActive bool) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
}

type ClinicPatientRepository interface {
	FindRecordByLoginID(loginID string) (models.PatientRecord, bool, error)
	List(filter models.PatientListFilter) ([]models.PatientRecord, int64, error)
	CountByDoctor(doctorUserID uint) (int64, error)
	Save(profile *models.PatientProfile) error
	UpdateByID(profileID uint, updates map[string]any) error
}

type ClinicDoctorRepository interface {
	FindRecordByUserID(userID uint) (models.DoctorRecord, bool, error)
	List(filter models.DoctorListFilter) ([]models.DoctorRecord, int64, error)
	UpdateByUserID(userID uint, updates map[string]any) error
}

// CreatePatientInput is shared by doctors and admins. A blank password makes
// the contact number the temporary password.
type CreatePatientInput struct {
	OPNum            string                       `json:"op_num"`
	Password         string                       `json:"password"`
	AssignedDoctorID string                       `json:"assigned_doctor_id"`
	Name             string                       `json:"name"`
	Age              int                          `json:"age"`
	Gender           string                       `json:"gender"`
	ContactNo        string                       `json:"contact_no"`
	KinName          string                       `json:"kin_name"`
	KinRelation      string                       `json:"kin_relation"`
	KinContactNumber string                       `json:"kin_contact_number"`
	Diagnosis        string                       `json:"diagnosis"`
	Therapy          string                       `json:"therapy"`
	TherapyStartDate string                       `json:"therapy_start_date"`
	TargetINRMin     *float64                     `json:"target_inr_min"`
	TargetINRMax     *float64                     `json:"target_inr_max"`
	Prescription     *models.DosageSchedule       `json:"prescription"`
	MedicalHistory   []models.MedicalHistoryEntry `json:"medical_history"`
}

type CreateDoctorInput struct {
	LoginID       string `json:"login_id"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	Department    string `json:"department"`
	ContactNumber string `json:"contact_number"`
}

type DoctorProfilePatch struct {
	Name          *string `json:"name"`
	Department    *string `json:"department"`
	ContactNumber *string `json:"contact_number"`
}

func (patch DoctorProfilePatch) updates() (map[string]any, error) {
	updates := make(map[string]any)
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrDoctorNameRequired
		}
		updates["name"] = name
	}
	if patch.Department != nil {
		department := strings.TrimSpace(*patch.Department)
		if department == "" {
			department = models.DefaultDepartment
		}
		updates["department"] = department
	}
	if patch.ContactNumber != nil {
		updates["contact_number"] = strings.TrimSpace(*patch.ContactNumber)
	}
	return updates, nil
}

func createDoctorAccount(users AccountUserRepository, input CreateDoctorInput) (models.DoctorRecord, error) {
	loginID := NormalizeLoginID(input.LoginID)
	if err := ValidateLoginID(loginID); err != nil {
		return models.DoctorRecord{}, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.DoctorRecord{}, ErrDoctorNameRequired
	}
	if err := ValidatePasswordStrength(input.Password); err != nil {
		return models.DoctorRecord{}, err
	}
	if err := ensureLoginIDFree(users, loginID); err != nil {
		return models.DoctorRecord{}, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return models.DoctorRecord{}, err
	}
	department := strings.TrimSpace(input.Department)
	if department == "" {
		department = models.DefaultDepartment
	}

	user := models.User{
		LoginID:      loginID,
		PasswordHash: hash,
		Role:         models.RoleDoctor,
		IsActive:     true,
	}
	profile := models.DoctorProfile{
		Name:          name,
		Department:    department,
		ContactNumber: strings.TrimSpace(input.ContactNumber),
	}
	if err := users.CreateDoctorAccount(&user, &profile); err != nil {
		return models.DoctorRecord{}, fmt.Errorf("create doctor account: %w", err)
	}
	return models.DoctorRecord{DoctorProfile: profile, LoginID: user.LoginID, IsActive: user.IsActive}, nil
}

func createPatientAccount(users AccountUserRepository, doctorUserID uint, input CreatePatientInput, location *time.Location) (models.PatientRecord, error) {
	loginID := NormalizeLoginID(input.OPNum)
	if err := ValidateLoginID(loginID); err != nil {
		return models.PatientRecord{}, err
	}

	password := strings.TrimSpace(input.Password)
	mustChange := false
	if password == "" {
		password = strings.TrimSpace(input.ContactNo)
		mustChange = true
		if password == "" {
			return models.PatientRecord{}, ErrContactRequired
		}
	} else if err := ValidatePasswordStrength(password); err != nil {
		return models.PatientRecord{}, err
	}

	profile := models.PatientProfile{
		AssignedDoctorID: doctorUserID,
		TargetINRMin:     models.DefaultTargetINRMin,
		TargetINRMax:     models.DefaultTargetINRMax,
		Instructions:     []string{},
		MedicalHistory:   []models.MedicalHistoryEntry{},
		AccountStatus:    models.AccountActive,
	}
	patch := PatientProfilePatch{
		Name:             &input.Name,
		Age:              &input.Age,
		Phone:            &input.ContactNo,
		KinName:          &input.KinName,
		KinRelation:      &input.KinRelation,
		KinPhone:         &input.KinContactNumber,
		Diagnosis:        &input.Diagnosis,
		TherapyDrug:      &input.Therapy,
		TherapyStartDate: &input.TherapyStartDate,
		TargetINRMin:     input.TargetINRMin,
		TargetINRMax:     input.TargetINRMax,
		WeeklyDosage:     input.Prescription,
	}
	if strings.TrimSpace(input.Gender) != "" {
		patch.Gender = &input.Gender
	}
	if input.MedicalHistory != nil {
		patch.MedicalHistory = &input.MedicalHistory
	}
	profile, err := ApplyPatientPatch(profile, patch, location)
	if err != nil {
		return models.PatientRecord{}, err
	}

	if err := ensureLoginIDFree(users, loginID); err != nil {
		return models.PatientRecord{}, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return models.PatientRecord{}, err
	}
	user := models.User{
		LoginID:            loginID,
		PasswordHash:       hash,
		Role:               models.RolePatient,
		IsActive:           true,
		MustChangePassword: mustChange,
	}
	if err := users.CreatePatientAccount(&user, &profile); err != nil {
		return models.PatientRecord{}, fmt.Errorf("create patient account: %w", err)
	}
	return models.PatientRecord{PatientProfile: profile, LoginID: user.LoginID}, nil
}

func ensureLoginIDFree(users AccountUserRepository, loginID string) error {
	exists, err := users.ExistsByLoginID(loginID)
	if err != nil {
		return fmt.Errorf("check login id: %w", err)
	}
	if exists {
		return ErrLoginIDTaken
	}
	return nil
}

// resolveDoctorUser finds an active doctor login by its login id.
func resolveDoctorUser(users AccountUserRepository, rawLoginID string) (models.User, error) {
	user, found, err := users.FindByLoginID(NormalizeLoginID(rawLoginID))
	if err != nil {
		return models.User{}, fmt.Errorf("load doctor: %w", err)
	}
	if !found || user.Role != models.RoleDoctor || !user.IsActive {
		return models.User{}, ErrTargetDoctorNotFound
	}
	return user, nil
}

func findPatientRecord(patients ClinicPatientRepository, rawOPNum string) (models.PatientRecord, error) {
	record, found, err := patients.FindRecordByLoginID(NormalizeLoginID(rawOPNum))
	if err != nil {
		return models.PatientRecord{}, fmt.Errorf("load patient: %w", err)
	}
	if !found {
		return models.PatientRecord{}, ErrPatientNotFound
	}
	return record, nil
}

type Pagination struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// NormalizePage clamps a requested page and limit to usable values.
func NormalizePage(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func NewPagination(total int64, page int, limit int) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
