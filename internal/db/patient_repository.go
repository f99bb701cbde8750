package db

import (
	"strings"

	"github.com/terraincognita07/vitalink/internal/models"
	"gorm.io/gorm"
)

type PatientRepository struct {
	database *gorm.DB
}

const patientRecordColumns = "patient_profiles.*, users.login_id AS login_id"

func NewPatientRepository(database *gorm.DB) *PatientRepository {
	return &PatientRepository{database: database}
}

func (repo *PatientRepository) FindByUserID(userID uint) (models.PatientProfile, bool, error) {
	var profile models.PatientProfile
	result := repo.database.Where("user_id = ?", userID).Limit(1).Find(&profile)
	if result.Error != nil {
		return models.PatientProfile{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.PatientProfile{}, false, nil
	}
	return profile, true, nil
}

func (repo *PatientRepository) FindRecordByLoginID(loginID string) (models.PatientRecord, bool, error) {
	var record models.PatientRecord
	result := repo.joined().
		Select(patientRecordColumns).
		Where("users.login_id = ?", loginID).
		Limit(1).
		Find(&record)
	if result.Error != nil {
		return models.PatientRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.PatientRecord{}, false, nil
	}
	return record, true, nil
}

func (repo *PatientRepository) FindRecordByUserID(userID uint) (models.PatientRecord, bool, error) {
	var record models.PatientRecord
	result := repo.joined().
		Select(patientRecordColumns).
		Where("patient_profiles.user_id = ?", userID).
		Limit(1).
		Find(&record)
	if result.Error != nil {
		return models.PatientRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.PatientRecord{}, false, nil
	}
	return record, true, nil
}

func (repo *PatientRepository) Save(profile *models.PatientProfile) error {
	return repo.database.Save(profile).Error
}

func (repo *PatientRepository) UpdateByID(profileID uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return repo.database.Model(&models.PatientProfile{}).Where("id = ?", profileID).Updates(updates).Error
}

func (repo *PatientRepository) CountByDoctor(doctorUserID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.PatientProfile{}).
		Where("assigned_doctor_id = ?", doctorUserID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *PatientRepository) List(filter models.PatientListFilter) ([]models.PatientRecord, int64, error) {
	var total int64
	if err := repo.filtered(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	records := make([]models.PatientRecord, 0)
	query := repo.filtered(filter).
		Select(patientRecordColumns).
		Order("patient_profiles.name ASC, patient_profiles.id ASC")
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListActiveInTherapy returns active patients that have both a therapy start
// date and a weekly dosage stored.
func (repo *PatientRepository) ListActiveInTherapy() ([]models.PatientProfile, error) {
	profiles := make([]models.PatientProfile, 0)
	if err := repo.database.
		Joins("JOIN users ON users.id = patient_profiles.user_id").
		Where("users.is_active = ?", true).
		Where("patient_profiles.account_status = ?", models.AccountActive).
		Where("patient_profiles.therapy_start_date IS NOT NULL").
		Where("patient_profiles.weekly_dosage IS NOT NULL AND patient_profiles.weekly_dosage <> ?", "null").
		Order("patient_profiles.id ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (repo *PatientRepository) filtered(filter models.PatientListFilter) *gorm.DB {
	query := repo.joined()
	if filter.AssignedDoctorID != 0 {
		query = query.Where("patient_profiles.assigned_doctor_id = ?", filter.AssignedDoctorID)
	}
	if status := strings.TrimSpace(filter.AccountStatus); status != "" {
		query = query.Where("patient_profiles.account_status = ?", status)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"lower(patient_profiles.name) LIKE ? OR lower(users.login_id) LIKE ?",
			pattern, pattern,
		)
	}
	return query
}

func (repo *PatientRepository) joined() *gorm.DB {
	return repo.database.Model(&models.PatientProfile{}).
		Joins("JOIN users ON users.id = patient_profiles.user_id").
		Where("users.role = ?", models.RolePatient)
}
