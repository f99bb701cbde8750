package db

import (
	"strings"

	"github.com/terraincognita07/vitalink/internal/models"
	"gorm.io/gorm"
)

type DoctorRepository struct {
	database *gorm.DB
}

func NewDoctorRepository(database *gorm.DB) *DoctorRepository {
	return &DoctorRepository{database: database}
}

func (repo *DoctorRepository) FindByUserID(userID uint) (models.DoctorProfile, bool, error) {
	var profile models.DoctorProfile
	result := repo.database.Where("user_id = ?", userID).Limit(1).Find(&profile)
	if result.Error != nil {
		return models.DoctorProfile{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DoctorProfile{}, false, nil
	}
	return profile, true, nil
}

func (repo *DoctorRepository) FindRecordByUserID(userID uint) (models.DoctorRecord, bool, error) {
	var record models.DoctorRecord
	result := repo.recordQuery().Where("doctor_profiles.user_id = ?", userID).Limit(1).Find(&record)
	if result.Error != nil {
		return models.DoctorRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DoctorRecord{}, false, nil
	}
	return record, true, nil
}

func (repo *DoctorRepository) UpdateByUserID(userID uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return repo.database.Model(&models.DoctorProfile{}).Where("user_id = ?", userID).Updates(updates).Error
}

func (repo *DoctorRepository) List(filter models.DoctorListFilter) ([]models.DoctorRecord, int64, error) {
	var total int64
	if err := repo.filtered(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	records := make([]models.DoctorRecord, 0)
	query := repo.filtered(filter).
		Select(doctorRecordColumns).
		Order("doctor_profiles.name ASC, doctor_profiles.id ASC")
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

const doctorRecordColumns = "doctor_profiles.*, users.login_id AS login_id, users.is_active AS is_active"

func (repo *DoctorRepository) filtered(filter models.DoctorListFilter) *gorm.DB {
	query := repo.joined()
	if department := strings.TrimSpace(filter.Department); department != "" {
		query = query.Where("doctor_profiles.department = ?", department)
	}
	if filter.IsActive != nil {
		query = query.Where("users.is_active = ?", *filter.IsActive)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"lower(doctor_profiles.name) LIKE ? OR lower(users.login_id) LIKE ? OR lower(doctor_profiles.department) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	return query
}

func (repo *DoctorRepository) joined() *gorm.DB {
	return repo.database.Model(&models.DoctorProfile{}).
		Joins("JOIN users ON users.id = doctor_profiles.user_id").
		Where("users.role = ?", models.RoleDoctor)
}

func (repo *DoctorRepository) recordQuery() *gorm.DB {
	return repo.joined().Select(doctorRecordColumns)
}
