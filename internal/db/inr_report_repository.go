package db

import (
	"github.com/terraincognita07/vitalink/internal/models"
	"gorm.io/gorm"
)

type INRReportRepository struct {
	database *gorm.DB
}

func NewINRReportRepository(database *gorm.DB) *INRReportRepository {
	return &INRReportRepository{database: database}
}

func (repo *INRReportRepository) Create(report *models.INRReport) error {
	return repo.database.Create(report).Error
}

func (repo *INRReportRepository) ListByPatient(patientID uint) ([]models.INRReport, error) {
	reports := make([]models.INRReport, 0)
	if err := repo.database.
		Where("patient_id = ?", patientID).
		Order("test_date DESC, id DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (repo *INRReportRepository) FindByPatientAndID(patientID uint, reportID uint) (models.INRReport, bool, error) {
	var report models.INRReport
	result := repo.database.
		Where("id = ? AND patient_id = ?", reportID, patientID).
		Limit(1).
		Find(&report)
	if result.Error != nil {
		return models.INRReport{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.INRReport{}, false, nil
	}
	return report, true, nil
}

func (repo *INRReportRepository) Save(report *models.INRReport) error {
	return repo.database.Save(report).Error
}
