package db

import (
	"github.com/terraincognita07/vitalink/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HealthLogRepository struct {
	database *gorm.DB
}

func NewHealthLogRepository(database *gorm.DB) *HealthLogRepository {
	return &HealthLogRepository{database: database}
}

// Upsert keeps a single entry per patient and type; a new submission replaces
// the previous one.
func (repo *HealthLogRepository) Upsert(entry *models.HealthLog) error {
	return repo.database.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "patient_id"}, {Name: "type"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "severity", "date", "is_resolved"}),
		}).
		Create(entry).Error
}

func (repo *HealthLogRepository) ListByPatient(patientID uint) ([]models.HealthLog, error) {
	entries := make([]models.HealthLog, 0)
	if err := repo.database.
		Where("patient_id = ?", patientID).
		Order("type ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
