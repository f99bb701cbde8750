package db

import (
	"time"

	"github.com/terraincognita07/vitalink/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TakenDoseRepository struct {
	database *gorm.DB
}

func NewTakenDoseRepository(database *gorm.DB) *TakenDoseRepository {
	return &TakenDoseRepository{database: database}
}

// Insert adds the dose day for the patient. Inserting a day that is already
// stored changes nothing and reports inserted == false.
func (repo *TakenDoseRepository) Insert(patientID uint, day time.Time) (bool, error) {
	entry := models.TakenDose{
		PatientID: patientID,
		Date:      normalizeDay(day),
	}
	result := repo.database.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "patient_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&entry)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *TakenDoseRepository) ListDays(patientID uint) ([]time.Time, error) {
	entries := make([]models.TakenDose, 0)
	if err := repo.database.
		Select("date").
		Where("patient_id = ?", patientID).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	days := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		days = append(days, entry.Date)
	}
	return days, nil
}

func normalizeDay(day time.Time) time.Time {
	year, month, date := day.Date()
	return time.Date(year, month, date, 0, 0, 0, 0, time.UTC)
}
