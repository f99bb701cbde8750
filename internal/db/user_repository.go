package db

import (
	"errors"

	"github.com/terraincognita07/vitalink/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) CountUsers() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *UserRepository) FindByID(userID uint) (models.User, bool, error) {
	var user models.User
	result := repo.database.Where("id = ?", userID).Limit(1).Find(&user)
	if result.Error != nil {
		return models.User{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.User{}, false, nil
	}
	return user, true, nil
}

func (repo *UserRepository) FindByLoginID(loginID string) (models.User, bool, error) {
	var user models.User
	result := repo.database.Where("login_id = ?", loginID).Limit(1).Find(&user)
	if result.Error != nil {
		return models.User{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.User{}, false, nil
	}
	return user, true, nil
}

func (repo *UserRepository) ExistsByLoginID(loginID string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("login_id = ?", loginID).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"password_hash":        passwordHash,
		"must_change_password": mustChangePassword,
	}).Error
}

func (repo *UserRepository) UpdateActive(userID uint, isActive bool) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("is_active", isActive).Error
}

// CreateDoctorAccount stores the login and its profile in one transaction.
func (repo *UserRepository) CreateDoctorAccount(user *models.User, profile *models.DoctorProfile) error {
	if user == nil || profile == nil {
		return errors.New("doctor account requires user and profile")
	}
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
}

func (repo *UserRepository) CreatePatientAccount(user *models.User, profile *models.PatientProfile) error {
	if user == nil || profile == nil {
		return errors.New("patient account requires user and profile")
	}
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
}
