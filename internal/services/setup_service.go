package services

import (
	"fmt"

	"github.com/terraincognita07/vitalink/internal/models"
)

type SetupUserRepository interface {
	CountUsers() (int64, error)
	ExistsByLoginID(loginID string) (bool, error)
	Create(user *models.User) error
}

type SetupService struct {
	users SetupUserRepository
}

func NewSetupService(users SetupUserRepository) *SetupService {
	return &SetupService{users: users}
}

func (service *SetupService) RequiresInitialSetup() (bool, error) {
	usersCount, err := service.users.CountUsers()
	if err != nil {
		return false, err
	}
	return usersCount == 0, nil
}

// CreateAdmin adds an administrator login. Admin accounts carry no profile.
func (service *SetupService) CreateAdmin(loginRaw string, password string) (models.User, error) {
	loginID := NormalizeLoginID(loginRaw)
	if err := ValidateLoginID(loginID); err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByLoginID(loginID)
	if err != nil {
		return models.User{}, fmt.Errorf("check login id: %w", err)
	}
	if exists {
		return models.User{}, ErrLoginIDTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		LoginID:      loginID,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("create admin: %w", err)
	}
	return user, nil
}
