package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/vitalink/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountInactive        = errors.New("account is deactivated")
	ErrUserNotFound           = errors.New("user not found")
	ErrLoginIDTaken           = errors.New("login id is already in use")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrPasswordMustDiffer     = errors.New("new password must differ from the current one")
)

type AuthUserRepository interface {
	FindByID(userID uint) (models.User, bool, error)
	FindByLoginID(loginID string) (models.User, bool, error)
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticate checks a login id and password pair. Unknown ids and wrong
// passwords both report ErrAuthCredentialsInvalid.
func (service *AuthService) Authenticate(loginRaw string, passwordRaw string) (models.User, error) {
	loginID, password, err := NormalizeCredentialsInput(loginRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, found, err := service.users.FindByLoginID(loginID)
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if !user.IsActive {
		return models.User{}, ErrAccountInactive
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, found, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (service *AuthService) ChangePassword(userID uint, currentPassword string, newPassword string) error {
	user, err := service.FindByID(userID)
	if err != nil {
		return err
	}

	currentPassword = strings.TrimSpace(currentPassword)
	newPassword = strings.TrimSpace(newPassword)
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCurrentPassword
	}
	if currentPassword == newPassword {
		return ErrPasswordMustDiffer
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return service.users.UpdatePassword(user.ID, hash, false)
}

// ResetPassword replaces the password of loginID without checking the old one.
// The account must change it again at next login.
func (service *AuthService) ResetPassword(loginRaw string, newPassword string) error {
	loginID := NormalizeLoginID(loginRaw)
	user, found, err := service.users.FindByLoginID(loginID)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return service.users.UpdatePassword(user.ID, hash, true)
}
