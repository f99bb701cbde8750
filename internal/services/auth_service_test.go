package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/vitalink/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type stubAuthUserRepo struct {
	user              models.User
	findErr           error
	updatedUserID     uint
	updatedHash       string
	updatedMustChange bool
}

func (stub *stubAuthUserRepo) FindByID(userID uint) (models.User, bool, error) {
	if stub.findErr != nil {
		return models.User{}, false, stub.findErr
	}
	if stub.user.ID != userID {
		return models.User{}, false, nil
	}
	return stub.user, true, nil
}

func (stub *stubAuthUserRepo) FindByLoginID(loginID string) (models.User, bool, error) {
	if stub.findErr != nil {
		return models.User{}, false, stub.findErr
	}
	if stub.user.LoginID != loginID {
		return models.User{}, false, nil
	}
	return stub.user, true, nil
}

func (stub *stubAuthUserRepo) UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error {
	stub.updatedUserID = userID
	stub.updatedHash = passwordHash
	stub.updatedMustChange = mustChangePassword
	return nil
}

func mustHashForTest(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func TestAuthServiceAuthenticate(t *testing.T) {
	repo := &stubAuthUserRepo{user: models.User{
		ID:           7,
		LoginID:      "OP-1",
		PasswordHash: mustHashForTest(t, "StrongPass1!"),
		Role:         models.RolePatient,
		IsActive:     true,
	}}
	service := NewAuthService(repo)

	user, err := service.Authenticate(" OP-1 ", "StrongPass1!")
	if err != nil {
		t.Fatalf("expected successful login, got %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("expected user 7, got %d", user.ID)
	}

	if _, err := service.Authenticate("OP-1", "WrongPass1!"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for wrong password, got %v", err)
	}
	if _, err := service.Authenticate("OP-2", "StrongPass1!"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for unknown login, got %v", err)
	}

	repo.user.IsActive = false
	if _, err := service.Authenticate("OP-1", "StrongPass1!"); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestAuthServiceChangePassword(t *testing.T) {
	repo := &stubAuthUserRepo{user: models.User{
		ID:                 3,
		LoginID:            "OP-3",
		PasswordHash:       mustHashForTest(t, "Initial1!x"),
		IsActive:           true,
		MustChangePassword: true,
	}}
	service := NewAuthService(repo)

	if err := service.ChangePassword(3, "Wrong1!xx", "Changed1!x"); !errors.Is(err, ErrInvalidCurrentPassword) {
		t.Fatalf("expected ErrInvalidCurrentPassword, got %v", err)
	}
	if err := service.ChangePassword(3, "Initial1!x", "Initial1!x"); !errors.Is(err, ErrPasswordMustDiffer) {
		t.Fatalf("expected ErrPasswordMustDiffer, got %v", err)
	}
	if err := service.ChangePassword(3, "Initial1!x", "weak"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := service.ChangePassword(3, "Initial1!x", "Changed1!x"); err != nil {
		t.Fatalf("expected password change, got %v", err)
	}
	if repo.updatedUserID != 3 || repo.updatedMustChange {
		t.Fatalf("unexpected update user=%d mustChange=%v", repo.updatedUserID, repo.updatedMustChange)
	}
	if bcrypt.CompareHashAndPassword([]byte(repo.updatedHash), []byte("Changed1!x")) != nil {
		t.Fatal("expected stored hash to match the new password")
	}
}

func TestAuthServiceResetPasswordForcesChange(t *testing.T) {
	repo := &stubAuthUserRepo{user: models.User{ID: 9, LoginID: "admin"}}
	service := NewAuthService(repo)

	if err := service.ResetPassword("nobody", "Changed1!x"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := service.ResetPassword("admin", "Changed1!x"); err != nil {
		t.Fatalf("expected reset to succeed, got %v", err)
	}
	if repo.updatedUserID != 9 || !repo.updatedMustChange {
		t.Fatalf("expected must-change flag on reset, got user=%d mustChange=%v", repo.updatedUserID, repo.updatedMustChange)
	}
}
