package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/vitalink/internal/db"
	"github.com/terraincognita07/vitalink/internal/security"
	"github.com/terraincognita07/vitalink/internal/services"
)

// Env carries what every maintenance command needs.
type Env struct {
	DBPath string
	Logger zerolog.Logger
	In     *os.File
	Out    io.Writer
}

func (env Env) repositories() (*db.Repositories, func(), error) {
	database, err := db.OpenSQLite(env.DBPath, env.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db.NewRepositories(database), closeDB, nil
}

func (env Env) output() io.Writer {
	if env.Out == nil {
		return os.Stdout
	}
	return env.Out
}

func RunResetPasswordCommand(env Env, loginID string) error {
	loginID = services.NormalizeLoginID(loginID)
	if loginID == "" {
		return errors.New("login id is required")
	}

	repositories, closeDB, err := env.repositories()
	if err != nil {
		return err
	}
	defer closeDB()

	temporaryPassword, err := resetPassword(repositories, loginID)
	if err != nil {
		return err
	}

	out := env.output()
	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "User must change password on next login.")
	return nil
}

func resetPassword(repositories *db.Repositories, loginID string) (string, error) {
	temporaryPassword, err := generateTemporaryPassword(12)
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}

	err = services.NewAuthService(repositories.Users).ResetPassword(loginID, temporaryPassword)
	if errors.Is(err, services.ErrUserNotFound) {
		return "", fmt.Errorf("user %s not found", loginID)
	}
	if err != nil {
		return "", fmt.Errorf("update user password: %w", err)
	}
	return temporaryPassword, nil
}

func generateTemporaryPassword(length int) (string, error) {
	return security.TemporaryPassword(length, services.ValidatePasswordStrength)
}
