package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/vitalink/internal/db"
	"github.com/terraincognita07/vitalink/internal/services"
)

var errPasswordMismatch = errors.New("passwords do not match")

// RunCreateAdminCommand adds an administrator. The password is prompted for
// without echo when not supplied.
func RunCreateAdminCommand(env Env, loginID string, password string) error {
	if password == "" {
		prompted, err := promptNewPassword(env)
		if err != nil {
			return err
		}
		password = prompted
	}

	repositories, closeDB, err := env.repositories()
	if err != nil {
		return err
	}
	defer closeDB()

	admin, err := createAdmin(repositories, loginID, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.output(), "Admin %s created\n", admin)
	return nil
}

func createAdmin(repositories *db.Repositories, loginID string, password string) (string, error) {
	user, err := services.NewSetupService(repositories.Users).CreateAdmin(loginID, password)
	if err != nil {
		return "", fmt.Errorf("create admin: %w", err)
	}
	return user.LoginID, nil
}

func promptNewPassword(env Env) (string, error) {
	prompt, err := newSecretPrompt(env)
	if err != nil {
		return "", err
	}

	first, err := prompt.ask("Password")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	second, err := prompt.ask("Repeat password")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if first != second {
		return "", errPasswordMismatch
	}
	return first, nil
}

// RunAssignPatientCommand moves a patient to another doctor's care.
func RunAssignPatientCommand(env Env, opNum string, doctorLoginID string, location *time.Location) error {
	repositories, closeDB, err := env.repositories()
	if err != nil {
		return err
	}
	defer closeDB()

	record, err := assignPatient(repositories, opNum, doctorLoginID, location)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.output(), "Patient %s assigned to %s\n", record, doctorLoginID)
	return nil
}

func assignPatient(repositories *db.Repositories, opNum string, doctorLoginID string, location *time.Location) (string, error) {
	admin := services.NewAdminService(repositories.Users, repositories.Doctors, repositories.Patients, location)
	record, err := admin.ReassignPatient(opNum, doctorLoginID)
	if err != nil {
		return "", fmt.Errorf("assign patient: %w", err)
	}
	return record.LoginID, nil
}
