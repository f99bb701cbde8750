package services

import (
	"errors"
	"math"
	"strings"

	"github.com/terraincognita07/vitalink/internal/models"
)

var (
	ErrPatientNotFound              = errors.New("patient not found")
	ErrPatientNameRequired          = errors.New("patient name is required")
	ErrInvalidGender                = errors.New("gender must be Male, Female or Other")
	ErrInvalidAge                   = errors.New("age must be between 0 and 150")
	ErrInvalidAccountStatus         = errors.New("account status must be Active, Discharged or Deceased")
	ErrInvalidINRValue              = errors.New("INR value should be a valid positive number")
	ErrInvalidTargetINR             = errors.New("target INR range must be positive with min below max")
	ErrInvalidHealthLogType         = errors.New("health log type must be SIDE_EFFECT, ILLNESS, LIFESTYLE or OTHER_MEDS")
	ErrInvalidSeverity              = errors.New("severity must be Normal, High or Emergency")
	ErrHealthLogDescriptionRequired = errors.New("health log description is required")
	ErrInvalidInstructions          = errors.New("instructions must be a list of non-empty strings")
)

func NormalizeGender(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	for _, candidate := range []string{models.GenderMale, models.GenderFemale, models.GenderOther} {
		if strings.EqualFold(value, candidate) {
			return candidate, nil
		}
	}
	return "", ErrInvalidGender
}

func NormalizeAccountStatus(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	for _, candidate := range []string{models.AccountActive, models.AccountDischarged, models.AccountDeceased} {
		if strings.EqualFold(value, candidate) {
			return candidate, nil
		}
	}
	return "", ErrInvalidAccountStatus
}

func NormalizeHealthLogType(raw string) (string, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	switch value {
	case models.HealthLogSideEffect, models.HealthLogIllness, models.HealthLogLifestyle, models.HealthLogOtherMeds:
		return value, nil
	default:
		return "", ErrInvalidHealthLogType
	}
}

// NormalizeSeverity defaults a blank severity to Normal.
func NormalizeSeverity(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return models.SeverityNormal, nil
	}
	for _, candidate := range []string{models.SeverityNormal, models.SeverityHigh, models.SeverityEmergency} {
		if strings.EqualFold(value, candidate) {
			return candidate, nil
		}
	}
	return "", ErrInvalidSeverity
}

func ValidateAge(age int) error {
	if age < 0 || age > 150 {
		return ErrInvalidAge
	}
	return nil
}

func ValidateINRValue(value float64) error {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return ErrInvalidINRValue
	}
	return nil
}

func ValidateTargetINR(minValue float64, maxValue float64) error {
	if ValidateINRValue(minValue) != nil || ValidateINRValue(maxValue) != nil || minValue >= maxValue {
		return ErrInvalidTargetINR
	}
	return nil
}

// IsCriticalINR reports whether value falls outside the target range.
func IsCriticalINR(value float64, minValue float64, maxValue float64) bool {
	return value < minValue || value > maxValue
}

func NormalizeInstructions(raw []string) ([]string, error) {
	instructions := make([]string, 0, len(raw))
	for _, instruction := range raw {
		trimmed := strings.TrimSpace(instruction)
		if trimmed == "" {
			return nil, ErrInvalidInstructions
		}
		instructions = append(instructions, trimmed)
	}
	return instructions, nil
}
