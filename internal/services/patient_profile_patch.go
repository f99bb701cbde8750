package services

import (
	"strings"
	"time"

	"github.com/terraincognita07/vitalink/internal/models"
)

// PatientProfilePatch carries a partial profile update. Nil fields are left
// unchanged.
type PatientProfilePatch struct {
	Name             *string                       `json:"name"`
	Age              *int                          `json:"age"`
	Gender           *string                       `json:"gender"`
	Phone            *string                       `json:"phone"`
	KinName          *string                       `json:"kin_name"`
	KinRelation      *string                       `json:"kin_relation"`
	KinPhone         *string                       `json:"kin_phone"`
	MedicalHistory   *[]models.MedicalHistoryEntry `json:"medical_history"`
	TherapyStartDate *string                       `json:"therapy_start_date"`
	Diagnosis        *string                       `json:"diagnosis"`
	TherapyDrug      *string                       `json:"therapy_drug"`
	TargetINRMin     *float64                      `json:"target_inr_min"`
	TargetINRMax     *float64                      `json:"target_inr_max"`
	NextReviewDate   *string                       `json:"next_review_date"`
	Instructions     *[]string                     `json:"instructions"`
	WeeklyDosage     *models.DosageSchedule        `json:"weekly_dosage"`
	AccountStatus    *string                       `json:"account_status"`
}

// SelfServiceFields keeps only what a patient may change on their own
// profile: demographics, next of kin, history and therapy start date.
func (patch PatientProfilePatch) SelfServiceFields() PatientProfilePatch {
	return PatientProfilePatch{
		Name:             patch.Name,
		Age:              patch.Age,
		Gender:           patch.Gender,
		Phone:            patch.Phone,
		KinName:          patch.KinName,
		KinRelation:      patch.KinRelation,
		KinPhone:         patch.KinPhone,
		MedicalHistory:   patch.MedicalHistory,
		TherapyStartDate: patch.TherapyStartDate,
	}
}

// ApplyPatientPatch returns profile with patch merged in. The input profile is
// not modified and nothing is applied when any field fails validation.
func ApplyPatientPatch(profile models.PatientProfile, patch PatientProfilePatch, location *time.Location) (models.PatientProfile, error) {
	next := profile
	next.Instructions = append([]string(nil), profile.Instructions...)
	next.MedicalHistory = append([]models.MedicalHistoryEntry(nil), profile.MedicalHistory...)
	if profile.WeeklyDosage != nil {
		dosage := *profile.WeeklyDosage
		next.WeeklyDosage = &dosage
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return profile, ErrPatientNameRequired
		}
		next.Name = name
	}
	if patch.Age != nil {
		if err := ValidateAge(*patch.Age); err != nil {
			return profile, err
		}
		next.Age = *patch.Age
	}
	if patch.Gender != nil {
		gender, err := NormalizeGender(*patch.Gender)
		if err != nil {
			return profile, err
		}
		next.Gender = gender
	}
	if patch.Phone != nil {
		next.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.KinName != nil {
		next.KinName = strings.TrimSpace(*patch.KinName)
	}
	if patch.KinRelation != nil {
		next.KinRelation = strings.TrimSpace(*patch.KinRelation)
	}
	if patch.KinPhone != nil {
		next.KinPhone = strings.TrimSpace(*patch.KinPhone)
	}
	if patch.MedicalHistory != nil {
		next.MedicalHistory = append([]models.MedicalHistoryEntry{}, (*patch.MedicalHistory)...)
	}
	if patch.TherapyStartDate != nil {
		start, err := parseStoredDate(*patch.TherapyStartDate, location)
		if err != nil {
			return profile, err
		}
		next.TherapyStartDate = start
	}
	if patch.Diagnosis != nil {
		next.Diagnosis = strings.TrimSpace(*patch.Diagnosis)
	}
	if patch.TherapyDrug != nil {
		next.TherapyDrug = strings.TrimSpace(*patch.TherapyDrug)
	}
	if patch.TargetINRMin != nil {
		next.TargetINRMin = *patch.TargetINRMin
	}
	if patch.TargetINRMax != nil {
		next.TargetINRMax = *patch.TargetINRMax
	}
	if patch.TargetINRMin != nil || patch.TargetINRMax != nil {
		if err := ValidateTargetINR(next.TargetINRMin, next.TargetINRMax); err != nil {
			return profile, err
		}
	}
	if patch.NextReviewDate != nil {
		review, err := parseStoredDate(*patch.NextReviewDate, location)
		if err != nil {
			return profile, err
		}
		next.NextReviewDate = review
	}
	if patch.Instructions != nil {
		instructions, err := NormalizeInstructions(*patch.Instructions)
		if err != nil {
			return profile, err
		}
		next.Instructions = instructions
	}
	if patch.WeeklyDosage != nil {
		if err := ValidateWeeklyDosage(WeeklyDosageFromSchedule(*patch.WeeklyDosage)); err != nil {
			return profile, err
		}
		dosage := *patch.WeeklyDosage
		next.WeeklyDosage = &dosage
	}
	if patch.AccountStatus != nil {
		status, err := NormalizeAccountStatus(*patch.AccountStatus)
		if err != nil {
			return profile, err
		}
		next.AccountStatus = status
	}

	return next, nil
}

// parseStoredDate turns a request date into the midnight instant stored on a
// profile. A blank value clears the date.
func parseStoredDate(raw string, location *time.Location) (*time.Time, error) {
	day, err := ParseOptionalDate(raw)
	if err != nil || day == nil {
		return nil, err
	}
	stored := day.Time(location)
	return &stored, nil
}
