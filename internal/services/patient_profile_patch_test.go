package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/vitalink/internal/models"
)

func basePatientProfileForPatch() models.PatientProfile {
	return models.PatientProfile{
		ID:             4,
		Name:           "Ravi",
		Gender:         models.GenderMale,
		TargetINRMin:   2,
		TargetINRMax:   3,
		Instructions:   []string{"avoid leafy greens"},
		WeeklyDosage:   &models.DosageSchedule{Monday: 5},
		AccountStatus:  models.AccountActive,
		MedicalHistory: []models.MedicalHistoryEntry{{Diagnosis: "AF"}},
	}
}

func TestApplyPatientPatchMergesOnlyProvidedFields(t *testing.T) {
	profile := basePatientProfileForPatch()
	name := "  Ravi Kumar "
	gender := "female"
	start := "01-02-2024"
	dosage := models.DosageSchedule{Monday: 3, Friday: 2.5}

	updated, err := ApplyPatientPatch(profile, PatientProfilePatch{
		Name:             &name,
		Gender:           &gender,
		TherapyStartDate: &start,
		WeeklyDosage:     &dosage,
	}, time.UTC)
	if err != nil {
		t.Fatalf("apply patch: %v", err)
	}

	if updated.Name != "Ravi Kumar" || updated.Gender != models.GenderFemale {
		t.Fatalf("unexpected demographics %q %q", updated.Name, updated.Gender)
	}
	if updated.TherapyStartDate == nil || !updated.TherapyStartDate.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected therapy start %v", updated.TherapyStartDate)
	}
	if updated.WeeklyDosage.Friday != 2.5 {
		t.Fatalf("expected dosage replaced, got %+v", updated.WeeklyDosage)
	}
	if updated.TargetINRMin != 2 || len(updated.Instructions) != 1 {
		t.Fatalf("expected untouched fields to survive, got %+v", updated)
	}
	if profile.Name != "Ravi" || profile.WeeklyDosage.Friday != 0 {
		t.Fatal("expected input profile to remain unchanged")
	}
}

func TestApplyPatientPatchRejectsInvalidValues(t *testing.T) {
	blank := " "
	badGender := "robot"
	badDate := "2024/02/01"
	badStatus := "Gone"
	lowMax := 1.5
	negativeAge := -1
	badDosage := models.DosageSchedule{Monday: -2}
	badInstructions := []string{"ok", " "}

	tests := []struct {
		name  string
		patch PatientProfilePatch
		want  error
	}{
		{name: "blank name", patch: PatientProfilePatch{Name: &blank}, want: ErrPatientNameRequired},
		{name: "gender", patch: PatientProfilePatch{Gender: &badGender}, want: ErrInvalidGender},
		{name: "date", patch: PatientProfilePatch{TherapyStartDate: &badDate}, want: ErrInvalidDateFormat},
		{name: "status", patch: PatientProfilePatch{AccountStatus: &badStatus}, want: ErrInvalidAccountStatus},
		{name: "target range", patch: PatientProfilePatch{TargetINRMax: &lowMax}, want: ErrInvalidTargetINR},
		{name: "age", patch: PatientProfilePatch{Age: &negativeAge}, want: ErrInvalidAge},
		{name: "dosage", patch: PatientProfilePatch{WeeklyDosage: &badDosage}, want: ErrInvalidDosageAmount},
		{name: "instructions", patch: PatientProfilePatch{Instructions: &badInstructions}, want: ErrInvalidInstructions},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			profile := basePatientProfileForPatch()
			returned, err := ApplyPatientPatch(profile, testCase.patch, time.UTC)
			if !errors.Is(err, testCase.want) {
				t.Fatalf("expected %v, got %v", testCase.want, err)
			}
			if returned.Name != profile.Name || returned.TargetINRMax != profile.TargetINRMax {
				t.Fatal("expected original profile back on validation failure")
			}
		})
	}
}

func TestSelfServiceFieldsDropsClinicalFields(t *testing.T) {
	status := models.AccountDeceased
	name := "Self"
	dosage := models.DosageSchedule{Sunday: 1}
	patch := PatientProfilePatch{Name: &name, AccountStatus: &status, WeeklyDosage: &dosage}

	restricted := patch.SelfServiceFields()
	if restricted.Name == nil {
		t.Fatal("expected name to stay editable")
	}
	if restricted.AccountStatus != nil || restricted.WeeklyDosage != nil {
		t.Fatal("expected clinical fields to be removed")
	}
}

func TestIsCriticalINR(t *testing.T) {
	tests := []struct {
		value float64
		want  bool
	}{
		{value: 1.9, want: true},
		{value: 2.0, want: false},
		{value: 2.7, want: false},
		{value: 3.0, want: false},
		{value: 3.4, want: true},
	}
	for _, testCase := range tests {
		if got := IsCriticalINR(testCase.value, 2, 3); got != testCase.want {
			t.Fatalf("IsCriticalINR(%v) = %v, want %v", testCase.value, got, testCase.want)
		}
	}
}
