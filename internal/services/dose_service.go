package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/vitalink/internal/models"
)

type DosePatientRepository interface {
	FindByUserID(userID uint) (models.PatientProfile, bool, error)
	ListActiveInTherapy() ([]models.PatientProfile, error)
}

type TakenDoseRepository interface {
	Insert(patientID uint, day time.Time) (bool, error)
	ListDays(patientID uint) ([]time.Time, error)
}

// DoseService loads therapy configuration and taken doses from storage and
// runs the adherence computations against "today" in the configured zone.
type DoseService struct {
	patients DosePatientRepository
	doses    TakenDoseRepository
	location *time.Location
	now      func() time.Time
}

// AdherenceSummary is one patient's missed-dose state for the daily digest.
type AdherenceSummary struct {
	PatientID        uint
	PatientName      string
	AssignedDoctorID uint
	RecentMissed     []Date
	OlderMissed      int
}

func NewDoseService(patients DosePatientRepository, doses TakenDoseRepository, location *time.Location) *DoseService {
	if location == nil {
		location = time.UTC
	}
	return &DoseService{
		patients: patients,
		doses:    doses,
		location: location,
		now:      time.Now,
	}
}

// WithClock replaces the time source used to derive today.
func (service *DoseService) WithClock(now func() time.Time) *DoseService {
	if now != nil {
		service.now = now
	}
	return service
}

func (service *DoseService) Location() *time.Location {
	return service.location
}

func (service *DoseService) Today() Date {
	return DateOf(service.now(), service.location)
}

func (service *DoseService) RecordDoseTaken(patientUserID uint, rawDate string) (TakenSet, error) {
	profile, err := service.loadPatient(patientUserID)
	if err != nil {
		return nil, err
	}
	return service.RecordDoseTakenForProfile(profile, rawDate)
}

// RecordDoseTakenForProfile checks the stored set first and then inserts
// atomically, so a concurrent duplicate submission still reports
// ErrAlreadyRecorded.
func (service *DoseService) RecordDoseTakenForProfile(profile models.PatientProfile, rawDate string) (TakenSet, error) {
	day, err := ParseDate(rawDate)
	if err != nil {
		return nil, err
	}

	taken, err := service.loadTakenSet(profile.ID)
	if err != nil {
		return nil, err
	}
	next, err := RecordDoseTaken(taken, day)
	if err != nil {
		return taken, err
	}

	inserted, err := service.doses.Insert(profile.ID, day.Time(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("store taken dose: %w", err)
	}
	if !inserted {
		return taken, ErrAlreadyRecorded
	}
	return next, nil
}

func (service *DoseService) MissedDoses(patientUserID uint) (MissedDosePartition, error) {
	profile, err := service.loadPatient(patientUserID)
	if err != nil {
		return MissedDosePartition{}, err
	}
	return service.MissedDosesForProfile(profile)
}

func (service *DoseService) MissedDosesForProfile(profile models.PatientProfile) (MissedDosePartition, error) {
	window := TherapyWindowFromProfile(profile, service.location)
	if err := window.Validate(); err != nil {
		return MissedDosePartition{}, err
	}

	taken, err := service.loadTakenSet(profile.ID)
	if err != nil {
		return MissedDosePartition{}, err
	}
	return MissedDoseReport(window, taken, service.Today())
}

func (service *DoseService) DosageCalendar(patientUserID uint, rawMonths string, rawEndDate string) (DosageCalendar, error) {
	profile, err := service.loadPatient(patientUserID)
	if err != nil {
		return DosageCalendar{}, err
	}
	return service.DosageCalendarForProfile(profile, rawMonths, rawEndDate)
}

// DosageCalendarForProfile reads the optional months and end date query
// values. The end date, when given, is the last day of the window.
func (service *DoseService) DosageCalendarForProfile(profile models.PatientProfile, rawMonths string, rawEndDate string) (DosageCalendar, error) {
	endDate, err := ParseOptionalDate(rawEndDate)
	if err != nil {
		return DosageCalendar{}, err
	}

	window := TherapyWindowFromProfile(profile, service.location)
	if err := window.Validate(); err != nil {
		return DosageCalendar{}, err
	}

	taken, err := service.loadTakenSet(profile.ID)
	if err != nil {
		return DosageCalendar{}, err
	}
	return BuildDosageCalendar(window, taken, ParseCalendarMonths(rawMonths), endDate, service.Today())
}

func (service *DoseService) TakenDoses(profileID uint) ([]Date, error) {
	taken, err := service.loadTakenSet(profileID)
	if err != nil {
		return nil, err
	}
	return taken.Dates(), nil
}

// AdherenceDigest computes the missed-dose state of every active patient in
// therapy and returns the ones with at least one recent miss.
func (service *DoseService) AdherenceDigest() ([]AdherenceSummary, error) {
	profiles, err := service.patients.ListActiveInTherapy()
	if err != nil {
		return nil, fmt.Errorf("list patients in therapy: %w", err)
	}

	summaries := make([]AdherenceSummary, 0)
	for _, profile := range profiles {
		partition, err := service.MissedDosesForProfile(profile)
		if errors.Is(err, ErrMissingTherapyConfiguration) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("missed doses for patient %d: %w", profile.ID, err)
		}
		if len(partition.Recent) == 0 {
			continue
		}
		summaries = append(summaries, AdherenceSummary{
			PatientID:        profile.ID,
			PatientName:      profile.Name,
			AssignedDoctorID: profile.AssignedDoctorID,
			RecentMissed:     partition.Recent,
			OlderMissed:      len(partition.Older),
		})
	}
	return summaries, nil
}

func (service *DoseService) loadPatient(patientUserID uint) (models.PatientProfile, error) {
	profile, found, err := service.patients.FindByUserID(patientUserID)
	if err != nil {
		return models.PatientProfile{}, fmt.Errorf("load patient profile: %w", err)
	}
	if !found {
		return models.PatientProfile{}, ErrPatientNotFound
	}
	return profile, nil
}

func (service *DoseService) loadTakenSet(profileID uint) (TakenSet, error) {
	days, err := service.doses.ListDays(profileID)
	if err != nil {
		return nil, fmt.Errorf("load taken doses: %w", err)
	}

	taken := make(TakenSet, len(days))
	for _, day := range days {
		taken[DateOf(day, time.UTC)] = struct{}{}
	}
	return taken, nil
}
