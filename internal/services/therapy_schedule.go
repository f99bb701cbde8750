package services

import (
	"errors"
	"math"
	"time"

	"github.com/terraincognita07/vitalink/internal/models"
)

var (
	ErrMissingTherapyConfiguration = errors.New("therapy start date or dosage schedule is missing")
	ErrInvalidDosageAmount         = errors.New("dosage amounts must be non-negative numbers")
)

// WeeklyDosage holds the prescribed amount per weekday, indexed by Weekday.
// An amount of zero means no dose is due that day.
type WeeklyDosage [7]float64

type TherapyWindow struct {
	StartDate Date
	Dosage    *WeeklyDosage
}

func WeeklyDosageFromSchedule(schedule models.DosageSchedule) WeeklyDosage {
	var dosage WeeklyDosage
	dosage[Sunday] = schedule.Sunday
	dosage[Monday] = schedule.Monday
	dosage[Tuesday] = schedule.Tuesday
	dosage[Wednesday] = schedule.Wednesday
	dosage[Thursday] = schedule.Thursday
	dosage[Friday] = schedule.Friday
	dosage[Saturday] = schedule.Saturday
	return dosage
}

func (dosage WeeklyDosage) Schedule() models.DosageSchedule {
	return models.DosageSchedule{
		Monday:    dosage[Monday],
		Tuesday:   dosage[Tuesday],
		Wednesday: dosage[Wednesday],
		Thursday:  dosage[Thursday],
		Friday:    dosage[Friday],
		Saturday:  dosage[Saturday],
		Sunday:    dosage[Sunday],
	}
}

func (dosage WeeklyDosage) Amount(day Weekday) float64 {
	if !day.Valid() || dosage[day] <= 0 {
		return 0
	}
	return dosage[day]
}

func (dosage WeeklyDosage) HasDoses() bool {
	for _, amount := range dosage {
		if amount > 0 {
			return true
		}
	}
	return false
}

func ValidateWeeklyDosage(dosage WeeklyDosage) error {
	for _, amount := range dosage {
		if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return ErrInvalidDosageAmount
		}
	}
	return nil
}

func TherapyWindowFromProfile(profile models.PatientProfile, location *time.Location) TherapyWindow {
	window := TherapyWindow{}
	if profile.TherapyStartDate != nil {
		window.StartDate = DateOf(*profile.TherapyStartDate, location)
	}
	if profile.WeeklyDosage != nil {
		dosage := WeeklyDosageFromSchedule(*profile.WeeklyDosage)
		window.Dosage = &dosage
	}
	return window
}

// Validate reports ErrMissingTherapyConfiguration when the start date is unset
// or the dosage is absent or has no positive amount on any weekday.
func (window TherapyWindow) Validate() error {
	if window.StartDate.IsZero() || window.Dosage == nil || !window.Dosage.HasDoses() {
		return ErrMissingTherapyConfiguration
	}
	return nil
}

// ExpandSchedule lists every dose day in [rangeStart, rangeEnd]. rangeStart
// is pulled forward to the therapy start; an inverted range yields no dates.
func ExpandSchedule(window TherapyWindow, rangeStart Date, rangeEnd Date) []Date {
	if window.Dosage == nil {
		return []Date{}
	}

	start := rangeStart
	if start.IsZero() || start.Before(window.StartDate) {
		start = window.StartDate
	}
	if start.IsZero() || rangeEnd.Before(start) {
		return []Date{}
	}

	var due [7]bool
	activeDays := 0
	for _, day := range AllWeekdays() {
		if window.Dosage.Amount(day) > 0 {
			due[day] = true
			activeDays++
		}
	}
	if activeDays == 0 {
		return []Date{}
	}

	first := start.Time(time.UTC)
	last := rangeEnd.Time(time.UTC)
	spanDays := int(last.Sub(first).Hours()/24) + 1
	dates := make([]Date, 0, spanDays/7*activeDays+activeDays)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if due[day.Weekday()] {
			dates = append(dates, DateOf(day, time.UTC))
		}
	}
	return dates
}
