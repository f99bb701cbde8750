package services

import (
	"errors"
	"slices"
)

// RecentMissedWindowDays bounds the trailing window, inclusive at both ends,
// that separates recent missed doses from older ones.
const RecentMissedWindowDays = 7

var ErrAlreadyRecorded = errors.New("this dose has already been marked as taken")

type DoseStatus string

const (
	DoseTaken     DoseStatus = "taken"
	DoseMissed    DoseStatus = "missed"
	DoseScheduled DoseStatus = "scheduled"
)

type TakenSet map[Date]struct{}

type MissedDosePartition struct {
	Recent []Date
	Older  []Date
}

func NewTakenSet(dates ...Date) TakenSet {
	set := make(TakenSet, len(dates))
	for _, day := range dates {
		set[day] = struct{}{}
	}
	return set
}

func (set TakenSet) Contains(day Date) bool {
	_, ok := set[day]
	return ok
}

func (set TakenSet) Len() int {
	return len(set)
}

func (set TakenSet) Dates() []Date {
	dates := make([]Date, 0, len(set))
	for day := range set {
		dates = append(dates, day)
	}
	slices.SortFunc(dates, Date.Compare)
	return dates
}

// RecordDoseTaken returns a copy of taken that includes day. The input set is
// never modified; a day already present yields the same set and
// ErrAlreadyRecorded so callers can tell a repeat from a new record.
func RecordDoseTaken(taken TakenSet, day Date) (TakenSet, error) {
	if taken.Contains(day) {
		return taken, ErrAlreadyRecorded
	}
	next := make(TakenSet, len(taken)+1)
	for existing := range taken {
		next[existing] = struct{}{}
	}
	next[day] = struct{}{}
	return next, nil
}

// StatusOf classifies a scheduled day. A dose is only missed once its day has
// passed; the dose due on asOf itself is still scheduled.
func StatusOf(day Date, taken TakenSet, asOf Date) DoseStatus {
	if taken.Contains(day) {
		return DoseTaken
	}
	if day.Before(asOf) {
		return DoseMissed
	}
	return DoseScheduled
}

func ClassifyMissed(scheduled []Date, taken TakenSet, asOf Date) MissedDosePartition {
	ordered := slices.Clone(scheduled)
	slices.SortFunc(ordered, Date.Compare)
	ordered = slices.Compact(ordered)

	recentFrom := asOf.AddDays(-RecentMissedWindowDays)
	partition := MissedDosePartition{
		Recent: []Date{},
		Older:  []Date{},
	}
	for _, day := range ordered {
		if StatusOf(day, taken, asOf) != DoseMissed {
			continue
		}
		if day.Before(recentFrom) {
			partition.Older = append(partition.Older, day)
			continue
		}
		partition.Recent = append(partition.Recent, day)
	}
	return partition
}

func MissedDoseReport(window TherapyWindow, taken TakenSet, asOf Date) (MissedDosePartition, error) {
	if err := window.Validate(); err != nil {
		return MissedDosePartition{}, err
	}
	scheduled := ExpandSchedule(window, window.StartDate, asOf)
	return ClassifyMissed(scheduled, taken, asOf), nil
}

func FormatDates(dates []Date) []string {
	formatted := make([]string, 0, len(dates))
	for _, day := range dates {
		formatted = append(formatted, day.String())
	}
	return formatted
}
