package services

import (
	"strconv"
	"strings"
)

const (
	DefaultCalendarMonths = 3
	MinCalendarMonths     = 1
	MaxCalendarMonths     = 6
)

type CalendarEntry struct {
	Date    Date
	Status  DoseStatus
	Dosage  float64
	Weekday Weekday
}

type DosageCalendar struct {
	Entries      []CalendarEntry
	RangeStart   Date
	RangeEnd     Date
	TherapyStart Date
}

func ClampCalendarMonths(months int) int {
	if months < MinCalendarMonths {
		return MinCalendarMonths
	}
	if months > MaxCalendarMonths {
		return MaxCalendarMonths
	}
	return months
}

// ParseCalendarMonths reads the optional months query value. Blank or
// non-numeric input falls back to the default window; numbers are clamped.
func ParseCalendarMonths(raw string) int {
	value := strings.TrimSpace(raw)
	if value == "" {
		return DefaultCalendarMonths
	}
	months, err := strconv.Atoi(value)
	if err != nil {
		return DefaultCalendarMonths
	}
	return ClampCalendarMonths(months)
}

func CalendarRange(therapyStart Date, months int, endDate *Date, asOf Date) (Date, Date) {
	end := asOf
	if endDate != nil {
		end = *endDate
	}
	start := end.AddMonths(-ClampCalendarMonths(months))
	if start.Before(therapyStart) {
		start = therapyStart
	}
	return start, end
}

func BuildDosageCalendar(window TherapyWindow, taken TakenSet, months int, endDate *Date, asOf Date) (DosageCalendar, error) {
	if err := window.Validate(); err != nil {
		return DosageCalendar{}, err
	}

	rangeStart, rangeEnd := CalendarRange(window.StartDate, months, endDate, asOf)
	scheduled := ExpandSchedule(window, rangeStart, rangeEnd)

	entries := make([]CalendarEntry, 0, len(scheduled))
	for _, day := range scheduled {
		weekday := day.Weekday()
		entries = append(entries, CalendarEntry{
			Date:    day,
			Status:  StatusOf(day, taken, asOf),
			Dosage:  window.Dosage.Amount(weekday),
			Weekday: weekday,
		})
	}

	return DosageCalendar{
		Entries:      entries,
		RangeStart:   rangeStart,
		RangeEnd:     rangeEnd,
		TherapyStart: window.StartDate,
	}, nil
}
