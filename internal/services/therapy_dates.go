package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DisplayDateLayout = "02-01-2006"
	ISODateLayout     = "2006-01-02"
)

var ErrInvalidDateFormat = errors.New("date must be in DD-MM-YYYY format")

var (
	displayDatePattern = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
	isoDatePattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// Date is a calendar day with no time of day or zone attached. Therapy
// schedules compare Dates only; wall-clock instants are converted with
// DateOf at the storage and request boundary.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) (Date, error) {
	if year < 1 || month < time.January || month > time.December {
		return Date{}, ErrInvalidDateFormat
	}
	if day < 1 || day > daysInMonth(year, month) {
		return Date{}, ErrInvalidDateFormat
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

func MustDate(year int, month time.Month, day int) Date {
	value, err := NewDate(year, month, day)
	if err != nil {
		panic(fmt.Sprintf("invalid date %04d-%02d-%02d", year, month, day))
	}
	return value
}

func DateOf(value time.Time, location *time.Location) Date {
	if location == nil {
		location = time.UTC
	}
	year, month, day := value.In(location).Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate accepts DD-MM-YYYY and YYYY-MM-DD. Impossible days such as
// 31-04-2024 are rejected instead of rolling into the next month.
func ParseDate(raw string) (Date, error) {
	value := strings.TrimSpace(raw)

	if matches := displayDatePattern.FindStringSubmatch(value); matches != nil {
		return dateFromParts(matches[3], matches[2], matches[1])
	}
	if matches := isoDatePattern.FindStringSubmatch(value); matches != nil {
		return dateFromParts(matches[1], matches[2], matches[3])
	}
	return Date{}, ErrInvalidDateFormat
}

func ParseOptionalDate(raw string) (*Date, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func dateFromParts(rawYear string, rawMonth string, rawDay string) (Date, error) {
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return Date{}, ErrInvalidDateFormat
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil {
		return Date{}, ErrInvalidDateFormat
	}
	day, err := strconv.Atoi(rawDay)
	if err != nil {
		return Date{}, ErrInvalidDateFormat
	}
	return NewDate(year, time.Month(month), day)
}

func FormatDate(value Date) string {
	return value.String()
}

func (d Date) String() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, int(d.Month), d.Year)
}

func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight of the day in location.
func (d Date) Time(location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, location)
}

func (d Date) AddDays(days int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, days), time.UTC)
}

// AddMonths moves by whole calendar months and clamps the day to the length
// of the target month, so 31-08 minus six months is the last day of February.
func (d Date) AddMonths(months int) Date {
	totalMonths := d.Year*12 + int(d.Month-1) + months
	year := totalMonths / 12
	month := time.Month(totalMonths%12 + 1)
	day := d.Day
	if limit := daysInMonth(year, month); day > limit {
		day = limit
	}
	return Date{Year: year, Month: month, Day: day}
}

func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return compareInts(d.Year, other.Year)
	case d.Month != other.Month:
		return compareInts(int(d.Month), int(other.Month))
	default:
		return compareInts(d.Day, other.Day)
	}
}

func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

func (d Date) Weekday() Weekday {
	return WeekdayOf(d)
}

func compareInts(left int, right int) int {
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Weekday is the single weekday enumeration used by every schedule
// computation. Its numbering matches time.Weekday (Sunday = 0).
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [7]string{
	"sunday",
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
}

func AllWeekdays() []Weekday {
	return []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

func WeekdayOf(d Date) Weekday {
	return Weekday(d.Time(time.UTC).Weekday())
}

func ParseWeekday(raw string) (Weekday, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for index, candidate := range weekdayNames {
		if candidate == name {
			return Weekday(index), true
		}
	}
	return 0, false
}

func (w Weekday) String() string {
	if w < Sunday || w > Saturday {
		return fmt.Sprintf("weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}
