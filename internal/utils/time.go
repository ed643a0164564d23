package utils

import (
	"fmt"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
)

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ParseDateTime parses a timestamp string in the standard minute-precision
// format (YYYY-MM-DD HH:MM) in the local timezone.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(constants.DateTimeFormat, s, time.Local)
}

// FormatDateTime renders a timestamp in the standard minute-precision format.
// Seconds and below are dropped, which is what gives dose occurrences their
// stable identity.
func FormatDateTime(t time.Time) string {
	return t.Format(constants.DateTimeFormat)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// CombineDateAndTime combines a calendar date with a time string (HH:MM) into
// a single time.Time in the date's location.
func CombineDateAndTime(date time.Time, timeStr string) (time.Time, error) {
	timeOfDay, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0,
		date.Location(),
	), nil
}

// WeekStart returns midnight of the Monday of the week containing ref.
func WeekStart(ref time.Time) time.Time {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// StartOfDay returns midnight of ref's calendar day.
func StartOfDay(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// Truncated returns t with seconds and sub-second precision dropped.
func Truncated(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}
