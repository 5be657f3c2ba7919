package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habithub/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone returns an error if the timezone name cannot be loaded
func ValidateTimezone(timezone string) error {
	if _, err := LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return nil
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayKey returns the YYYY-MM-DD key of t's calendar day in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.DateFormat)
}

// ParseDayInLocation parses a day key (YYYY-MM-DD) as midnight in loc.
func ParseDayInLocation(day string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// AddDays moves a calendar day by n days. It works on calendar fields, so
// DST transitions never skip or repeat a day.
func AddDays(day time.Time, n int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, day.Location())
}

// DaysBetween counts calendar days from start to end (end - start), both taken as days in loc.
func DaysBetween(start, end time.Time, loc *time.Location) int {
	s := StartOfDay(start, loc)
	e := StartOfDay(end, loc)
	su := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	eu := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	return int(eu.Sub(su).Hours() / 24)
}

// FormatTimestamp renders t in the fixed-width storage layout (UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// ParseTimestamp parses a stored timestamp. Plain RFC3339 is accepted as well.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(constants.TimestampFormat, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// ValidateTime checks an HH:MM clock time
func ValidateTime(s string) error {
	if _, err := time.Parse(constants.TimeFormat, s); err != nil {
		return fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return nil
}

// Clock returns the current time. Components take one so tests can pin "today".
type Clock func() time.Time

// SystemClock is the wall clock
func SystemClock() time.Time {
	return time.Now()
}
