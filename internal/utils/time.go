package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// DateString formats t as a calendar day in loc.
func DateString(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.DateFormat)
}

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", err
	}
	return DateString(time.Now(), loc), nil
}

// LastNDays returns the n calendar days ending with now, oldest first.
func LastNDays(now time.Time, loc *time.Location, n int) []string {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	// Step from local midnight so DST transitions don't skip or repeat a day
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	days := make([]string, n)
	for i := range n {
		d := day.AddDate(0, 0, i-(n-1))
		days[i] = d.Format(constants.DateFormat)
	}
	return days
}

// LastSevenDays is LastNDays for the statistics window.
func LastSevenDays(now time.Time, loc *time.Location) []string {
	return LastNDays(now, loc, constants.StatsWindowDays)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(constants.DateFormat, s)
}

// ValidateDate reports whether s is a valid YYYY-MM-DD day.
func ValidateDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// WeekdayOf returns the weekday of a YYYY-MM-DD day.
func WeekdayOf(s string) (time.Weekday, error) {
	t, err := ParseDate(s)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}
