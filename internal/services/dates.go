package services

import (
	"strings"
	"time"
)

const (
	dateLayout       = "2006-01-02"
	legacyDateLayout = "02/01/2006"
)

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// FormatDate renders the calendar date of value in value's own location.
func FormatDate(value time.Time) string {
	return value.Format(dateLayout)
}

// ParseDate reads a YYYY-MM-DD key, or the legacy DD/MM/YYYY form older
// exports used. ok is false for anything else.
func ParseDate(raw string, location *time.Location) (time.Time, bool) {
	if location == nil {
		location = time.UTC
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	if parsed, err := time.ParseInLocation(dateLayout, trimmed, location); err == nil {
		return parsed, true
	}
	if parsed, err := time.ParseInLocation(legacyDateLayout, trimmed, location); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

// NormalizeDateKey returns the canonical key for raw, accepting legacy input.
func NormalizeDateKey(raw string) (string, bool) {
	parsed, ok := ParseDate(raw, time.UTC)
	if !ok {
		return "", false
	}
	return FormatDate(parsed), true
}

// DayOfWeek indexes Sunday as 0 through Saturday as 6.
func DayOfWeek(value time.Time) int {
	return int(value.Weekday())
}

func WeekStart(value time.Time) time.Time {
	day := dateOnly(value)
	return day.AddDate(0, 0, -DayOfWeek(day))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
