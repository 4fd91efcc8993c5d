package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/gymcal/internal/models"
)

var (
	ErrEntryIndexOutOfRange = errors.New("entry index out of range")
	ErrEntryNameRequired    = errors.New("entry name is required")
	ErrInvalidDate          = errors.New("invalid date")
)

// MergeCalendar fills empty dates on or after today with the expanded
// workouts. Occupied dates and past dates are left exactly as they were, so
// merging the same expansion twice changes nothing the second time.
func MergeCalendar(calendar models.CalendarMap, expanded []ScheduledWorkout, today string) models.CalendarMap {
	merged := calendar.Clone()
	for _, item := range expanded {
		if item.Date < today {
			continue
		}
		if merged.Occupied(item.Date) {
			continue
		}
		merged[item.Date] = []models.CalendarEntry{{
			Name:   item.Name,
			Status: models.EntryStatusScheduled,
		}}
	}
	return merged
}

// AddCalendarEntry appends a scheduled entry regardless of what the date
// already holds.
func AddCalendarEntry(calendar models.CalendarMap, date string, name string) (models.CalendarMap, error) {
	key, ok := NormalizeDateKey(date)
	if !ok {
		return nil, ErrInvalidDate
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEntryNameRequired
	}
	if models.IsRestName(trimmed) {
		trimmed = models.RestWorkoutName
	}

	updated := calendar.Clone()
	updated[key] = append(updated[key], models.CalendarEntry{
		Name:   trimmed,
		Status: models.EntryStatusScheduled,
	})
	return updated, nil
}

func RemoveCalendarEntry(calendar models.CalendarMap, date string, index int) (models.CalendarMap, error) {
	key, ok := NormalizeDateKey(date)
	if !ok {
		return nil, ErrInvalidDate
	}
	entries := calendar[key]
	if index < 0 || index >= len(entries) {
		return nil, ErrEntryIndexOutOfRange
	}

	updated := calendar.Clone()
	remaining := make([]models.CalendarEntry, 0, len(entries)-1)
	remaining = append(remaining, entries[:index]...)
	remaining = append(remaining, entries[index+1:]...)
	if len(remaining) == 0 {
		delete(updated, key)
	} else {
		updated[key] = remaining
	}
	return updated, nil
}

// DiffCalendars returns the dates whose entries differ between before and
// after. A date removed in after maps to an empty slice.
func DiffCalendars(before models.CalendarMap, after models.CalendarMap) map[string][]models.CalendarEntry {
	delta := make(map[string][]models.CalendarEntry)
	for date, entries := range after {
		if len(entries) == 0 {
			continue
		}
		if !sameEntries(before[date], entries) {
			delta[date] = entries
		}
	}
	for date, entries := range before {
		if len(entries) == 0 {
			continue
		}
		if len(after[date]) == 0 {
			delta[date] = []models.CalendarEntry{}
		}
	}
	return delta
}

func sameEntries(left []models.CalendarEntry, right []models.CalendarEntry) bool {
	if len(left) != len(right) {
		return false
	}
	for index := range left {
		if left[index] != right[index] {
			return false
		}
	}
	return true
}
