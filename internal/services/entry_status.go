package services

import (
	"strings"

	"github.com/terraincognita07/gymcal/internal/models"
)

// NextEntryStatus is the manual toggle: scheduled, completed, missed, and
// back to scheduled.
func NextEntryStatus(status string) string {
	switch models.NormalizeEntryStatus(status) {
	case models.EntryStatusScheduled:
		return models.EntryStatusCompleted
	case models.EntryStatusCompleted:
		return models.EntryStatusMissed
	default:
		return models.EntryStatusScheduled
	}
}

func ToggleCalendarEntry(calendar models.CalendarMap, date string, index int) (models.CalendarMap, error) {
	return updateCalendarEntry(calendar, date, index, func(entry models.CalendarEntry) models.CalendarEntry {
		entry.Status = NextEntryStatus(entry.Status)
		if entry.Status != models.EntryStatusCompleted {
			entry.WorkoutLogID = ""
		}
		return entry
	})
}

// CompleteCalendarEntry records an externally logged session against the
// entry. This is the only path that attaches a workout log id.
func CompleteCalendarEntry(calendar models.CalendarMap, date string, index int, workoutLogID string) (models.CalendarMap, error) {
	return updateCalendarEntry(calendar, date, index, func(entry models.CalendarEntry) models.CalendarEntry {
		entry.Status = models.EntryStatusCompleted
		entry.WorkoutLogID = strings.TrimSpace(workoutLogID)
		return entry
	})
}

func updateCalendarEntry(calendar models.CalendarMap, date string, index int, update func(models.CalendarEntry) models.CalendarEntry) (models.CalendarMap, error) {
	key, ok := NormalizeDateKey(date)
	if !ok {
		return nil, ErrInvalidDate
	}
	if index < 0 || index >= len(calendar[key]) {
		return nil, ErrEntryIndexOutOfRange
	}

	updated := calendar.Clone()
	updated[key][index] = update(updated[key][index])
	return updated, nil
}
