package services

import (
	"time"

	"github.com/terraincognita07/gymcal/internal/models"
)

// ClearFutureScheduled drops scheduled entries dated today or later.
// Completed and missed entries stay, as does everything in the past.
func ClearFutureScheduled(calendar models.CalendarMap, today string) models.CalendarMap {
	cleared := calendar.Clone()
	for date, entries := range cleared {
		if date < today {
			continue
		}
		kept := make([]models.CalendarEntry, 0, len(entries))
		for _, entry := range entries {
			if models.NormalizeEntryStatus(entry.Status) == models.EntryStatusScheduled {
				continue
			}
			kept = append(kept, entry)
		}
		if len(kept) == 0 {
			delete(cleared, date)
			continue
		}
		cleared[date] = kept
	}
	return cleared
}

func SwitchRoutine(calendar models.CalendarMap, routine models.Routine, today time.Time, horizonDays int) models.CalendarMap {
	todayKey := FormatDate(today)
	cleared := ClearFutureScheduled(calendar, todayKey)
	return MergeCalendar(cleared, ExpandRoutine(routine, today, horizonDays), todayKey)
}

func ApplyRoutine(calendar models.CalendarMap, routine models.Routine, today time.Time, horizonDays int) models.CalendarMap {
	return MergeCalendar(calendar, ExpandRoutine(routine, today, horizonDays), FormatDate(today))
}
