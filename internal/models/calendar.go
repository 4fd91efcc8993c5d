package models

import (
	"sort"
	"strings"
)

const (
	EntryStatusScheduled = "scheduled"
	EntryStatusCompleted = "completed"
	EntryStatusMissed    = "missed"
)

type CalendarEntry struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	WorkoutLogID string `json:"workoutLogId,omitempty"`
}

// Normalize lowercases the status, falls back to scheduled for unknown
// values and drops a log reference that is not backed by a completion.
func (entry CalendarEntry) Normalize() CalendarEntry {
	entry.Name = strings.TrimSpace(entry.Name)
	entry.Status = NormalizeEntryStatus(entry.Status)
	if entry.Status != EntryStatusCompleted {
		entry.WorkoutLogID = ""
	}
	return entry
}

func NormalizeEntryStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case EntryStatusCompleted:
		return EntryStatusCompleted
	case EntryStatusMissed:
		return EntryStatusMissed
	default:
		return EntryStatusScheduled
	}
}

// CalendarMap maps a YYYY-MM-DD date to the entries shown on that date in
// display order. A key holding zero entries means the same as a missing key.
type CalendarMap map[string][]CalendarEntry

func (calendar CalendarMap) Clone() CalendarMap {
	cloned := make(CalendarMap, len(calendar))
	for date, entries := range calendar {
		if len(entries) == 0 {
			continue
		}
		copied := make([]CalendarEntry, len(entries))
		copy(copied, entries)
		cloned[date] = copied
	}
	return cloned
}

func (calendar CalendarMap) Occupied(date string) bool {
	return len(calendar[date]) > 0
}

func (calendar CalendarMap) SortedDates() []string {
	dates := make([]string, 0, len(calendar))
	for date, entries := range calendar {
		if len(entries) == 0 {
			continue
		}
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// LegendMap assigns each workout name a palette index. Indexes are handed
// out once and never reassigned.
type LegendMap map[string]int

func (legend LegendMap) Clone() LegendMap {
	cloned := make(LegendMap, len(legend))
	for name, index := range legend {
		cloned[name] = index
	}
	return cloned
}

// CalendarSnapshot is a calendar as loaded from the store together with the
// revision any write computed from it must present.
type CalendarSnapshot struct {
	Days           CalendarMap
	Revision       int64
	MalformedDates []string
}
