package models

import (
	"errors"
	"time"
)

const (
	StoreKeySavedRoutines = "savedRoutines"
	StoreKeyWorkouts      = "workouts"
	StoreKeyLegend        = "calendarLegend"
	StoreKeyActiveRoutine = "activeRoutine"
	StoreKeyCalendar      = "allCalendarWorkouts"
)

// ErrStaleRevision is returned by versioned writes whose expected revision
// no longer matches the stored one.
var ErrStaleRevision = errors.New("stale revision")

type KeyValueEntry struct {
	UserID    uint   `gorm:"primaryKey"`
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	Revision  int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (KeyValueEntry) TableName() string {
	return "kv_entries"
}

type CalendarDay struct {
	UserID    uint   `gorm:"primaryKey"`
	Date      string `gorm:"primaryKey"`
	Entries   string `gorm:"not null"`
	UpdatedAt time.Time
}

type CalendarRevision struct {
	UserID   uint  `gorm:"primaryKey"`
	Revision int64 `gorm:"not null;default:0"`
}
