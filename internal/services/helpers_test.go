package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/gymcal/internal/models"
)

func mustParseDay(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, ok := ParseDate(raw, time.UTC)
	if !ok {
		t.Fatalf("parse day %q", raw)
	}
	return parsed
}

func ref(name string) *models.WorkoutRef {
	return &models.WorkoutRef{ID: name, Name: name}
}

func restRef() *models.WorkoutRef {
	rest := models.RestWorkout()
	return &rest
}

func scheduled(name string) models.CalendarEntry {
	return models.CalendarEntry{Name: name, Status: models.EntryStatusScheduled}
}

func withStatus(name string, status string) models.CalendarEntry {
	return models.CalendarEntry{Name: name, Status: status}
}

type memoryCalendarStore struct {
	mu       sync.Mutex
	days     models.CalendarMap
	revision int64
	loadErr  error
	applyErr error
	applied  []map[string][]models.CalendarEntry
}

func newMemoryCalendarStore(days models.CalendarMap) *memoryCalendarStore {
	if days == nil {
		days = models.CalendarMap{}
	}
	return &memoryCalendarStore{days: days.Clone()}
}

func (store *memoryCalendarStore) LoadCalendar(context.Context, uint) (models.CalendarSnapshot, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.loadErr != nil {
		return models.CalendarSnapshot{}, store.loadErr
	}
	return models.CalendarSnapshot{Days: store.days.Clone(), Revision: store.revision}, nil
}

func (store *memoryCalendarStore) ApplyCalendarDelta(_ context.Context, _ uint, expectedRevision int64, delta map[string][]models.CalendarEntry) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.applyErr != nil {
		return 0, store.applyErr
	}
	if expectedRevision != store.revision {
		return 0, models.ErrStaleRevision
	}
	for date, entries := range delta {
		if len(entries) == 0 {
			delete(store.days, date)
			continue
		}
		copied := make([]models.CalendarEntry, len(entries))
		copy(copied, entries)
		store.days[date] = copied
	}
	store.revision++
	store.applied = append(store.applied, delta)
	return store.revision, nil
}

type memoryValue struct {
	value    string
	revision int64
}

type memoryKeyValueStore struct {
	mu     sync.Mutex
	values map[string]memoryValue
	getErr error
	putErr error
	// putErrKey limits putErr to one key when set.
	putErrKey string
}

func newMemoryKeyValueStore() *memoryKeyValueStore {
	return &memoryKeyValueStore{values: make(map[string]memoryValue)}
}

func (store *memoryKeyValueStore) Get(_ context.Context, _ uint, key string) (string, int64, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.getErr != nil {
		return "", 0, false, store.getErr
	}
	value, ok := store.values[key]
	return value.value, value.revision, ok, nil
}

func (store *memoryKeyValueStore) Put(_ context.Context, _ uint, key string, value string, expectedRevision int64) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.putErr != nil && (store.putErrKey == "" || store.putErrKey == key) {
		return 0, store.putErr
	}
	if store.values[key].revision != expectedRevision {
		return 0, models.ErrStaleRevision
	}
	next := expectedRevision + 1
	store.values[key] = memoryValue{value: value, revision: next}
	return next, nil
}
