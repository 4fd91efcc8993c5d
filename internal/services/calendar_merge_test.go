package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/terraincognita07/gymcal/internal/models"
)

func pushPullRoutine() models.Routine {
	return models.Routine{
		Type:       models.RoutineTypeCycle,
		CycleItems: []models.WorkoutRef{*ref("Push"), *ref("Pull"), models.RestWorkout()},
	}
}

func TestMergeCalendarIsIdempotent(t *testing.T) {
	calendar := models.CalendarMap{
		"2024-01-02": {withStatus("Run", models.EntryStatusCompleted)},
	}
	expanded := ExpandRoutine(pushPullRoutine(), mustParseDay(t, "2023-12-30"), 21)

	once := MergeCalendar(calendar, expanded, "2024-01-01")
	twice := MergeCalendar(once, expanded, "2024-01-01")
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second merge changed the calendar:\nonce  %#v\ntwice %#v", once, twice)
	}
	if len(DiffCalendars(once, twice)) != 0 {
		t.Fatal("expected no delta from a repeated merge")
	}
}

func TestMergeCalendarLeavesOccupiedAndPastDates(t *testing.T) {
	calendar := models.CalendarMap{
		"2023-12-31": {withStatus("Swim", models.EntryStatusMissed)},
		"2024-01-03": {scheduled("Yoga"), withStatus("Run", models.EntryStatusCompleted)},
	}
	expanded := ExpandRoutine(pushPullRoutine(), mustParseDay(t, "2023-12-29"), 10)

	merged := MergeCalendar(calendar, expanded, "2024-01-01")

	for date, entries := range calendar {
		if !reflect.DeepEqual(merged[date], entries) {
			t.Fatalf("occupied date %s changed: %#v", date, merged[date])
		}
	}
	for _, date := range []string{"2023-12-29", "2023-12-30"} {
		if _, ok := merged[date]; ok {
			t.Fatalf("merge wrote into the past on %s", date)
		}
	}
	if entries := merged["2024-01-01"]; len(entries) != 1 || entries[0].Status != models.EntryStatusScheduled {
		t.Fatalf("expected a scheduled entry today, got %#v", entries)
	}
}

func TestMergeCalendarDoesNotMutateInput(t *testing.T) {
	calendar := models.CalendarMap{"2024-01-05": {scheduled("Push")}}
	expanded := ExpandRoutine(pushPullRoutine(), mustParseDay(t, "2024-01-01"), 7)

	_ = MergeCalendar(calendar, expanded, "2024-01-01")
	if len(calendar) != 1 {
		t.Fatalf("input calendar was mutated: %#v", calendar)
	}
}

func TestAddCalendarEntryBypassesOccupiedCheck(t *testing.T) {
	calendar := models.CalendarMap{"2023-06-01": {withStatus("Run", models.EntryStatusCompleted)}}

	updated, err := AddCalendarEntry(calendar, "01/06/2023", " rest ")
	if err != nil {
		t.Fatalf("AddCalendarEntry() unexpected error: %v", err)
	}
	entries := updated["2023-06-01"]
	if len(entries) != 2 {
		t.Fatalf("expected appended entry on occupied past date, got %#v", entries)
	}
	if entries[1] != scheduled(models.RestWorkoutName) {
		t.Fatalf("expected scheduled Rest, got %#v", entries[1])
	}
	if len(calendar["2023-06-01"]) != 1 {
		t.Fatal("input calendar was mutated")
	}
}

func TestCalendarEntryEditErrors(t *testing.T) {
	calendar := models.CalendarMap{"2024-01-01": {scheduled("Push")}}

	if _, err := AddCalendarEntry(calendar, "2024-01-01", "  "); !errors.Is(err, ErrEntryNameRequired) {
		t.Fatalf("expected ErrEntryNameRequired, got %v", err)
	}
	if _, err := AddCalendarEntry(calendar, "tomorrow", "Push"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := RemoveCalendarEntry(calendar, "2024-01-01", 1); !errors.Is(err, ErrEntryIndexOutOfRange) {
		t.Fatalf("expected ErrEntryIndexOutOfRange, got %v", err)
	}
	if _, err := RemoveCalendarEntry(calendar, "2024-01-02", 0); !errors.Is(err, ErrEntryIndexOutOfRange) {
		t.Fatalf("expected ErrEntryIndexOutOfRange for empty date, got %v", err)
	}
}

func TestRemoveCalendarEntryDropsEmptyDate(t *testing.T) {
	calendar := models.CalendarMap{"2024-01-01": {scheduled("Push"), scheduled("Pull")}}

	updated, err := RemoveCalendarEntry(calendar, "2024-01-01", 0)
	if err != nil {
		t.Fatalf("RemoveCalendarEntry() unexpected error: %v", err)
	}
	if entries := updated["2024-01-01"]; len(entries) != 1 || entries[0].Name != "Pull" {
		t.Fatalf("expected Pull to remain, got %#v", entries)
	}

	updated, err = RemoveCalendarEntry(updated, "2024-01-01", 0)
	if err != nil {
		t.Fatalf("RemoveCalendarEntry() unexpected error: %v", err)
	}
	if _, ok := updated["2024-01-01"]; ok {
		t.Fatal("expected date key to be removed with its last entry")
	}
}

func TestDiffCalendars(t *testing.T) {
	before := models.CalendarMap{
		"2024-01-01": {scheduled("Push")},
		"2024-01-02": {scheduled("Pull")},
		"2024-01-03": {scheduled("Legs")},
	}
	after := models.CalendarMap{
		"2024-01-01": {scheduled("Push")},
		"2024-01-02": {withStatus("Pull", models.EntryStatusCompleted)},
		"2024-01-04": {scheduled("Run")},
	}

	delta := DiffCalendars(before, after)
	if len(delta) != 3 {
		t.Fatalf("expected three changed dates, got %#v", delta)
	}
	if entries, ok := delta["2024-01-03"]; !ok || len(entries) != 0 {
		t.Fatalf("expected removed date as empty slice, got %#v", entries)
	}
	if _, ok := delta["2024-01-01"]; ok {
		t.Fatal("unchanged date must not be in the delta")
	}
}
