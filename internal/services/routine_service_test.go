package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/gymcal/internal/models"
)

func TestValidateRoutine(t *testing.T) {
	tests := []struct {
		name    string
		routine models.Routine
		want    error
	}{
		{name: "missing name", routine: models.Routine{Type: models.RoutineTypeCycle}, want: ErrRoutineNameRequired},
		{name: "bad type", routine: models.Routine{Name: "x", Type: "weekly"}, want: ErrRoutineTypeInvalid},
		{name: "short schedule", routine: models.Routine{Name: "x", Type: models.RoutineTypeFixedDays, Schedule: []*models.WorkoutRef{ref("A")}}, want: ErrRoutineScheduleSize},
		{name: "empty schedule", routine: models.Routine{Name: "x", Type: models.RoutineTypeFixedDays, Schedule: make([]*models.WorkoutRef, 7)}, want: ErrRoutineDegenerate},
		{name: "blank cycle", routine: models.Routine{Name: "x", Type: models.RoutineTypeCycle, CycleItems: []models.WorkoutRef{{Name: " "}}}, want: ErrRoutineDegenerate},
		{name: "valid cycle", routine: models.Routine{Name: "x", Type: models.RoutineTypeCycle, CycleItems: []models.WorkoutRef{*ref("A")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateRoutine(tt.routine); !errors.Is(err, tt.want) {
				t.Fatalf("ValidateRoutine() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRoutineServiceSavePadsAndStamps(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	store := newMemoryKeyValueStore()
	service := NewRoutineService(store).WithClock(func() time.Time { return now })
	ctx := context.Background()

	saved, err := service.SaveRoutine(ctx, 1, models.Routine{
		Name:       " Upper ",
		Type:       models.RoutineTypeFixedDays,
		Schedule:   []*models.WorkoutRef{nil, ref("Upper")},
		CycleItems: []models.WorkoutRef{*ref("ignored")},
	})
	if err != nil {
		t.Fatalf("SaveRoutine() unexpected error: %v", err)
	}
	if saved.ID == "" || saved.Name != "Upper" || len(saved.Schedule) != 7 || saved.CycleItems != nil {
		t.Fatalf("unexpected saved routine %#v", saved)
	}
	if saved.SchemaVersion != models.RoutineSchemaCurrent || !saved.CreatedAt.Equal(now) {
		t.Fatalf("expected version and timestamp, got %#v", saved)
	}

	found, err := service.FindRoutine(ctx, 1, saved.ID)
	if err != nil {
		t.Fatalf("FindRoutine() unexpected error: %v", err)
	}
	if found.Schedule[1].Name != "Upper" || !found.CreatedAt.Equal(now) {
		t.Fatalf("stored routine did not round trip: %#v", found)
	}
	if _, err := service.FindRoutine(ctx, 1, "missing"); !errors.Is(err, ErrRoutineNotFound) {
		t.Fatalf("expected ErrRoutineNotFound, got %v", err)
	}
}

func TestRoutineServiceActiveRoutine(t *testing.T) {
	store := newMemoryKeyValueStore()
	service := NewRoutineService(store)
	ctx := context.Background()

	if _, err := service.ActiveRoutine(ctx, 1); !errors.Is(err, ErrNoActiveRoutine) {
		t.Fatalf("expected ErrNoActiveRoutine, got %v", err)
	}

	saved, err := service.SaveRoutine(ctx, 1, models.Routine{Name: "Cycle", Type: models.RoutineTypeCycle, CycleItems: []models.WorkoutRef{*ref("A")}})
	if err != nil {
		t.Fatalf("SaveRoutine() unexpected error: %v", err)
	}
	if err := service.SetActiveRoutine(ctx, 1, saved.ID); err != nil {
		t.Fatalf("SetActiveRoutine() unexpected error: %v", err)
	}
	active, err := service.ActiveRoutine(ctx, 1)
	if err != nil || active.ID != saved.ID {
		t.Fatalf("expected active routine %s, got %#v err=%v", saved.ID, active, err)
	}

	store.values[models.StoreKeyActiveRoutine] = memoryValue{value: "{broken", revision: store.values[models.StoreKeyActiveRoutine].revision}
	if _, err := service.ActiveRoutine(ctx, 1); !errors.Is(err, ErrNoActiveRoutine) {
		t.Fatalf("expected malformed pointer to read as no active routine, got %v", err)
	}
	if err := service.SetActiveRoutine(ctx, 1, saved.ID); err != nil {
		t.Fatalf("expected malformed pointer to be overwritten, got %v", err)
	}
}

func TestRoutineServiceSkipsMalformedStoredRoutines(t *testing.T) {
	store := newMemoryKeyValueStore()
	store.values[models.StoreKeySavedRoutines] = memoryValue{
		value:    `[{"id":"ok","name":"Legacy","type":"fixedDays","schedule":["","Push","","","","",""]},{"id":"bad","schemaVersion":7}]`,
		revision: 3,
	}
	service := NewRoutineService(store)

	routines, err := service.ListRoutines(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListRoutines() unexpected error: %v", err)
	}
	if len(routines) != 1 || routines[0].ID != "ok" || routines[0].SchemaVersion != models.RoutineSchemaCurrent {
		t.Fatalf("expected only the migrated routine, got %#v", routines)
	}
}

func TestRoutineServiceImportDeduplicates(t *testing.T) {
	store := newMemoryKeyValueStore()
	service := NewRoutineService(store)
	ctx := context.Background()
	documents := []json.RawMessage{
		json.RawMessage(`{"id":"a","name":"A","type":"cycle","cycleItems":["Run"]}`),
		json.RawMessage(`{"id":"b","name":"","type":"cycle","cycleItems":["Run"]}`),
		json.RawMessage(`not json`),
	}

	added, err := service.ImportRoutineDocuments(ctx, 1, documents)
	if err != nil || added != 1 {
		t.Fatalf("expected one imported routine, got %d err=%v", added, err)
	}
	if _, err := service.ImportRoutineDocuments(ctx, 1, documents[:1]); err != nil {
		t.Fatalf("re-import unexpected error: %v", err)
	}
	routines, _ := service.ListRoutines(ctx, 1)
	if len(routines) != 1 {
		t.Fatalf("expected re-import to be deduplicated, got %#v", routines)
	}
}

func TestRoutineServiceStoreFailureIsPersistenceError(t *testing.T) {
	store := newMemoryKeyValueStore()
	store.putErr = errors.New("disk full")
	service := NewRoutineService(store)

	_, err := service.SaveRoutine(context.Background(), 1, models.Routine{Name: "A", Type: models.RoutineTypeCycle, CycleItems: []models.WorkoutRef{*ref("A")}})
	var persistence *PersistenceError
	if !errors.As(err, &persistence) || persistence.Op != OpSaveRoutine {
		t.Fatalf("expected save routine PersistenceError, got %v", err)
	}
}
