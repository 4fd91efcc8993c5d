package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/gymcal/internal/models"
)

var (
	ErrRoutineNameRequired = errors.New("routine name is required")
	ErrRoutineTypeInvalid  = errors.New("routine type is invalid")
	ErrRoutineScheduleSize = errors.New("routine schedule must have 7 slots")
	ErrRoutineDegenerate   = errors.New("routine schedules no workouts")
	ErrRoutineNotFound     = errors.New("routine not found")
	ErrNoActiveRoutine     = errors.New("no active routine")
)

type activeRoutinePointer struct {
	RoutineID string    `json:"routineId"`
	ActiveAt  time.Time `json:"activeAt"`
}

type RoutineService struct {
	store KeyValueStore
	now   Clock
}

func NewRoutineService(store KeyValueStore) *RoutineService {
	return &RoutineService{store: store, now: time.Now}
}

func (service *RoutineService) WithClock(now Clock) *RoutineService {
	service.now = now
	return service
}

// ValidateRoutine rejects routines the expander would turn into nothing.
func ValidateRoutine(routine models.Routine) error {
	if strings.TrimSpace(routine.Name) == "" {
		return ErrRoutineNameRequired
	}

	switch routine.Type {
	case models.RoutineTypeFixedDays:
		if len(routine.Schedule) != models.DaysPerWeek {
			return ErrRoutineScheduleSize
		}
		for _, slot := range routine.Schedule {
			if slot != nil && !slot.IsBlank() {
				return nil
			}
		}
		return ErrRoutineDegenerate
	case models.RoutineTypeCycle:
		for _, item := range routine.CycleItems {
			if !item.IsBlank() {
				return nil
			}
		}
		return ErrRoutineDegenerate
	default:
		return ErrRoutineTypeInvalid
	}
}

// SaveRoutine validates routine and appends it to the saved routines list.
// Saved routines are never edited or deleted.
func (service *RoutineService) SaveRoutine(ctx context.Context, userID uint, routine models.Routine) (models.Routine, error) {
	routine.Name = strings.TrimSpace(routine.Name)
	if routine.Type == models.RoutineTypeFixedDays && len(routine.Schedule) < models.DaysPerWeek {
		padded := make([]*models.WorkoutRef, models.DaysPerWeek)
		copy(padded, routine.Schedule)
		routine.Schedule = padded
	}
	if err := ValidateRoutine(routine); err != nil {
		return models.Routine{}, err
	}

	routine.ID = uuid.NewString()
	routine.SchemaVersion = models.RoutineSchemaCurrent
	routine.CreatedAt = service.now().UTC()
	if routine.Type == models.RoutineTypeFixedDays {
		routine.CycleItems = nil
	} else {
		routine.Schedule = nil
	}

	if err := service.appendRoutines(ctx, userID, []models.Routine{routine}); err != nil {
		return models.Routine{}, err
	}
	return routine, nil
}

func (service *RoutineService) ListRoutines(ctx context.Context, userID uint) ([]models.Routine, error) {
	routines, _, err := service.loadRoutines(ctx, userID)
	return routines, err
}

func (service *RoutineService) FindRoutine(ctx context.Context, userID uint, routineID string) (models.Routine, error) {
	routines, err := service.ListRoutines(ctx, userID)
	if err != nil {
		return models.Routine{}, err
	}
	for _, routine := range routines {
		if routine.ID == routineID {
			return routine, nil
		}
	}
	return models.Routine{}, ErrRoutineNotFound
}

func (service *RoutineService) ActiveRoutine(ctx context.Context, userID uint) (models.Routine, error) {
	pointer := activeRoutinePointer{}
	_, found, err := loadJSONValue(ctx, service.store, userID, models.StoreKeyActiveRoutine, &pointer)
	if errors.Is(err, errMalformedValue) {
		logrus.Errorf("routines: active routine pointer for user %d is malformed: %v", userID, err)
		return models.Routine{}, ErrNoActiveRoutine
	}
	if err != nil {
		return models.Routine{}, persistenceError(OpLoadRoutines, err)
	}
	if !found || pointer.RoutineID == "" {
		return models.Routine{}, ErrNoActiveRoutine
	}
	return service.FindRoutine(ctx, userID, pointer.RoutineID)
}

func (service *RoutineService) SetActiveRoutine(ctx context.Context, userID uint, routineID string) error {
	if _, err := service.swapActiveRoutine(ctx, userID, routineID); err != nil {
		return persistenceError(OpSaveRoutine, err)
	}
	return nil
}

// swapActiveRoutine points the user at routineID and returns a func that
// puts the previous pointer back. A missing or malformed previous pointer
// is restored as an empty one.
func (service *RoutineService) swapActiveRoutine(ctx context.Context, userID uint, routineID string) (func(context.Context) error, error) {
	previous, revision, found, err := service.store.Get(ctx, userID, models.StoreKeyActiveRoutine)
	if err != nil {
		return nil, err
	}
	pointer := activeRoutinePointer{RoutineID: routineID, ActiveAt: service.now().UTC()}
	swapped, err := storeJSONValue(ctx, service.store, userID, models.StoreKeyActiveRoutine, pointer, revision)
	if err != nil {
		return nil, err
	}

	restore := func(ctx context.Context) error {
		if found && json.Valid([]byte(previous)) {
			_, err := service.store.Put(ctx, userID, models.StoreKeyActiveRoutine, previous, swapped)
			return err
		}
		_, err := storeJSONValue(ctx, service.store, userID, models.StoreKeyActiveRoutine, activeRoutinePointer{}, swapped)
		return err
	}
	return restore, nil
}

// ImportRoutineDocuments migrates raw routine documents and appends the
// valid ones. Documents that cannot be migrated or validated are skipped.
func (service *RoutineService) ImportRoutineDocuments(ctx context.Context, userID uint, documents []json.RawMessage) (int, error) {
	imported := make([]models.Routine, 0, len(documents))
	for index, document := range documents {
		routine, err := MigrateRoutineDocument(document)
		if err != nil {
			logrus.Warnf("routines: skip import document %d for user %d: %v", index, userID, err)
			continue
		}
		if err := ValidateRoutine(routine); err != nil {
			logrus.Warnf("routines: skip import routine %q for user %d: %v", routine.Name, userID, err)
			continue
		}
		if routine.ID == "" {
			routine.ID = uuid.NewString()
		}
		if routine.CreatedAt.IsZero() {
			routine.CreatedAt = service.now().UTC()
		}
		imported = append(imported, routine)
	}
	if len(imported) == 0 {
		return 0, nil
	}
	if err := service.appendRoutines(ctx, userID, imported); err != nil {
		return 0, err
	}
	return len(imported), nil
}

func (service *RoutineService) appendRoutines(ctx context.Context, userID uint, additions []models.Routine) error {
	existing, revision, err := service.loadRoutines(ctx, userID)
	if err != nil {
		return persistenceError(OpSaveRoutine, err)
	}

	known := make(map[string]struct{}, len(existing))
	for _, routine := range existing {
		known[routine.ID] = struct{}{}
	}
	for _, routine := range additions {
		if _, duplicate := known[routine.ID]; duplicate {
			continue
		}
		existing = append(existing, routine)
	}

	if _, err := storeJSONValue(ctx, service.store, userID, models.StoreKeySavedRoutines, existing, revision); err != nil {
		return persistenceError(OpSaveRoutine, err)
	}
	return nil
}

func (service *RoutineService) loadRoutines(ctx context.Context, userID uint) ([]models.Routine, int64, error) {
	raw, revision, found, err := service.store.Get(ctx, userID, models.StoreKeySavedRoutines)
	if err != nil {
		return nil, 0, persistenceError(OpLoadRoutines, err)
	}
	if !found {
		return []models.Routine{}, revision, nil
	}

	documents := make([]json.RawMessage, 0)
	if err := json.Unmarshal([]byte(raw), &documents); err != nil {
		logrus.Errorf("routines: saved routines for user %d are malformed, treating as empty: %v", userID, err)
		return []models.Routine{}, revision, nil
	}

	routines := make([]models.Routine, 0, len(documents))
	for index, document := range documents {
		routine, err := MigrateRoutineDocument(document)
		if err != nil {
			logrus.Errorf("routines: saved routine %d for user %d is malformed: %v", index, userID, err)
			continue
		}
		var stamp struct {
			CreatedAt time.Time `json:"createdAt"`
		}
		if err := json.Unmarshal(document, &stamp); err == nil {
			routine.CreatedAt = stamp.CreatedAt
		}
		routines = append(routines, routine)
	}
	return routines, revision, nil
}
