package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/gymcal/internal/models"
)

var ErrRoutineDocumentMalformed = errors.New("routine document malformed")

type routineDocument struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Type          string            `json:"type"`
	Schedule      []json.RawMessage `json:"schedule"`
	CycleItems    []json.RawMessage `json:"cycleItems"`
	SchemaVersion int               `json:"schemaVersion"`
}

// MigrateRoutineDocument decodes a stored routine of any schema version and
// returns it at the current version. Version 1 documents carry plain string
// slots where "" meant no workout; those become unset slots.
func MigrateRoutineDocument(raw []byte) (models.Routine, error) {
	var document routineDocument
	if err := json.Unmarshal(raw, &document); err != nil {
		return models.Routine{}, fmt.Errorf("%w: %v", ErrRoutineDocumentMalformed, err)
	}

	version := document.SchemaVersion
	if version == 0 {
		version = detectRoutineSchema(document)
	}

	routine := models.Routine{
		ID:            strings.TrimSpace(document.ID),
		Name:          strings.TrimSpace(document.Name),
		Type:          normalizeRoutineType(document.Type),
		SchemaVersion: models.RoutineSchemaCurrent,
	}

	switch version {
	case models.RoutineSchemaLegacy:
		schedule, err := decodeLegacySlots(document.Schedule)
		if err != nil {
			return models.Routine{}, err
		}
		cycle, err := decodeLegacySlots(document.CycleItems)
		if err != nil {
			return models.Routine{}, err
		}
		routine.Schedule = schedule
		routine.CycleItems = cycleSlots(cycle)
	case models.RoutineSchemaCurrent:
		schedule, err := decodeCurrentSlots(document.Schedule)
		if err != nil {
			return models.Routine{}, err
		}
		cycle, err := decodeCurrentSlots(document.CycleItems)
		if err != nil {
			return models.Routine{}, err
		}
		routine.Schedule = schedule
		routine.CycleItems = cycleSlots(cycle)
	default:
		return models.Routine{}, fmt.Errorf("%w: unsupported schema version %d", ErrRoutineDocumentMalformed, version)
	}

	return routine, nil
}

func detectRoutineSchema(document routineDocument) int {
	slots := append(append([]json.RawMessage{}, document.Schedule...), document.CycleItems...)
	for _, slot := range slots {
		trimmed := strings.TrimSpace(string(slot))
		if trimmed == "" || trimmed == "null" {
			continue
		}
		if strings.HasPrefix(trimmed, `"`) {
			return models.RoutineSchemaLegacy
		}
		return models.RoutineSchemaCurrent
	}
	return models.RoutineSchemaCurrent
}

func decodeLegacySlots(raw []json.RawMessage) ([]*models.WorkoutRef, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	slots := make([]*models.WorkoutRef, len(raw))
	for index, item := range raw {
		if isJSONNull(item) {
			continue
		}
		var name string
		if err := json.Unmarshal(item, &name); err != nil {
			return nil, fmt.Errorf("%w: legacy slot %d: %v", ErrRoutineDocumentMalformed, index, err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ref := models.WorkoutRef{Name: name}
		if models.IsRestName(name) {
			ref = models.RestWorkout()
		}
		slots[index] = &ref
	}
	return slots, nil
}

func decodeCurrentSlots(raw []json.RawMessage) ([]*models.WorkoutRef, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	slots := make([]*models.WorkoutRef, len(raw))
	for index, item := range raw {
		if isJSONNull(item) {
			continue
		}
		var ref models.WorkoutRef
		if err := json.Unmarshal(item, &ref); err != nil {
			return nil, fmt.Errorf("%w: slot %d: %v", ErrRoutineDocumentMalformed, index, err)
		}
		ref.Name = strings.TrimSpace(ref.Name)
		if ref.IsBlank() {
			continue
		}
		if ref.IsRest() {
			ref = models.RestWorkout()
		}
		slots[index] = &ref
	}
	return slots, nil
}

// cycleSlots keeps every slot in position so the cycle period is unchanged.
// Unset slots become blank refs, which the expander skips.
func cycleSlots(slots []*models.WorkoutRef) []models.WorkoutRef {
	if len(slots) == 0 {
		return nil
	}
	items := make([]models.WorkoutRef, len(slots))
	for index, slot := range slots {
		if slot != nil {
			items[index] = *slot
		}
	}
	return items
}

func normalizeRoutineType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fixeddays", "fixed_days", "fixed":
		return models.RoutineTypeFixedDays
	case "cycle":
		return models.RoutineTypeCycle
	default:
		return strings.TrimSpace(raw)
	}
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
