package services

import (
	"strings"
	"time"

	"github.com/terraincognita07/gymcal/internal/models"
)

type ScheduledWorkout struct {
	Date string
	Name string
}

// ExpandRoutine lists the workouts routine implies for horizonDays days
// starting at horizonStart. Degenerate routines expand to nothing.
func ExpandRoutine(routine models.Routine, horizonStart time.Time, horizonDays int) []ScheduledWorkout {
	if horizonDays <= 0 {
		return nil
	}
	start := dateOnly(horizonStart)

	switch routine.Type {
	case models.RoutineTypeFixedDays:
		return expandFixedDays(routine.Schedule, start, horizonDays)
	case models.RoutineTypeCycle:
		return expandCycle(routine.CycleItems, start, horizonDays)
	default:
		return nil
	}
}

func expandFixedDays(schedule []*models.WorkoutRef, start time.Time, horizonDays int) []ScheduledWorkout {
	expanded := make([]ScheduledWorkout, 0, horizonDays)
	for offset := 0; offset < horizonDays; offset++ {
		day := start.AddDate(0, 0, offset)
		dow := DayOfWeek(day)
		if dow >= len(schedule) {
			continue
		}
		slot := schedule[dow]
		if slot == nil || slot.IsBlank() {
			continue
		}
		expanded = append(expanded, ScheduledWorkout{Date: FormatDate(day), Name: slotName(*slot)})
	}
	return expanded
}

func expandCycle(items []models.WorkoutRef, start time.Time, horizonDays int) []ScheduledWorkout {
	if len(items) == 0 {
		return nil
	}
	expanded := make([]ScheduledWorkout, 0, horizonDays)
	for offset := 0; offset < horizonDays; offset++ {
		item := items[offset%len(items)]
		if item.IsBlank() {
			continue
		}
		day := start.AddDate(0, 0, offset)
		expanded = append(expanded, ScheduledWorkout{Date: FormatDate(day), Name: slotName(item)})
	}
	return expanded
}

func slotName(ref models.WorkoutRef) string {
	if ref.IsRest() {
		return models.RestWorkoutName
	}
	return strings.TrimSpace(ref.Name)
}
