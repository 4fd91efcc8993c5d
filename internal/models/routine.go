package models

import (
	"strings"
	"time"
)

const (
	RoutineTypeFixedDays = "fixedDays"
	RoutineTypeCycle     = "cycle"
)

const (
	RestWorkoutID   = "rest"
	RestWorkoutName = "Rest"
)

const (
	DaysPerWeek = 7

	RoutineSchemaLegacy  = 1
	RoutineSchemaCurrent = 2
)

// WorkoutRef points at a saved workout by id and display name. The Rest
// sentinel is a WorkoutRef too, so schedules never need a second slot type.
type WorkoutRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func RestWorkout() WorkoutRef {
	return WorkoutRef{ID: RestWorkoutID, Name: RestWorkoutName}
}

func (ref WorkoutRef) IsRest() bool {
	return ref.ID == RestWorkoutID || IsRestName(ref.Name)
}

func (ref WorkoutRef) IsBlank() bool {
	return strings.TrimSpace(ref.Name) == ""
}

func IsRestName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), RestWorkoutName)
}

// Routine is a user-authored recurring plan. Schedule is authoritative for
// fixedDays routines (index 0 is Sunday), CycleItems for cycle routines.
type Routine struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	Schedule      []*WorkoutRef `json:"schedule,omitempty"`
	CycleItems    []WorkoutRef  `json:"cycleItems,omitempty"`
	SchemaVersion int           `json:"schemaVersion"`
	CreatedAt     time.Time     `json:"createdAt"`
}
