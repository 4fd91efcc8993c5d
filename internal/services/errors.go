package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/gymcal/internal/models"
)

const (
	OpLoadCalendar  = "load calendar"
	OpSaveCalendar  = "save calendar"
	OpApplyRoutine  = "apply routine"
	OpSwitchRoutine = "switch routine"
	OpLoadRoutines  = "load routines"
	OpSaveRoutine   = "save routine"
	OpLoadLegend    = "load legend"
	OpSaveLegend    = "save legend"
	OpLoadWorkouts  = "load workouts"
	OpSaveWorkouts  = "save workouts"
)

// PersistenceError reports a failed store read or write. The in-memory
// calendar is never updated when one is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (err *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", err.Op, err.Err)
}

func (err *PersistenceError) Unwrap() error {
	return err.Err
}

func (err *PersistenceError) Conflict() bool {
	return errors.Is(err.Err, models.ErrStaleRevision)
}

func persistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *PersistenceError
	if errors.As(err, &existing) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
