package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/gymcal/internal/db"
	"github.com/terraincognita07/gymcal/internal/services"
)

// Dependencies carries the services a Handler serves. Exports and Imports
// may be nil, the matching routes then answer 404.
type Dependencies struct {
	Calendar *services.CalendarService
	Routines *services.RoutineService
	Workouts *services.WorkoutService
	Exports  *services.ExportService
	Imports  *services.ImportService
}

type DependencyOptions struct {
	Location    *time.Location
	HorizonDays int
	// Remote is left nil when no document store is configured.
	Remote    services.RemoteWorkoutSource
	Observers []services.CalendarObserver
	Clock     services.Clock
}

// NewDependencies wires every service over the SQLite repositories.
func NewDependencies(repos *db.Repositories, options DependencyOptions) Dependencies {
	routines := services.NewRoutineService(repos.KeyValues)
	workouts := services.NewWorkoutService(repos.KeyValues, repos.Users, options.Remote)
	calendar := services.NewCalendarService(repos.Calendars, repos.KeyValues, routines, options.Location, options.HorizonDays)
	if options.Clock != nil {
		routines.WithClock(options.Clock)
		calendar.WithClock(options.Clock)
	}
	for _, observer := range options.Observers {
		calendar.AddObserver(observer)
	}

	return Dependencies{
		Calendar: calendar,
		Routines: routines,
		Workouts: workouts,
		Exports:  services.NewExportService(repos.Calendars, routines, workouts),
		Imports:  services.NewImportService(calendar, routines, workouts),
	}
}

func (deps Dependencies) validate() error {
	switch {
	case deps.Calendar == nil:
		return errors.New("calendar service is required")
	case deps.Routines == nil:
		return errors.New("routine service is required")
	case deps.Workouts == nil:
		return errors.New("workout service is required")
	}
	return nil
}
