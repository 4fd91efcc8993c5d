package api

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/gymcal/internal/services"
)

type Handler struct {
	secretKey []byte
	location  *time.Location
	calendar  *services.CalendarService
	routines  *services.RoutineService
	workouts  *services.WorkoutService
	exports   *services.ExportService
	imports   *services.ImportService
}

func NewHandler(secret string, location *time.Location, deps Dependencies) (*Handler, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("secret key is required")
	}
	if location == nil {
		location = time.Local
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}

	return &Handler{
		secretKey: []byte(secret),
		location:  location,
		calendar:  deps.Calendar,
		routines:  deps.Routines,
		workouts:  deps.Workouts,
		exports:   deps.Exports,
		imports:   deps.Imports,
	}, nil
}
