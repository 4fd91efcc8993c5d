package api

import "github.com/terraincognita07/gymcal/internal/models"

type entryPayload struct {
	Name string `json:"name"`
}

type completeEntryPayload struct {
	WorkoutLogID string `json:"workoutLogId"`
}

type workoutPayload struct {
	Name string `json:"name"`
}

type routinePayload struct {
	Name       string               `json:"name"`
	Type       string               `json:"type"`
	Schedule   []*models.WorkoutRef `json:"schedule"`
	CycleItems []models.WorkoutRef  `json:"cycleItems"`
}

func (payload routinePayload) routine() models.Routine {
	return models.Routine{
		Name:       payload.Name,
		Type:       payload.Type,
		Schedule:   payload.Schedule,
		CycleItems: payload.CycleItems,
	}
}
