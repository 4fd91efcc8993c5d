package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/gymcal/internal/models"
)

var (
	ErrWorkoutNameRequired = errors.New("workout name is required")
	ErrUserNotFound        = errors.New("user not found")
)

// RemoteWorkoutSource lists the workouts a user saved in the remote
// document store, keyed by the user's external id.
type RemoteWorkoutSource interface {
	ListWorkouts(ctx context.Context, externalID string) ([]models.Workout, error)
}

type WorkoutUserRepository interface {
	FindByID(ctx context.Context, userID uint) (models.User, bool, error)
}

type WorkoutService struct {
	store  KeyValueStore
	users  WorkoutUserRepository
	remote RemoteWorkoutSource
}

func NewWorkoutService(store KeyValueStore, users WorkoutUserRepository, remote RemoteWorkoutSource) *WorkoutService {
	return &WorkoutService{store: store, users: users, remote: remote}
}

// ListWorkouts returns the picker list. Users linked to the remote store
// get the remote workouts followed by local ones the remote list lacks;
// everyone else reads the local workouts key.
func (service *WorkoutService) ListWorkouts(ctx context.Context, userID uint) ([]models.Workout, error) {
	if service.remote != nil && service.users != nil {
		user, found, err := service.users.FindByID(ctx, userID)
		if err != nil {
			return nil, persistenceError(OpLoadWorkouts, err)
		}
		if !found {
			return nil, ErrUserNotFound
		}
		if strings.TrimSpace(user.ExternalID) != "" {
			remote, err := service.remote.ListWorkouts(ctx, user.ExternalID)
			if err != nil {
				return nil, persistenceError(OpLoadWorkouts, err)
			}
			local, _, err := service.loadLocal(ctx, userID)
			if err != nil {
				return nil, err
			}
			return mergeWorkouts(remote, local), nil
		}
	}

	workouts, _, err := service.loadLocal(ctx, userID)
	return workouts, err
}

func (service *WorkoutService) AddWorkout(ctx context.Context, userID uint, name string) (models.Workout, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return models.Workout{}, ErrWorkoutNameRequired
	}

	workouts, revision, err := service.loadLocal(ctx, userID)
	if err != nil {
		return models.Workout{}, err
	}
	workout := models.Workout{ID: uuid.NewString(), Name: trimmed}
	workouts = append(workouts, workout)
	if _, err := storeJSONValue(ctx, service.store, userID, models.StoreKeyWorkouts, workouts, revision); err != nil {
		return models.Workout{}, persistenceError(OpSaveWorkouts, err)
	}
	return workout, nil
}

// ImportWorkouts adds workouts whose ids are not stored yet.
func (service *WorkoutService) ImportWorkouts(ctx context.Context, userID uint, imported []models.Workout) (int, error) {
	workouts, revision, err := service.loadLocal(ctx, userID)
	if err != nil {
		return 0, err
	}

	known := make(map[string]struct{}, len(workouts))
	for _, workout := range workouts {
		known[workout.ID] = struct{}{}
	}
	added := 0
	for _, workout := range imported {
		workout.Name = strings.TrimSpace(workout.Name)
		if workout.Name == "" {
			continue
		}
		if workout.ID == "" {
			workout.ID = uuid.NewString()
		}
		if _, exists := known[workout.ID]; exists {
			continue
		}
		known[workout.ID] = struct{}{}
		workouts = append(workouts, workout)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if _, err := storeJSONValue(ctx, service.store, userID, models.StoreKeyWorkouts, workouts, revision); err != nil {
		return 0, persistenceError(OpSaveWorkouts, err)
	}
	return added, nil
}

func (service *WorkoutService) loadLocal(ctx context.Context, userID uint) ([]models.Workout, int64, error) {
	raw, revision, found, err := service.store.Get(ctx, userID, models.StoreKeyWorkouts)
	if err != nil {
		return nil, 0, persistenceError(OpLoadWorkouts, err)
	}
	workouts := make([]models.Workout, 0)
	if !found {
		return workouts, revision, nil
	}
	if err := jsonUnmarshalString(raw, &workouts); err != nil {
		logrus.Errorf("workouts: stored workouts for user %d are malformed, treating as empty: %v", userID, err)
		return make([]models.Workout, 0), revision, nil
	}
	return workouts, revision, nil
}

func mergeWorkouts(primary []models.Workout, extra []models.Workout) []models.Workout {
	merged := make([]models.Workout, 0, len(primary)+len(extra))
	seen := make(map[string]struct{}, len(primary)+len(extra))
	for _, list := range [][]models.Workout{primary, extra} {
		for _, workout := range list {
			if _, duplicate := seen[workout.ID]; duplicate {
				continue
			}
			seen[workout.ID] = struct{}{}
			merged = append(merged, workout)
		}
	}
	return merged
}
