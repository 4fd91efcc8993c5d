package firestore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/terraincognita07/gymcal/internal/models"
	"google.golang.org/api/iterator"
)

// WorkoutSource reads the workouts a user saved from the mobile app's
// document store at users/<uid>/workouts.
type WorkoutSource struct {
	client *firestore.Client
}

func NewWorkoutSource(ctx context.Context, projectID string) (*WorkoutSource, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &WorkoutSource{client: client}, nil
}

func (source *WorkoutSource) Close() error {
	return source.client.Close()
}

func (source *WorkoutSource) ListWorkouts(ctx context.Context, externalID string) ([]models.Workout, error) {
	iter := source.client.Collection("users").Doc(externalID).Collection("workouts").Documents(ctx)
	defer iter.Stop()

	workouts := make([]models.Workout, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list workouts for %s: %w", externalID, err)
		}
		workout, ok := WorkoutFromDocument(doc.Ref.ID, doc.Data())
		if !ok {
			continue
		}
		workouts = append(workouts, workout)
	}
	return workouts, nil
}

// WorkoutFromDocument converts a workout document. Documents without a
// usable name are skipped; the document id stands in for a missing id field.
func WorkoutFromDocument(docID string, data map[string]interface{}) (models.Workout, bool) {
	name := strings.TrimSpace(getString(data, "name"))
	if name == "" {
		return models.Workout{}, false
	}
	id := strings.TrimSpace(getString(data, "id"))
	if id == "" {
		id = docID
	}
	return models.Workout{ID: id, Name: name}, true
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
