package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/gymcal/internal/models"
)

type Clock func() time.Time

var errMalformedValue = errors.New("stored value malformed")

type CalendarStore interface {
	LoadCalendar(ctx context.Context, userID uint) (models.CalendarSnapshot, error)
	ApplyCalendarDelta(ctx context.Context, userID uint, expectedRevision int64, delta map[string][]models.CalendarEntry) (int64, error)
}

// KeyValueStore persists JSON documents under plain string keys. Put only
// succeeds when expectedRevision matches the stored revision (0 for a key
// that does not exist yet) and returns the new revision.
type KeyValueStore interface {
	Get(ctx context.Context, userID uint, key string) (string, int64, bool, error)
	Put(ctx context.Context, userID uint, key string, value string, expectedRevision int64) (int64, error)
}

func loadJSONValue(ctx context.Context, store KeyValueStore, userID uint, key string, target any) (int64, bool, error) {
	raw, revision, found, err := store.Get(ctx, userID, key)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return revision, false, nil
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return revision, false, fmt.Errorf("%w: decode %s: %v", errMalformedValue, key, err)
	}
	return revision, true, nil
}

func storeJSONValue(ctx context.Context, store KeyValueStore, userID uint, key string, value any, expectedRevision int64) (int64, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", key, err)
	}
	return store.Put(ctx, userID, key, string(encoded), expectedRevision)
}

func jsonUnmarshalString(raw string, target any) error {
	return json.Unmarshal([]byte(raw), target)
}
