package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/gymcal/internal/models"
)

var ErrImportDocumentMalformed = errors.New("import document malformed")

// StoreDocument mirrors the key-value layout the mobile app persists, one
// field per store key.
type StoreDocument struct {
	AllCalendarWorkouts models.CalendarMap `json:"allCalendarWorkouts"`
	SavedRoutines       []models.Routine   `json:"savedRoutines"`
	Workouts            []models.Workout   `json:"workouts"`
}

type rawStoreDocument struct {
	AllCalendarWorkouts json.RawMessage `json:"allCalendarWorkouts"`
	SavedRoutines       json.RawMessage `json:"savedRoutines"`
	Workouts            json.RawMessage `json:"workouts"`
}

type ImportSummary struct {
	CalendarDays     int      `json:"calendarDays"`
	SkippedDates     []string `json:"skippedDates,omitempty"`
	Routines         int      `json:"routines"`
	Workouts         int      `json:"workouts"`
	MalformedSection []string `json:"malformedSections,omitempty"`
}

type ExportService struct {
	calendars CalendarStore
	routines  *RoutineService
	workouts  *WorkoutService
}

func NewExportService(calendars CalendarStore, routines *RoutineService, workouts *WorkoutService) *ExportService {
	return &ExportService{calendars: calendars, routines: routines, workouts: workouts}
}

func (service *ExportService) Export(ctx context.Context, userID uint) (StoreDocument, error) {
	snapshot, err := service.calendars.LoadCalendar(ctx, userID)
	if err != nil {
		return StoreDocument{}, persistenceError(OpLoadCalendar, err)
	}
	routines, err := service.routines.ListRoutines(ctx, userID)
	if err != nil {
		return StoreDocument{}, err
	}
	workouts, err := service.workouts.ListWorkouts(ctx, userID)
	if err != nil {
		return StoreDocument{}, err
	}

	calendar := snapshot.Days
	if calendar == nil {
		calendar = models.CalendarMap{}
	}
	return StoreDocument{
		AllCalendarWorkouts: calendar,
		SavedRoutines:       routines,
		Workouts:            workouts,
	}, nil
}

type ImportService struct {
	calendar *CalendarService
	routines *RoutineService
	workouts *WorkoutService
}

func NewImportService(calendar *CalendarService, routines *RoutineService, workouts *WorkoutService) *ImportService {
	return &ImportService{calendar: calendar, routines: routines, workouts: workouts}
}

// Import loads a key-value store dump. Each section is decoded on its own:
// a malformed section is logged and treated as empty so the others still
// import. Dates in the legacy DD/MM/YYYY form are normalised.
func (service *ImportService) Import(ctx context.Context, userID uint, raw []byte) (ImportSummary, error) {
	var document rawStoreDocument
	if err := json.Unmarshal(raw, &document); err != nil {
		return ImportSummary{}, fmt.Errorf("%w: %v", ErrImportDocumentMalformed, err)
	}

	summary := ImportSummary{}

	calendar, skipped, err := decodeImportedCalendar(document.AllCalendarWorkouts)
	if err != nil {
		logrus.Errorf("import: %s section for user %d is malformed, treating as empty: %v", models.StoreKeyCalendar, userID, err)
		summary.MalformedSection = append(summary.MalformedSection, models.StoreKeyCalendar)
	}
	summary.SkippedDates = skipped

	routineDocuments := make([]json.RawMessage, 0)
	if !isJSONNull(document.SavedRoutines) {
		if err := json.Unmarshal(document.SavedRoutines, &routineDocuments); err != nil {
			logrus.Errorf("import: %s section for user %d is malformed, treating as empty: %v", models.StoreKeySavedRoutines, userID, err)
			summary.MalformedSection = append(summary.MalformedSection, models.StoreKeySavedRoutines)
			routineDocuments = nil
		}
	}

	workouts := make([]models.Workout, 0)
	if !isJSONNull(document.Workouts) {
		if err := json.Unmarshal(document.Workouts, &workouts); err != nil {
			logrus.Errorf("import: %s section for user %d is malformed, treating as empty: %v", models.StoreKeyWorkouts, userID, err)
			summary.MalformedSection = append(summary.MalformedSection, models.StoreKeyWorkouts)
			workouts = nil
		}
	}

	if len(calendar) > 0 {
		added, err := service.calendar.ImportCalendar(ctx, userID, calendar)
		if err != nil {
			return summary, err
		}
		summary.CalendarDays = added
	}
	if len(routineDocuments) > 0 {
		added, err := service.routines.ImportRoutineDocuments(ctx, userID, routineDocuments)
		if err != nil {
			return summary, err
		}
		summary.Routines = added
	}
	if len(workouts) > 0 {
		added, err := service.workouts.ImportWorkouts(ctx, userID, workouts)
		if err != nil {
			return summary, err
		}
		summary.Workouts = added
	}

	return summary, nil
}

func decodeImportedCalendar(raw json.RawMessage) (models.CalendarMap, []string, error) {
	if isJSONNull(raw) {
		return models.CalendarMap{}, nil, nil
	}
	byRawDate := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &byRawDate); err != nil {
		return models.CalendarMap{}, nil, err
	}

	rawDates := make([]string, 0, len(byRawDate))
	for rawDate := range byRawDate {
		rawDates = append(rawDates, rawDate)
	}
	sort.Strings(rawDates)

	calendar := make(models.CalendarMap, len(byRawDate))
	skipped := make([]string, 0)
	for _, rawDate := range rawDates {
		rawEntries := byRawDate[rawDate]
		key, ok := NormalizeDateKey(rawDate)
		if !ok {
			logrus.Warnf("import: skip unparseable calendar date %q", rawDate)
			skipped = append(skipped, rawDate)
			continue
		}
		entries := make([]models.CalendarEntry, 0)
		if err := json.Unmarshal(rawEntries, &entries); err != nil {
			logrus.Warnf("import: skip malformed entries on %s: %v", key, err)
			skipped = append(skipped, rawDate)
			continue
		}
		calendar[key] = append(calendar[key], entries...)
	}
	return calendar, skipped, nil
}
