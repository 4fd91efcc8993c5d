package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/gymcal/internal/metrics"
	"github.com/terraincognita07/gymcal/internal/models"
)

const (
	DefaultHorizonDays = 60
	MaxHorizonDays     = 366

	OpAddEntry       = "add entry"
	OpRemoveEntry    = "remove entry"
	OpToggleEntry    = "toggle entry"
	OpCompleteEntry  = "complete entry"
	OpImportCalendar = "import calendar"
)

// CalendarObserver runs after a calendar mutation has been committed. It
// must not write to the calendar.
type CalendarObserver interface {
	CalendarCommitted(ctx context.Context, userID uint, calendar models.CalendarMap, today time.Time)
}

type CalendarView struct {
	Today          string                 `json:"today"`
	Revision       int64                  `json:"revision"`
	Days           models.CalendarMap     `json:"days"`
	Markings       map[string]DateMarking `json:"markings"`
	Legend         []LegendItem           `json:"legend"`
	MalformedDates []string               `json:"malformedDates,omitempty"`
}

type DayDetail struct {
	Date        string                 `json:"date"`
	Entries     []models.CalendarEntry `json:"entries"`
	HistoryLink string                 `json:"historyLink,omitempty"`
}

type CalendarService struct {
	calendars   CalendarStore
	store       KeyValueStore
	routines    *RoutineService
	observers   []CalendarObserver
	location    *time.Location
	horizonDays int
	now         Clock
}

func NewCalendarService(calendars CalendarStore, store KeyValueStore, routines *RoutineService, location *time.Location, horizonDays int) *CalendarService {
	if location == nil {
		location = time.Local
	}
	if horizonDays <= 0 || horizonDays > MaxHorizonDays {
		horizonDays = DefaultHorizonDays
	}
	return &CalendarService{
		calendars:   calendars,
		store:       store,
		routines:    routines,
		location:    location,
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

func (service *CalendarService) WithClock(now Clock) *CalendarService {
	service.now = now
	return service
}

func (service *CalendarService) AddObserver(observer CalendarObserver) {
	service.observers = append(service.observers, observer)
}

func (service *CalendarService) HorizonDays() int {
	return service.horizonDays
}

// Today is recomputed on every call so a long-lived process never works
// with yesterday's date.
func (service *CalendarService) Today() time.Time {
	return DateAtLocation(service.now(), service.location)
}

func (service *CalendarService) Calendar(ctx context.Context, userID uint) (CalendarView, error) {
	today := service.Today()
	snapshot, err := service.calendars.LoadCalendar(ctx, userID)
	if err != nil {
		metrics.PersistenceFailures.WithLabelValues(OpLoadCalendar).Inc()
		return CalendarView{}, persistenceError(OpLoadCalendar, err)
	}
	return service.view(ctx, userID, snapshot, today)
}

func (service *CalendarService) DayDetail(ctx context.Context, userID uint, date string) (DayDetail, error) {
	key, ok := NormalizeDateKey(date)
	if !ok {
		return DayDetail{}, ErrInvalidDate
	}
	snapshot, err := service.calendars.LoadCalendar(ctx, userID)
	if err != nil {
		metrics.PersistenceFailures.WithLabelValues(OpLoadCalendar).Inc()
		return DayDetail{}, persistenceError(OpLoadCalendar, err)
	}

	entries := snapshot.Days[key]
	if entries == nil {
		entries = []models.CalendarEntry{}
	}
	return DayDetail{
		Date:        key,
		Entries:     entries,
		HistoryLink: HistoryLinkForDay(entries),
	}, nil
}

// HistoryLinkForDay returns the workout history deep link shown instead of
// the day editor when every entry on the day is completed and one of them
// references a logged session.
func HistoryLinkForDay(entries []models.CalendarEntry) string {
	if len(entries) == 0 {
		return ""
	}
	logID := ""
	for _, entry := range entries {
		if models.NormalizeEntryStatus(entry.Status) != models.EntryStatusCompleted {
			return ""
		}
		if logID == "" && strings.TrimSpace(entry.WorkoutLogID) != "" {
			logID = strings.TrimSpace(entry.WorkoutLogID)
		}
	}
	if logID == "" {
		return ""
	}
	return "/history/" + logID
}

func (service *CalendarService) ApplyRoutine(ctx context.Context, userID uint, routineID string) (CalendarView, error) {
	routine, err := service.routines.FindRoutine(ctx, userID, routineID)
	if err != nil {
		return CalendarView{}, err
	}
	return service.activate(ctx, userID, OpApplyRoutine, routine, ApplyRoutine)
}

// ApplyActiveRoutine tops the horizon up with the active routine. Users
// without an active routine get their calendar unchanged.
func (service *CalendarService) ApplyActiveRoutine(ctx context.Context, userID uint) (CalendarView, error) {
	routine, err := service.routines.ActiveRoutine(ctx, userID)
	if errors.Is(err, ErrNoActiveRoutine) || errors.Is(err, ErrRoutineNotFound) {
		return service.Calendar(ctx, userID)
	}
	if err != nil {
		return CalendarView{}, err
	}
	return service.mutate(ctx, userID, OpApplyRoutine, func(calendar models.CalendarMap, today time.Time) (models.CalendarMap, error) {
		return ApplyRoutine(calendar, routine, today, service.horizonDays), nil
	})
}

func (service *CalendarService) SwitchRoutine(ctx context.Context, userID uint, routineID string) (CalendarView, error) {
	routine, err := service.routines.FindRoutine(ctx, userID, routineID)
	if err != nil {
		return CalendarView{}, err
	}
	return service.activate(ctx, userID, OpSwitchRoutine, routine, SwitchRoutine)
}

// activate makes routine the active one and writes its expansion. The
// pointer is written first and put back when the calendar write fails, so
// the two never disagree.
func (service *CalendarService) activate(ctx context.Context, userID uint, op string, routine models.Routine, plan func(models.CalendarMap, models.Routine, time.Time, int) models.CalendarMap) (CalendarView, error) {
	restore, err := service.routines.swapActiveRoutine(ctx, userID, routine.ID)
	if err != nil {
		metrics.PersistenceFailures.WithLabelValues(op).Inc()
		return CalendarView{}, persistenceError(op, err)
	}

	snapshot, today, err := service.commit(ctx, userID, op, func(calendar models.CalendarMap, today time.Time) (models.CalendarMap, error) {
		return plan(calendar, routine, today, service.horizonDays), nil
	})
	if err != nil {
		if restoreErr := restore(ctx); restoreErr != nil {
			logrus.Errorf("calendar: %s for user %d failed and the active routine was not restored: %v", op, userID, restoreErr)
		}
		return CalendarView{}, err
	}
	return service.view(ctx, userID, snapshot, today)
}

func (service *CalendarService) AddEntry(ctx context.Context, userID uint, date string, name string) (CalendarView, error) {
	return service.mutate(ctx, userID, OpAddEntry, func(calendar models.CalendarMap, _ time.Time) (models.CalendarMap, error) {
		return AddCalendarEntry(calendar, date, name)
	})
}

func (service *CalendarService) RemoveEntry(ctx context.Context, userID uint, date string, index int) (CalendarView, error) {
	return service.mutate(ctx, userID, OpRemoveEntry, func(calendar models.CalendarMap, _ time.Time) (models.CalendarMap, error) {
		return RemoveCalendarEntry(calendar, date, index)
	})
}

func (service *CalendarService) ToggleEntry(ctx context.Context, userID uint, date string, index int) (CalendarView, error) {
	return service.mutate(ctx, userID, OpToggleEntry, func(calendar models.CalendarMap, _ time.Time) (models.CalendarMap, error) {
		return ToggleCalendarEntry(calendar, date, index)
	})
}

// CompleteEntry handles the external "workout completed" event. An empty
// workoutLogID gets a generated one so the day can deep-link to history.
func (service *CalendarService) CompleteEntry(ctx context.Context, userID uint, date string, index int, workoutLogID string) (CalendarView, error) {
	logID := strings.TrimSpace(workoutLogID)
	if logID == "" {
		logID = uuid.NewString()
	}
	return service.mutate(ctx, userID, OpCompleteEntry, func(calendar models.CalendarMap, _ time.Time) (models.CalendarMap, error) {
		return CompleteCalendarEntry(calendar, date, index, logID)
	})
}

// ImportCalendar fills dates that are empty locally with imported entries.
// Dates the user already has content on keep it.
func (service *CalendarService) ImportCalendar(ctx context.Context, userID uint, imported models.CalendarMap) (int, error) {
	added := 0
	_, err := service.mutate(ctx, userID, OpImportCalendar, func(calendar models.CalendarMap, _ time.Time) (models.CalendarMap, error) {
		updated := calendar.Clone()
		for date, entries := range imported {
			if len(entries) == 0 || updated.Occupied(date) {
				continue
			}
			normalized := make([]models.CalendarEntry, 0, len(entries))
			for _, entry := range entries {
				entry = entry.Normalize()
				if entry.Name == "" {
					continue
				}
				normalized = append(normalized, entry)
			}
			if len(normalized) == 0 {
				continue
			}
			updated[date] = normalized
			added++
		}
		return updated, nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func (service *CalendarService) mutate(ctx context.Context, userID uint, op string, change func(models.CalendarMap, time.Time) (models.CalendarMap, error)) (CalendarView, error) {
	snapshot, today, err := service.commit(ctx, userID, op, change)
	if err != nil {
		return CalendarView{}, err
	}
	return service.view(ctx, userID, snapshot, today)
}

// commit loads the calendar, applies change and writes the changed dates.
// Observers run only when something was written.
func (service *CalendarService) commit(ctx context.Context, userID uint, op string, change func(models.CalendarMap, time.Time) (models.CalendarMap, error)) (models.CalendarSnapshot, time.Time, error) {
	today := service.Today()
	snapshot, err := service.calendars.LoadCalendar(ctx, userID)
	if err != nil {
		metrics.PersistenceFailures.WithLabelValues(op).Inc()
		return models.CalendarSnapshot{}, today, persistenceError(op, err)
	}

	updated, err := change(snapshot.Days, today)
	if err != nil {
		return models.CalendarSnapshot{}, today, err
	}

	delta := DiffCalendars(snapshot.Days, updated)
	snapshot.Days = updated
	if len(delta) == 0 {
		return snapshot, today, nil
	}

	revision, err := service.calendars.ApplyCalendarDelta(ctx, userID, snapshot.Revision, delta)
	if err != nil {
		metrics.PersistenceFailures.WithLabelValues(op).Inc()
		if errors.Is(err, models.ErrStaleRevision) {
			metrics.RevisionConflicts.Inc()
		}
		logrus.Warnf("calendar: %s for user %d not committed: %v", op, userID, err)
		return models.CalendarSnapshot{}, today, persistenceError(op, err)
	}
	snapshot.Revision = revision
	metrics.CalendarMutations.WithLabelValues(op).Inc()
	metrics.ChangedDays.Observe(float64(len(delta)))
	logrus.Debugf("calendar: %s for user %d wrote %d day(s), revision %d", op, userID, len(delta), revision)

	for _, observer := range service.observers {
		observer.CalendarCommitted(ctx, userID, updated, today)
	}
	return snapshot, today, nil
}

func (service *CalendarService) view(ctx context.Context, userID uint, snapshot models.CalendarSnapshot, today time.Time) (CalendarView, error) {
	legend := models.LegendMap{}
	revision, _, err := loadJSONValue(ctx, service.store, userID, models.StoreKeyLegend, &legend)
	if errors.Is(err, errMalformedValue) {
		logrus.Errorf("calendar: legend for user %d is malformed, reassigning colors: %v", userID, err)
		legend = models.LegendMap{}
	} else if err != nil {
		metrics.PersistenceFailures.WithLabelValues(OpLoadLegend).Inc()
		return CalendarView{}, persistenceError(OpLoadLegend, err)
	}

	todayKey := FormatDate(today)
	markings, grown := DeriveCalendarMarkings(snapshot.Days, legend, todayKey)
	if len(grown) != len(legend) {
		if _, err := storeJSONValue(ctx, service.store, userID, models.StoreKeyLegend, grown, revision); err != nil {
			if !errors.Is(err, models.ErrStaleRevision) {
				metrics.PersistenceFailures.WithLabelValues(OpSaveLegend).Inc()
				return CalendarView{}, persistenceError(OpSaveLegend, err)
			}
			logrus.Warnf("calendar: legend for user %d changed concurrently, new colors not saved", userID)
		}
	}

	days := snapshot.Days
	if days == nil {
		days = models.CalendarMap{}
	}
	return CalendarView{
		Today:          todayKey,
		Revision:       snapshot.Revision,
		Days:           days,
		Markings:       markings,
		Legend:         LegendItems(grown),
		MalformedDates: snapshot.MalformedDates,
	}, nil
}
