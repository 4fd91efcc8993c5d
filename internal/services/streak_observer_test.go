package services

import (
	"context"
	"errors"
	"testing"

	"github.com/terraincognita07/gymcal/internal/models"
)

type countingNotifier struct {
	counts []int
	err    error
}

func (notifier *countingNotifier) NotifyWeeklyStreak(_ context.Context, count int) error {
	notifier.counts = append(notifier.counts, count)
	return notifier.err
}

func TestCompletedWeekStreak(t *testing.T) {
	wednesday := mustParseDay(t, "2024-01-03")
	tests := []struct {
		name      string
		calendar  models.CalendarMap
		wantCount int
		wantOK    bool
	}{
		{
			name: "all done, rest ignored",
			calendar: models.CalendarMap{
				"2023-12-31": {scheduled("Rest")},
				"2024-01-01": {withStatus("Push", models.EntryStatusCompleted)},
				"2024-01-03": {withStatus("Pull", models.EntryStatusCompleted), withStatus("Run", models.EntryStatusCompleted)},
				"2024-01-04": {scheduled("Legs")},
			},
			wantCount: 3,
			wantOK:    true,
		},
		{
			name: "one missed",
			calendar: models.CalendarMap{
				"2024-01-01": {withStatus("Push", models.EntryStatusCompleted)},
				"2024-01-02": {withStatus("Pull", models.EntryStatusMissed)},
			},
		},
		{
			name:     "today still scheduled",
			calendar: models.CalendarMap{"2024-01-03": {scheduled("Push")}},
		},
		{
			name: "previous week does not count",
			calendar: models.CalendarMap{
				"2023-12-30": {withStatus("Push", models.EntryStatusCompleted)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, ok := CompletedWeekStreak(tt.calendar, wednesday)
			if ok != tt.wantOK || count != tt.wantCount {
				t.Fatalf("CompletedWeekStreak() = (%d, %v), want (%d, %v)", count, ok, tt.wantCount, tt.wantOK)
			}
		})
	}
}

func TestWeeklyStreakObserverNotifiesOncePerWeek(t *testing.T) {
	notifier := &countingNotifier{}
	observer := NewWeeklyStreakObserver(notifier)
	ctx := context.Background()
	calendar := models.CalendarMap{"2024-01-01": {withStatus("Push", models.EntryStatusCompleted)}}

	observer.CalendarCommitted(ctx, 1, calendar, mustParseDay(t, "2024-01-01"))
	observer.CalendarCommitted(ctx, 1, calendar, mustParseDay(t, "2024-01-02"))
	observer.CalendarCommitted(ctx, 2, calendar, mustParseDay(t, "2024-01-02"))
	if len(notifier.counts) != 2 {
		t.Fatalf("expected one notification per user and week, got %v", notifier.counts)
	}

	nextWeek := models.CalendarMap{"2024-01-08": {withStatus("Pull", models.EntryStatusCompleted)}}
	observer.CalendarCommitted(ctx, 1, nextWeek, mustParseDay(t, "2024-01-08"))
	if len(notifier.counts) != 3 {
		t.Fatalf("expected a new notification in the next week, got %v", notifier.counts)
	}
}

func TestWeeklyStreakObserverSwallowsNotifierErrors(t *testing.T) {
	notifier := &countingNotifier{err: errors.New("telegram down")}
	observer := NewWeeklyStreakObserver(notifier)
	calendar := models.CalendarMap{"2024-01-01": {withStatus("Push", models.EntryStatusCompleted)}}

	observer.CalendarCommitted(context.Background(), 1, calendar, mustParseDay(t, "2024-01-01"))
	if len(notifier.counts) != 1 {
		t.Fatalf("expected one attempt, got %d", len(notifier.counts))
	}
}
