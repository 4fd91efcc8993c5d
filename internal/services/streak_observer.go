package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/gymcal/internal/metrics"
	"github.com/terraincognita07/gymcal/internal/models"
)

type WeeklyStreakNotifier interface {
	NotifyWeeklyStreak(ctx context.Context, count int) error
}

// WeeklyStreakObserver notifies once per user and week when every workout
// from the start of the week through today has been completed.
type WeeklyStreakObserver struct {
	notifier WeeklyStreakNotifier
	mu       sync.Mutex
	notified map[string]time.Time
}

func NewWeeklyStreakObserver(notifier WeeklyStreakNotifier) *WeeklyStreakObserver {
	return &WeeklyStreakObserver{
		notifier: notifier,
		notified: make(map[string]time.Time),
	}
}

// CompletedWeekStreak counts the completed workouts between the week start
// and today. ok is false when the week has no workouts yet or any of them
// is not completed. Rest entries are ignored.
func CompletedWeekStreak(calendar models.CalendarMap, today time.Time) (int, bool) {
	weekStart := WeekStart(today)
	count := 0
	for day := weekStart; !day.After(dateOnly(today)); day = day.AddDate(0, 0, 1) {
		for _, entry := range calendar[FormatDate(day)] {
			if models.IsRestName(entry.Name) {
				continue
			}
			if models.NormalizeEntryStatus(entry.Status) != models.EntryStatusCompleted {
				return 0, false
			}
			count++
		}
	}
	return count, count > 0
}

func (observer *WeeklyStreakObserver) CalendarCommitted(ctx context.Context, userID uint, calendar models.CalendarMap, today time.Time) {
	if observer.notifier == nil {
		return
	}
	count, ok := CompletedWeekStreak(calendar, today)
	if !ok {
		return
	}

	key := fmt.Sprintf("streak:%d:%s", userID, FormatDate(WeekStart(today)))
	if !observer.shouldSend(key, today) {
		return
	}

	if err := observer.notifier.NotifyWeeklyStreak(ctx, count); err != nil {
		metrics.StreakNotifications.WithLabelValues("failed").Inc()
		logrus.Warnf("notifications: weekly streak for user %d failed: %v", userID, err)
		return
	}
	metrics.StreakNotifications.WithLabelValues("sent").Inc()
}

func (observer *WeeklyStreakObserver) shouldSend(key string, today time.Time) bool {
	observer.mu.Lock()
	defer observer.mu.Unlock()

	if _, ok := observer.notified[key]; ok {
		return false
	}

	observer.notified[key] = today
	if len(observer.notified) > 500 {
		observer.notified = map[string]time.Time{key: today}
	}
	return true
}
