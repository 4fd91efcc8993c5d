package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CalendarMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymcal",
		Name:      "calendar_mutations_total",
		Help:      "Committed calendar mutations by operation.",
	}, []string{"op"})

	PersistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymcal",
		Name:      "persistence_failures_total",
		Help:      "Store reads or writes that failed, by operation.",
	}, []string{"op"})

	RevisionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gymcal",
		Name:      "revision_conflicts_total",
		Help:      "Writes rejected because the stored revision moved on.",
	})

	ChangedDays = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gymcal",
		Name:      "calendar_changed_days",
		Help:      "Number of dates written per committed calendar mutation.",
		Buckets:   []float64{1, 2, 5, 10, 30, 60, 120},
	})

	StreakNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymcal",
		Name:      "streak_notifications_total",
		Help:      "Weekly streak notifications by result.",
	}, []string{"result"})
)
