package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "session",
		Name:      "workouts_created_total",
		Help:      "Workouts recorded through the form, by type.",
	}, []string{"type"})
	submissionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "session",
		Name:      "submissions_rejected_total",
		Help:      "Form submissions rejected by validation, by reason.",
	}, []string{"reason"})
	workoutsRestored = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "storage",
		Name:      "workouts_restored",
		Help:      "Number of workouts restored from storage at the last load.",
	})
	lastPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "storage",
		Name:      "last_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful write of the workout list.",
	})
)

func init() {
	prometheus.MustRegister(workoutsCreated, submissionsRejected, workoutsRestored, lastPersistGauge)
}

// RecordWorkoutCreated counts a newly created workout.
func RecordWorkoutCreated(workoutType string) {
	workoutsCreated.WithLabelValues(workoutType).Inc()
}

// RecordSubmissionRejected counts a rejected form submission.
func RecordSubmissionRejected(reason string) {
	submissionsRejected.WithLabelValues(reason).Inc()
}

// RecordRestored sets the restored workout count.
func RecordRestored(n int) {
	workoutsRestored.Set(float64(n))
}

// RecordPersisted updates the persistence watermark gauge.
func RecordPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastPersistGauge.Set(float64(ts.Unix()))
}
