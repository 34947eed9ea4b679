package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordWorkoutCreated(t *testing.T) {
	before := testutil.ToFloat64(workoutsCreated.WithLabelValues("running"))
	RecordWorkoutCreated("running")
	if got := testutil.ToFloat64(workoutsCreated.WithLabelValues("running")); got != before+1 {
		t.Errorf("running counter = %v, want %v", got, before+1)
	}
}

func TestRecordPersistedIgnoresZero(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	RecordPersisted(ts)
	RecordPersisted(time.Time{})
	if got := testutil.ToFloat64(lastPersistGauge); got != 1700000000 {
		t.Errorf("gauge = %v, want 1700000000", got)
	}
}

func TestRecordRestored(t *testing.T) {
	RecordRestored(4)
	if got := testutil.ToFloat64(workoutsRestored); got != 4 {
		t.Errorf("restored = %v, want 4", got)
	}
}
