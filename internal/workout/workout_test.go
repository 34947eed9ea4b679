package workout

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedFactory(now time.Time, r float64) Factory {
	return Factory{Now: func() time.Time { return now }, Rand: func() float64 { return r }}
}

// TestRunningPace verifies pace = duration / distance and the description format.
func TestRunningPace(t *testing.T) {
	now := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
	w, err := fixedFactory(now, 0.5).New(Running, Coords{25, -12}, 7, 25, 127)
	require.NoError(t, err)

	run, ok := w.(*RunningWorkout)
	require.True(t, ok)
	require.InDelta(t, 3.5714, run.Pace, 1e-4)
	require.Equal(t, 25.0/7.0, run.Pace)
	require.Equal(t, 127.0, run.Cadence)
	require.Equal(t, "Running on March 05", run.Description)
	require.Equal(t, Coords{25, -12}, run.Coords)
	require.Equal(t, now, run.Date)
	require.Equal(t, "min/km", w.MetricUnit())
}

// TestCyclingSpeed verifies speed = distance / (duration / 60).
func TestCyclingSpeed(t *testing.T) {
	now := time.Date(2024, time.November, 21, 18, 30, 0, 0, time.UTC)
	w, err := fixedFactory(now, 0.25).New(Cycling, Coords{25, -45}, 27, 95, 500)
	require.NoError(t, err)

	cyc := w.(*CyclingWorkout)
	require.InDelta(t, 17.05, cyc.Speed, 0.01)
	require.Equal(t, 27/(95/60.0), cyc.Speed)
	require.Equal(t, 500.0, cyc.ElevationGain)
	require.Equal(t, "Cycling on November 21", cyc.Description)
	require.Equal(t, "km/h", w.MetricUnit())
}

// TestDerivedMetricsProperty checks the pace/speed formulas over a grid of positive inputs.
func TestDerivedMetricsProperty(t *testing.T) {
	for _, dist := range []float64{0.1, 1, 5.5, 42.195, 180} {
		for _, dur := range []float64{0.5, 12, 60, 95, 600} {
			r, err := New(Running, Coords{}, dist, dur, 170)
			require.NoError(t, err)
			require.InDelta(t, dur/dist, r.Metric(), 1e-9)

			c, err := New(Cycling, Coords{}, dist, dur, -20)
			require.NoError(t, err)
			require.InDelta(t, dist/(dur/60), c.Metric(), 1e-9)
		}
	}
}

// TestDescriptionPadding verifies the day of month is zero padded for every month.
func TestDescriptionPadding(t *testing.T) {
	re := regexp.MustCompile(`^(Running|Cycling) on (January|February|March|April|May|June|July|August|September|October|November|December) \d{2}$`)
	for m := time.January; m <= time.December; m++ {
		now := time.Date(2023, m, 1+int(m), 0, 0, 0, 0, time.UTC)
		w, err := fixedFactory(now, 0.1).New(Cycling, Coords{}, 1, 1, 0)
		require.NoError(t, err)
		require.Regexp(t, re, w.Common().Description)
	}
}

// TestNewID verifies ids are at most 10 digits and derived from the clock and random value.
func TestNewID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	require.Equal(t, "0000000061", newID(now, 0.5))
	require.Equal(t, "0", newID(now, 0))
	require.Len(t, newID(now, 0.999999), 10)
}

// TestUnknownType verifies that only running and cycling can be constructed.
func TestUnknownType(t *testing.T) {
	_, err := New(Type("swimming"), Coords{}, 1, 1, 1)
	require.True(t, errors.Is(err, ErrUnknownType))

	_, err = ParseType("walking")
	require.ErrorIs(t, err, ErrUnknownType)

	typ, err := ParseType(" Cycling ")
	require.NoError(t, err)
	require.Equal(t, Cycling, typ)
}

// TestTitle verifies type capitalisation used in descriptions.
func TestTitle(t *testing.T) {
	require.Equal(t, "Running", Running.Title())
	require.Equal(t, "Cycling", Cycling.Title())
	require.Equal(t, "", Type("").Title())
}

// TestIDsDistinct verifies ids differ for different random draws.
func TestIDsDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		w, err := New(Running, Coords{}, 1, 1, 1)
		require.NoError(t, err)
		seen[w.Common().ID] = true
	}
	require.Greater(t, len(seen), 40)
}
