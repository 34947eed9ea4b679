package workout

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Type is the workout discriminant.
type Type string

const (
	Running Type = "running"
	Cycling Type = "cycling"
)

// ErrUnknownType is returned for a type tag other than running or cycling.
var ErrUnknownType = errors.New("unknown workout type")

// ParseType validates a raw type tag.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Running, Cycling:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Title returns the type with its first letter upper-cased.
func (t Type) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// Coords is a [latitude, longitude] pair.
type Coords [2]float64

func (c Coords) Lat() float64 { return c[0] }
func (c Coords) Lng() float64 { return c[1] }

// Base holds the fields shared by every workout variant.
type Base struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Coords      Coords    `json:"coords"`
	Distance    float64   `json:"distance"` // km
	Duration    float64   `json:"duration"` // min
	Type        Type      `json:"type"`
	Description string    `json:"description"`
}

// Workout is either a *RunningWorkout or a *CyclingWorkout.
type Workout interface {
	Common() Base
	// Metric is pace (min/km) for running and speed (km/h) for cycling.
	Metric() float64
	MetricUnit() string
	// Extra is cadence for running and elevation gain for cycling.
	Extra() float64
	ExtraUnit() string
	sealed()
}

// RunningWorkout adds cadence (steps/min) and the derived pace.
type RunningWorkout struct {
	Base
	Cadence float64 `json:"cadence"`
	Pace    float64 `json:"pace"`
}

func (r *RunningWorkout) Common() Base       { return r.Base }
func (r *RunningWorkout) Metric() float64    { return r.Pace }
func (r *RunningWorkout) MetricUnit() string { return "min/km" }
func (r *RunningWorkout) Extra() float64     { return r.Cadence }
func (r *RunningWorkout) ExtraUnit() string  { return "spm" }
func (r *RunningWorkout) sealed()            {}

// CyclingWorkout adds elevation gain (m) and the derived speed.
type CyclingWorkout struct {
	Base
	ElevationGain float64 `json:"elevationGain"`
	Speed         float64 `json:"speed"`
}

func (c *CyclingWorkout) Common() Base       { return c.Base }
func (c *CyclingWorkout) Metric() float64    { return c.Speed }
func (c *CyclingWorkout) MetricUnit() string { return "km/h" }
func (c *CyclingWorkout) Extra() float64     { return c.ElevationGain }
func (c *CyclingWorkout) ExtraUnit() string  { return "m" }
func (c *CyclingWorkout) sealed()            {}

// Factory builds workouts from an injectable clock and random source.
type Factory struct {
	Now  func() time.Time
	Rand func() float64
}

var defaultFactory = Factory{Now: time.Now, Rand: rand.Float64}

// New builds a workout with the wall clock and a random id.
func New(t Type, coords Coords, distance, duration, extra float64) (Workout, error) {
	return defaultFactory.New(t, coords, distance, duration, extra)
}

// New builds a fully initialised workout. extra is cadence for running and
// elevation gain for cycling. Inputs are expected to be validated already.
func (f Factory) New(t Type, coords Coords, distance, duration, extra float64) (Workout, error) {
	now := f.Now()
	base := Base{
		ID:          newID(now, f.Rand()),
		Date:        now,
		Coords:      coords,
		Distance:    distance,
		Duration:    duration,
		Type:        t,
		Description: describe(t, now),
	}

	switch t {
	case Running:
		return &RunningWorkout{Base: base, Cadence: extra, Pace: duration / distance}, nil
	case Cycling:
		return &CyclingWorkout{Base: base, ElevationGain: extra, Speed: distance / (duration / 60)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// newID keeps the last 10 digits of floor(epochMillis * r).
func newID(now time.Time, r float64) string {
	id := strconv.FormatInt(int64(math.Floor(float64(now.UnixMilli())*r)), 10)
	if len(id) > 10 {
		id = id[len(id)-10:]
	}
	return id
}

func describe(t Type, now time.Time) string {
	return fmt.Sprintf("%s on %s %02d", t.Title(), now.Month(), now.Day())
}
