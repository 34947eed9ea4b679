package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/claude/mapty/internal/observability"
	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/workout"
)

// User-visible alert texts.
const (
	AlertInvalidInput = "Inputs have to be positive numbers"
	AlertNoLocation   = "could not get your location"
	AlertUnknownType  = "Workout type has to be running or cycling"
	AlertSaveFailed   = "could not save your workouts"
)

var (
	ErrInvalidInput      = errors.New("inputs have to be positive numbers")
	ErrNoPendingLocation = errors.New("no map location selected")
	ErrMapNotReady       = errors.New("map is not ready")
)

// State is the controller's lifecycle state.
type State int

const (
	Uninitialized State = iota
	MapReady
	FormOpen
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case MapReady:
		return "map_ready"
	case FormOpen:
		return "form_open"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// View is the map, form and list surface driven by the controller.
type View interface {
	RenderMap(center workout.Coords, zoom int)
	RenderMarker(w workout.Workout)
	RenderEntry(w workout.Workout)
	ShowForm()
	HideForm()
	ShowExtraField(t workout.Type)
	Pan(center workout.Coords, zoom int)
	Alert(msg string)
	Reload()
}

// Form holds raw form input values as typed by the user.
type Form struct {
	Type          string `json:"type"`
	Distance      string `json:"distance"`
	Duration      string `json:"duration"`
	Cadence       string `json:"cadence"`
	ElevationGain string `json:"elevationGain"`
}

// Options configure a Controller. Zero values select defaults.
type Options struct {
	Key     string
	Zoom    int
	Factory *workout.Factory
	Log     *slog.Logger
}

// Controller owns the workout list and mediates create, render, persist
// and restore. Handlers are serialised and run to completion.
type Controller struct {
	mu      sync.Mutex
	store   storage.Store
	view    View
	log     *slog.Logger
	key     string
	zoom    int
	factory func(workout.Type, workout.Coords, float64, float64, float64) (workout.Workout, error)

	state    State
	pending  workout.Coords
	formType workout.Type
	workouts []workout.Workout
}

// New creates a controller in the Uninitialized state.
func New(store storage.Store, view View, opts Options) *Controller {
	c := &Controller{
		store:    store,
		view:     view,
		log:      opts.Log,
		key:      opts.Key,
		zoom:     opts.Zoom,
		factory:  workout.New,
		formType: workout.Running,
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.key == "" {
		c.key = "workouts"
	}
	if c.zoom == 0 {
		c.zoom = 13
	}
	if opts.Factory != nil {
		c.factory = opts.Factory.New
	}
	return c
}

// Load restores the persisted list and renders an entry for each workout.
// A missing, unreadable or malformed document restores an empty list.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.workouts = c.readStored(ctx)
	for _, w := range c.workouts {
		c.view.RenderEntry(w)
	}
	observability.RecordRestored(len(c.workouts))
	c.log.Info("workouts restored", "count", len(c.workouts))
}

func (c *Controller) readStored(ctx context.Context) []workout.Workout {
	data, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.log.Warn("reading stored workouts", "key", c.key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	ws, err := workout.Unmarshal(data)
	if err != nil {
		c.log.Warn("discarding malformed workout document", "key", c.key, "error", err)
		return nil
	}
	return ws
}

// PositionResolved shows the map at the user's position with a marker per workout.
func (c *Controller) PositionResolved(coords workout.Coords) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == FormOpen {
		c.view.HideForm()
		c.pending = workout.Coords{}
	}
	c.view.RenderMap(coords, c.zoom)
	for _, w := range c.workouts {
		c.view.RenderMarker(w)
	}
	c.state = MapReady
	c.log.Info("map ready", "lat", coords.Lat(), "lng", coords.Lng(), "markers", len(c.workouts))
}

// PositionFailed reports that geolocation is unavailable. The map stays unrendered.
func (c *Controller) PositionFailed(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Warn("geolocation failed", "reason", reason)
	c.view.Alert(AlertNoLocation)
}

// MapClick records coords as the pending location and opens the form.
func (c *Controller) MapClick(coords workout.Coords) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Uninitialized {
		return ErrMapNotReady
	}
	c.pending = coords
	c.state = FormOpen
	c.view.ShowForm()
	return nil
}

// ChangeType toggles which extra input the form shows. The form exists only
// once the map is ready.
func (c *Controller) ChangeType(raw string) error {
	t, err := workout.ParseType(raw)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Uninitialized {
		return ErrMapNotReady
	}
	c.formType = t
	c.view.ShowExtraField(t)
	return nil
}

// Submit validates the form and records a workout at the pending location.
// Invalid input alerts the user and leaves the form open.
func (c *Controller) Submit(ctx context.Context, f Form) (workout.Workout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != FormOpen {
		return nil, ErrNoPendingLocation
	}

	t := c.formType
	if f.Type != "" {
		parsed, err := workout.ParseType(f.Type)
		if err != nil {
			observability.RecordSubmissionRejected("unknown_type")
			c.view.Alert(AlertUnknownType)
			return nil, err
		}
		t = parsed
	}

	distance := parseNumber(f.Distance)
	duration := parseNumber(f.Duration)
	var extra float64
	switch t {
	case workout.Running:
		extra = parseNumber(f.Cadence)
		if !allFinite(distance, duration, extra) || !allPositive(distance, duration, extra) {
			return nil, c.reject(t)
		}
	case workout.Cycling:
		extra = parseNumber(f.ElevationGain)
		if !allFinite(distance, duration, extra) || !allPositive(distance, duration) {
			return nil, c.reject(t)
		}
	}

	w, err := c.factory(t, c.pending, distance, duration, extra)
	if err != nil {
		return nil, fmt.Errorf("creating workout: %w", err)
	}
	// Extreme inputs can overflow pace or speed, which the document cannot hold.
	if !allFinite(w.Metric()) {
		return nil, c.reject(t)
	}

	c.workouts = append(c.workouts, w)
	c.view.RenderMarker(w)
	c.view.RenderEntry(w)
	c.view.HideForm()
	c.state = MapReady
	observability.RecordWorkoutCreated(string(t))
	c.log.Info("workout created", "id", w.Common().ID, "type", t, "description", w.Common().Description)

	if err := c.persist(ctx); err != nil {
		c.view.Alert(AlertSaveFailed)
		return w, err
	}
	return w, nil
}

func (c *Controller) reject(t workout.Type) error {
	observability.RecordSubmissionRejected("invalid_input")
	c.view.Alert(AlertInvalidInput)
	return fmt.Errorf("%s workout: %w", t, ErrInvalidInput)
}

func (c *Controller) persist(ctx context.Context) error {
	data, err := workout.Marshal(c.workouts)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		c.log.Error("persisting workouts", "key", c.key, "error", err)
		return fmt.Errorf("persisting workouts: %w", err)
	}
	observability.RecordPersisted(time.Now())
	return nil
}

// SelectEntry re-centres the map on the workout with the given id. It reports
// whether the map moved; an empty or unknown id is a no-op.
func (c *Controller) SelectEntry(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == "" || c.state == Uninitialized {
		return false
	}
	w, ok := c.find(id)
	if !ok {
		return false
	}
	c.view.Pan(w.Common().Coords, c.zoom)
	return true
}

// Reset deletes the persisted list and reloads the application.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("resetting workouts: %w", err)
	}
	c.workouts = nil
	c.pending = workout.Coords{}
	c.formType = workout.Running
	c.state = Uninitialized
	c.view.Reload()
	c.log.Info("workouts reset")
	return nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending returns the location awaiting a form submit.
func (c *Controller) Pending() (workout.Coords, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.state == FormOpen
}

// Workouts returns the workouts in creation order.
func (c *Controller) Workouts() []workout.Workout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]workout.Workout(nil), c.workouts...)
}

// Workout looks up a workout by id.
func (c *Controller) Workout(id string) (workout.Workout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.find(id)
}

func (c *Controller) find(id string) (workout.Workout, bool) {
	for _, w := range c.workouts {
		if w.Common().ID == id {
			return w, true
		}
	}
	return nil, false
}

// parseNumber coerces form text the way the browser's unary plus does:
// blank is zero, decimal and 0x/0o/0b integer literals are numbers, the only
// infinity spelling is "Infinity" and everything else is NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return parseInteger(s[2:], 16)
		case 'o', 'O':
			return parseInteger(s[2:], 8)
		case 'b', 'B':
			return parseInteger(s[2:], 2)
		}
	}
	// ParseFloat also takes inf, nan, hex floats and underscores.
	if strings.IndexFunc(s, func(r rune) bool { return !strings.ContainsRune("0123456789.eE+-", r) }) >= 0 {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

func parseInteger(digits string, base int) float64 {
	if strings.ContainsAny(digits, "+-_") {
		return math.NaN()
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return math.NaN()
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

func allFinite(nums ...float64) bool {
	for _, n := range nums {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return false
		}
	}
	return true
}

func allPositive(nums ...float64) bool {
	for _, n := range nums {
		if !(n > 0) {
			return false
		}
	}
	return true
}
