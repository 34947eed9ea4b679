// Package view keeps the render model the browser paints: map centre,
// markers, the workout list and the form. The session controller drives it;
// the HTTP layer serves snapshots of it.
package view

import (
	"log/slog"
	"sync"
	"time"

	"github.com/claude/mapty/internal/workout"
)

// Marker is a workout pin with an always-open popup.
type Marker struct {
	ID         string         `json:"id"`
	Coords     workout.Coords `json:"coords"`
	Type       workout.Type   `json:"type"`
	PopupClass string         `json:"popup_class"`
	Content    string         `json:"content"`
}

// Entry is one rendered list item.
type Entry struct {
	ID   string       `json:"id"`
	Type workout.Type `json:"type"`
	HTML string       `json:"html"`
}

// Form mirrors the input form's presentation state.
type Form struct {
	Visible bool `json:"visible"`
	// Display is "grid" normally and "none" briefly after a submit.
	Display    string `json:"display"`
	Focus      string `json:"focus,omitempty"`
	ExtraField string `json:"extra_field"`
	// Generation increments whenever inputs are cleared.
	Generation uint64 `json:"generation"`
}

// Map is the map camera.
type Map struct {
	Ready   bool            `json:"ready"`
	Center  *workout.Coords `json:"center,omitempty"`
	Zoom    int             `json:"zoom,omitempty"`
	Animate bool            `json:"animate"`
}

// Snapshot is a copy of the render model.
type Snapshot struct {
	Map     Map      `json:"map"`
	Markers []Marker `json:"markers"`
	Entries []Entry  `json:"entries"`
	Form    Form     `json:"form"`
	Version uint64   `json:"version"`
}

// Effects are one-shot UI side effects consumed by the next response.
type Effects struct {
	Alerts []string `json:"alerts,omitempty"`
	Reload bool     `json:"reload,omitempty"`
}

// State is the in-memory render model. It is safe for concurrent use; the
// delayed form re-display runs on its own goroutine.
type State struct {
	mu      sync.Mutex
	log     *slog.Logger
	delay   time.Duration
	after   func(time.Duration, func()) *time.Timer
	snap    Snapshot
	effects Effects
}

// New returns an empty render model. delay is how long the form stays
// undisplayed after a submit.
func New(delay time.Duration, log *slog.Logger) *State {
	s := &State{log: log, delay: delay, after: time.AfterFunc}
	s.resetLocked()
	return s
}

func (s *State) resetLocked() {
	s.snap = Snapshot{
		Markers: []Marker{},
		Entries: []Entry{},
		Form:    Form{Display: "grid", ExtraField: "cadence"},
		Version: s.snap.Version + 1,
	}
}

// RenderMap shows the map at center and drops existing markers.
func (s *State) RenderMap(center workout.Coords, zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Map = Map{Ready: true, Center: &center, Zoom: zoom}
	s.snap.Markers = []Marker{}
	s.snap.Version++
}

// RenderMarker adds a pin whose popup stays open, styled per workout type.
func (s *State) RenderMarker(w workout.Workout) {
	b := w.Common()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Markers = append(s.snap.Markers, Marker{
		ID:         b.ID,
		Coords:     b.Coords,
		Type:       b.Type,
		PopupClass: string(b.Type) + "-popup",
		Content:    PopupContent(w),
	})
	s.snap.Version++
}

// RenderEntry inserts the entry at the top of the list, directly below the form.
func (s *State) RenderEntry(w workout.Workout) {
	html, err := RenderEntry(w)
	if err != nil {
		s.log.Error("rendering workout entry", "id", w.Common().ID, "error", err)
		return
	}
	b := w.Common()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Entries = append([]Entry{{ID: b.ID, Type: b.Type, HTML: html}}, s.snap.Entries...)
	s.snap.Version++
}

// ShowForm reveals the form with focus on the distance input.
func (s *State) ShowForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Form.Visible = true
	s.snap.Form.Focus = "distance"
	s.snap.Version++
}

// HideForm clears and hides the form, then restores its display after the
// configured delay. The timer is never cancelled.
func (s *State) HideForm() {
	s.mu.Lock()
	s.snap.Form.Visible = false
	s.snap.Form.Display = "none"
	s.snap.Form.Focus = ""
	s.snap.Form.Generation++
	s.snap.Version++
	s.mu.Unlock()

	s.after(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.snap.Form.Display = "grid"
		s.snap.Version++
	})
}

// ShowExtraField shows cadence for running and elevation gain for cycling.
func (s *State) ShowExtraField(t workout.Type) {
	field := "cadence"
	if t == workout.Cycling {
		field = "elevation"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Form.ExtraField = field
	s.snap.Version++
}

// Pan re-centres the map with animation.
func (s *State) Pan(center workout.Coords, zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Map.Center = &center
	s.snap.Map.Zoom = zoom
	s.snap.Map.Animate = true
	s.snap.Version++
}

// Alert queues a message for the next response.
func (s *State) Alert(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effects.Alerts = append(s.effects.Alerts, msg)
}

// Reload drops everything rendered and asks the browser to reload.
func (s *State) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.effects.Reload = true
}

// Snapshot returns a deep copy of the render model.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.snap
	if c := s.snap.Map.Center; c != nil {
		cc := *c
		out.Map.Center = &cc
	}
	out.Markers = append([]Marker{}, s.snap.Markers...)
	out.Entries = append([]Entry{}, s.snap.Entries...)
	return out
}

// TakeEffects returns and clears pending side effects.
func (s *State) TakeEffects() Effects {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.effects
	s.effects = Effects{}
	return e
}
