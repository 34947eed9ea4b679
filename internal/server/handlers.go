package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/mapty/internal/session"
	"github.com/claude/mapty/internal/view"
	"github.com/claude/mapty/internal/workout"
	"github.com/go-chi/chi/v5"
)

// stateResponse is returned by every UI event endpoint so the browser can
// repaint and apply one-shot effects (alerts, reload).
type stateResponse struct {
	Session string          `json:"session"`
	View    view.Snapshot   `json:"view"`
	Effects view.Effects    `json:"effects"`
	Workout workout.Workout `json:"workout,omitempty"`
	Moved   *bool           `json:"moved,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type latLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (p latLng) coords() (workout.Coords, bool) {
	if p.Lat == nil || p.Lng == nil {
		return workout.Coords{}, false
	}
	return workout.Coords{*p.Lat, *p.Lng}, true
}

func (s *Server) state() stateResponse {
	return stateResponse{
		Session: s.ctrl.State().String(),
		View:    s.view.Snapshot(),
		Effects: s.view.TakeEffects(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	var p latLng
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	coords, ok := p.coords()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng are required"})
		return
	}
	s.ctrl.PositionResolved(coords)
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handlePositionError(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	// A missing body still counts as a failed lookup.
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.ctrl.PositionFailed(body.Reason)
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleMapClick(w http.ResponseWriter, r *http.Request) {
	var p latLng
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	coords, ok := p.coords()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng are required"})
		return
	}
	if err := s.ctrl.MapClick(coords); err != nil {
		resp := s.state()
		resp.Error = err.Error()
		writeJSON(w, http.StatusConflict, resp)
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleFormType(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.ctrl.ChangeType(body.Type); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, session.ErrMapNotReady) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var form session.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	created, err := s.ctrl.Submit(r.Context(), form)
	resp := s.state()
	resp.Workout = created
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, resp)
	case errors.Is(err, session.ErrInvalidInput), errors.Is(err, workout.ErrUnknownType):
		resp.Error = err.Error()
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, session.ErrNoPendingLocation):
		resp.Error = err.Error()
		writeJSON(w, http.StatusConflict, resp)
	default:
		s.log.Error("create workout", "error", err)
		resp.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("type")
	var t workout.Type
	if filter != "" {
		parsed, err := workout.ParseType(filter)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		t = parsed
	}

	out := []workout.Workout{}
	for _, wk := range s.ctrl.Workouts() {
		if t == "" || wk.Common().Type == t {
			out = append(out, wk)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	wk, ok := s.ctrl.Workout(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, workout.Summarize(s.ctrl.Workouts()))
}

func (s *Server) handleSelectWorkout(w http.ResponseWriter, r *http.Request) {
	moved := s.ctrl.SelectEntry(chi.URLParam(r, "id"))
	resp := s.state()
	resp.Moved = &moved
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Reset(r.Context()); err != nil {
		s.log.Error("reset", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
