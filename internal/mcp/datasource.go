package mcp

import (
	"context"
	"errors"

	"github.com/claude/mapty/internal/session"
	"github.com/claude/mapty/internal/workout"
)

// ErrNotFound is returned when no workout has the requested id.
var ErrNotFound = errors.New("workout not found")

// DataSource abstracts where MCP tools read workouts from. Both the
// in-process controller and HTTPClient (remote via REST API) satisfy it.
type DataSource interface {
	ListWorkouts(ctx context.Context, t workout.Type) ([]workout.Workout, error)
	GetWorkout(ctx context.Context, id string) (workout.Workout, error)
}

// ControllerSource reads workouts from a running session controller.
type ControllerSource struct {
	Ctrl *session.Controller
}

// Compile-time check: ControllerSource satisfies DataSource.
var _ DataSource = ControllerSource{}

func (s ControllerSource) ListWorkouts(_ context.Context, t workout.Type) ([]workout.Workout, error) {
	return filterType(s.Ctrl.Workouts(), t), nil
}

func (s ControllerSource) GetWorkout(_ context.Context, id string) (workout.Workout, error) {
	w, ok := s.Ctrl.Workout(id)
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

func filterType(ws []workout.Workout, t workout.Type) []workout.Workout {
	out := []workout.Workout{}
	for _, w := range ws {
		if t == "" || w.Common().Type == t {
			out = append(out, w)
		}
	}
	return out
}
