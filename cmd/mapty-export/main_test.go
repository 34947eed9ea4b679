package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/workout"
)

func sample(t *testing.T) []workout.Workout {
	t.Helper()
	f := workout.Factory{
		Now:  func() time.Time { return time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC) },
		Rand: func() float64 { return 0.5 },
	}
	w, err := f.New(workout.Running, workout.Coords{25, -12}, 7, 25, 127)
	if err != nil {
		t.Fatal(err)
	}
	return []workout.Workout{w}
}

// TestLoadMissingKey verifies an empty store exports nothing.
func TestLoadMissingKey(t *testing.T) {
	ws, err := load(context.Background(), storage.NewMemory(), "workouts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ws != nil {
		t.Errorf("got %v, want nil", ws)
	}

	var buf bytes.Buffer
	if err := writeJSON(&buf, ws); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("got %q, want []", buf.String())
	}
}

// TestLoadAndTable verifies stored workouts are decoded and tabulated.
func TestLoadAndTable(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	data, err := workout.Marshal(sample(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "workouts", data); err != nil {
		t.Fatal(err)
	}

	ws, err := load(ctx, store, "workouts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ws) != 1 {
		t.Fatalf("len = %d, want 1", len(ws))
	}

	var buf bytes.Buffer
	if err := writeTable(&buf, ws); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"DESCRIPTION", "Running on March 05", "3.6 min/km", "127 spm"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
