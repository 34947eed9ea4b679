package workout

import (
	"encoding/json"
	"fmt"
)

// Marshal encodes workouts as a single JSON array document.
func Marshal(ws []Workout) ([]byte, error) {
	if ws == nil {
		ws = []Workout{}
	}
	data, err := json.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("encoding workouts: %w", err)
	}
	return data, nil
}

// record is the flattened on-disk shape, wide enough for both variants.
type record struct {
	Base
	Cadence       *float64 `json:"cadence"`
	Pace          *float64 `json:"pace"`
	ElevationGain *float64 `json:"elevationGain"`
	ElvGain       *float64 `json:"elvGain"`
	Speed         *float64 `json:"speed"`
}

// Unmarshal restores a document written by Marshal. Stored derived fields are
// taken as-is. A null document yields an empty list.
func Unmarshal(data []byte) ([]Workout, error) {
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decoding workouts: %w", err)
	}

	out := make([]Workout, 0, len(recs))
	for i, r := range recs {
		switch r.Type {
		case Running:
			out = append(out, &RunningWorkout{Base: r.Base, Cadence: deref(r.Cadence), Pace: deref(r.Pace)})
		case Cycling:
			elev := r.ElevationGain
			if elev == nil {
				elev = r.ElvGain
			}
			out = append(out, &CyclingWorkout{Base: r.Base, ElevationGain: deref(elev), Speed: deref(r.Speed)})
		default:
			return nil, fmt.Errorf("decoding workout %d: %w: %q", i, ErrUnknownType, r.Type)
		}
	}
	return out, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// UnmarshalOne restores a single workout object.
func UnmarshalOne(data []byte) (Workout, error) {
	ws, err := Unmarshal(append(append([]byte{'['}, data...), ']'))
	if err != nil {
		return nil, err
	}
	if len(ws) != 1 {
		return nil, fmt.Errorf("decoding workout: expected one object, got %d", len(ws))
	}
	return ws[0], nil
}
