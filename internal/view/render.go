package view

import (
	"bytes"
	"html/template"
	"strconv"

	"github.com/claude/mapty/internal/workout"
)

var entryTmpl = template.Must(template.New("entry").Parse(`<li class="workout workout--{{.Type}}" data-id="{{.ID}}">
  <h2 class="workout__title">{{.Description}}</h2>
  <div class="workout__details">
    <span class="workout__icon">{{.Icon}}</span>
    <span class="workout__value">{{.Distance}}</span>
    <span class="workout__unit">km</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⏱</span>
    <span class="workout__value">{{.Duration}}</span>
    <span class="workout__unit">min</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⚡️</span>
    <span class="workout__value">{{.Metric}}</span>
    <span class="workout__unit">{{.MetricUnit}}</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">{{.ExtraIcon}}</span>
    <span class="workout__value">{{.Extra}}</span>
    <span class="workout__unit">{{.ExtraUnit}}</span>
  </div>
</li>`))

type entryData struct {
	ID, Type, Description string
	Icon, ExtraIcon       string
	Distance, Duration    string
	Metric, MetricUnit    string
	Extra, ExtraUnit      string
}

// Icon returns the emoji shown next to a workout of type t.
func Icon(t workout.Type) string {
	if t == workout.Running {
		return "🏃‍♂️"
	}
	return "🚴‍♀️"
}

func extraIcon(t workout.Type) string {
	if t == workout.Running {
		return "🦶🏼"
	}
	return "⛰"
}

// formatNumber prints f the way a JavaScript number is stringified.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderEntry renders the list item for w.
func RenderEntry(w workout.Workout) (string, error) {
	b := w.Common()
	data := entryData{
		ID:          b.ID,
		Type:        string(b.Type),
		Description: b.Description,
		Icon:        Icon(b.Type),
		ExtraIcon:   extraIcon(b.Type),
		Distance:    formatNumber(b.Distance),
		Duration:    formatNumber(b.Duration),
		Metric:      strconv.FormatFloat(w.Metric(), 'f', 2, 64),
		MetricUnit:  w.MetricUnit(),
		Extra:       formatNumber(w.Extra()),
		ExtraUnit:   w.ExtraUnit(),
	}
	var buf bytes.Buffer
	if err := entryTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PopupContent is the marker popup text for w.
func PopupContent(w workout.Workout) string {
	b := w.Common()
	return Icon(b.Type) + " " + b.Description
}
