package workout

// TypeSummary aggregates the workouts of one type.
type TypeSummary struct {
	Count         int     `json:"count"`
	TotalDistance float64 `json:"total_distance_km"`
	TotalDuration float64 `json:"total_duration_min"`
	// AvgMetric is the mean pace (running) or mean speed (cycling).
	AvgMetric  float64 `json:"avg_metric"`
	MetricUnit string  `json:"metric_unit"`
}

// Summary groups totals by workout type.
type Summary struct {
	Total  int                  `json:"total"`
	ByType map[Type]TypeSummary `json:"by_type"`
	Latest string               `json:"latest_id,omitempty"`
}

// Summarize computes per-type totals over ws.
func Summarize(ws []Workout) Summary {
	s := Summary{Total: len(ws), ByType: map[Type]TypeSummary{}}
	for _, w := range ws {
		b := w.Common()
		ts := s.ByType[b.Type]
		ts.Count++
		ts.TotalDistance += b.Distance
		ts.TotalDuration += b.Duration
		ts.AvgMetric += w.Metric()
		ts.MetricUnit = w.MetricUnit()
		s.ByType[b.Type] = ts
		s.Latest = b.ID
	}
	for t, ts := range s.ByType {
		ts.AvgMetric /= float64(ts.Count)
		s.ByType[t] = ts
	}
	return s
}
