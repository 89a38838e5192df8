// Package allocate implements the time-allocation calculator: expanding
// activity records into daily demand, resolving per-day conflicts against the
// hour cap, aggregating into the dual summary views, and reconciling user
// edits. Pure in-memory computation, no I/O.
package allocate

// Rules carries the numeric knobs for one calculation run. Passing them
// explicitly keeps concurrent runs with different rules (tests, forecasts)
// independent of process state.
type Rules struct {
	FilmingHoursPerDay float64
	EditingHoursPerDay float64
	MaxHoursPerDay     float64
}

// DefaultRules mirrors the department's standard rates: half-day filming,
// full-day editing, eight-hour cap.
func DefaultRules() Rules {
	return Rules{
		FilmingHoursPerDay: 4,
		EditingHoursPerDay: 8,
		MaxHoursPerDay:     8,
	}
}

// Valid reports whether every knob is positive.
func (r Rules) Valid() bool {
	return r.FilmingHoursPerDay > 0 && r.EditingHoursPerDay > 0 && r.MaxHoursPerDay > 0
}
