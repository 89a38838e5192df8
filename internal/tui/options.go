package tui

import "time"

type Option func(*Model)

// WithAsOf overrides the completed/remaining cut-off used for recalculation.
func WithAsOf(asOf time.Time) Option {
	return func(m *Model) {
		m.asOf = asOf
	}
}

// WithLeadPerson highlights a lead person in the report preview.
func WithLeadPerson(person string) Option {
	return func(m *Model) {
		m.leadPerson = person
	}
}
