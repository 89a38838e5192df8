package domain

import (
	"fmt"
	"strings"
	"time"
)

// Month identifies one calendar month, the reporting unit for every
// calculation run.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(raw string) (Month, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", raw, ErrInvalidMonth)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// First returns the first day of the month at UTC midnight.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last returns the last day of the month at UTC midnight.
func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

// Contains reports whether day falls inside the month.
func (m Month) Contains(day time.Time) bool {
	day = DateOnly(day)
	return !day.Before(m.First()) && !day.After(m.Last())
}

// Next returns the month n months after m. Negative n walks backwards.
func (m Month) Next(n int) Month {
	t := m.First().AddDate(0, n, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label returns a human-readable form like "February 2026".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String(), m.Year)
}

// DateOnly strips the clock from t, pinning it to UTC midnight so dates
// compare by calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWeekday reports whether t is Monday through Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// ParseDate parses "YYYY-MM-DD" into a UTC-midnight day.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, ErrInvalidDate)
	}
	return DateOnly(t), nil
}
