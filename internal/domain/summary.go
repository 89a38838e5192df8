package domain

import (
	"math"
	"sort"
	"time"
)

// HourSplit partitions hours at the as-of date. Both fields are pinned to
// one decimal place; Total is always derived, never stored.
type HourSplit struct {
	Completed float64
	Remaining float64
}

// Total returns completed plus remaining, re-pinned to 0.1h.
func (h HourSplit) Total() float64 {
	return Round1(h.Completed + h.Remaining)
}

// IsZero reports whether the split carries no hours.
func (h HourSplit) IsZero() bool {
	return h.Completed == 0 && h.Remaining == 0
}

// Round1 rounds v to one decimal place. Every hour value that crosses a
// package boundary is pinned with this so completed+remaining==total holds
// after any arithmetic.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Tenths converts v to integer tenths of an hour. Aggregation sums in
// tenths so float accumulation cannot drift off the 0.1 grid.
func Tenths(v float64) int {
	return int(math.Round(v * 10))
}

// FromTenths converts integer tenths back to hours.
func FromTenths(t int) float64 {
	return float64(t) / 10
}

// WeekTotal is one calendar week's slice of the month, clipped to the
// month's first and last day.
type WeekTotal struct {
	Start time.Time
	End   time.Time
	Hours HourSplit
}

// PersonShare is one person's slice of a project.
type PersonShare struct {
	Person string
	Hours  HourSplit
}

// ProjectShare is one project's slice of a person's month.
type ProjectShare struct {
	ProjectID   string
	ProjectName string
	Hours       HourSplit
}

// ProjectSummary is the project-keyed aggregate view handed to the
// presentation layer.
type ProjectSummary struct {
	ID        string
	Name      string
	Completed float64
	Remaining float64
	Total     float64
	People    []PersonShare
}

// PersonSummary is the person-keyed aggregate view.
type PersonSummary struct {
	Person    string
	Completed float64
	Remaining float64
	Total     float64
	Projects  []ProjectShare
}

// SummarySet is the session state produced by one calculation run and
// mutated by edits. The cell matrix keyed by (project, person) is the single
// source of truth; both summary views are projections of it, so the views
// cannot drift apart.
type SummarySet struct {
	Month Month
	AsOf  time.Time

	// Names maps project id to display name.
	Names map[string]string
	// Cells maps project id -> person -> hours.
	Cells map[string]map[string]HourSplit
	// Weeks carries the per-week partition for the weekly progress report.
	Weeks []WeekTotal
}

// NewSummarySet constructs an empty set for one month and as-of date.
func NewSummarySet(month Month, asOf time.Time) *SummarySet {
	return &SummarySet{
		Month: month,
		AsOf:  DateOnly(asOf),
		Names: map[string]string{},
		Cells: map[string]map[string]HourSplit{},
	}
}

// SetCell stores one (project, person) cell, pinning both halves.
func (s *SummarySet) SetCell(projectID, projectName, person string, hours HourSplit) {
	if s.Cells[projectID] == nil {
		s.Cells[projectID] = map[string]HourSplit{}
	}
	s.Names[projectID] = projectName
	s.Cells[projectID][person] = HourSplit{
		Completed: Round1(hours.Completed),
		Remaining: Round1(hours.Remaining),
	}
}

// Cell returns one (project, person) cell.
func (s *SummarySet) Cell(projectID, person string) (HourSplit, bool) {
	row, ok := s.Cells[projectID]
	if !ok {
		return HourSplit{}, false
	}
	h, ok := row[person]
	return h, ok
}

// HasProject reports whether the project exists in the cell matrix.
func (s *SummarySet) HasProject(projectID string) bool {
	_, ok := s.Cells[projectID]
	return ok
}

// HasPerson reports whether any cell references the person.
func (s *SummarySet) HasPerson(person string) bool {
	for _, row := range s.Cells {
		if _, ok := row[person]; ok {
			return true
		}
	}
	return false
}

// Project projects one ProjectSummary out of the cell matrix.
func (s *SummarySet) Project(projectID string) (ProjectSummary, bool) {
	row, ok := s.Cells[projectID]
	if !ok {
		return ProjectSummary{}, false
	}
	out := ProjectSummary{ID: projectID, Name: s.Names[projectID]}
	var ct, rt int
	for person, h := range row {
		out.People = append(out.People, PersonShare{Person: person, Hours: h})
		ct += Tenths(h.Completed)
		rt += Tenths(h.Remaining)
	}
	sort.Slice(out.People, func(i, j int) bool {
		ti, tj := out.People[i].Hours.Total(), out.People[j].Hours.Total()
		if ti != tj {
			return ti > tj
		}
		return out.People[i].Person < out.People[j].Person
	})
	out.Completed = FromTenths(ct)
	out.Remaining = FromTenths(rt)
	out.Total = FromTenths(ct + rt)
	return out, true
}

// Person projects one PersonSummary out of the cell matrix.
func (s *SummarySet) Person(person string) (PersonSummary, bool) {
	out := PersonSummary{Person: person}
	var ct, rt int
	found := false
	for projectID, row := range s.Cells {
		h, ok := row[person]
		if !ok {
			continue
		}
		found = true
		out.Projects = append(out.Projects, ProjectShare{
			ProjectID:   projectID,
			ProjectName: s.Names[projectID],
			Hours:       h,
		})
		ct += Tenths(h.Completed)
		rt += Tenths(h.Remaining)
	}
	if !found {
		return PersonSummary{}, false
	}
	sort.Slice(out.Projects, func(i, j int) bool {
		ti, tj := out.Projects[i].Hours.Total(), out.Projects[j].Hours.Total()
		if ti != tj {
			return ti > tj
		}
		return out.Projects[i].ProjectName < out.Projects[j].ProjectName
	})
	out.Completed = FromTenths(ct)
	out.Remaining = FromTenths(rt)
	out.Total = FromTenths(ct + rt)
	return out, true
}

// ProjectSummaries returns every project view sorted by total hours
// descending, name ascending on ties.
func (s *SummarySet) ProjectSummaries() []ProjectSummary {
	out := make([]ProjectSummary, 0, len(s.Cells))
	for projectID := range s.Cells {
		p, _ := s.Project(projectID)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PersonSummaries returns every person view sorted by total hours
// descending, name ascending on ties.
func (s *SummarySet) PersonSummaries() []PersonSummary {
	seen := map[string]struct{}{}
	for _, row := range s.Cells {
		for person := range row {
			seen[person] = struct{}{}
		}
	}
	out := make([]PersonSummary, 0, len(seen))
	for person := range seen {
		p, _ := s.Person(person)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Person < out[j].Person
	})
	return out
}

// Totals sums every cell once. Both aggregate views sum the same cells, so
// their grand totals are equal by construction.
func (s *SummarySet) Totals() HourSplit {
	var ct, rt int
	for _, row := range s.Cells {
		for _, h := range row {
			ct += Tenths(h.Completed)
			rt += Tenths(h.Remaining)
		}
	}
	return HourSplit{Completed: FromTenths(ct), Remaining: FromTenths(rt)}
}

// Clone deep-copies the set so edits can work on a scratch copy.
func (s *SummarySet) Clone() *SummarySet {
	out := NewSummarySet(s.Month, s.AsOf)
	for projectID, row := range s.Cells {
		for person, h := range row {
			out.SetCell(projectID, s.Names[projectID], person, h)
		}
	}
	out.Weeks = append([]WeekTotal(nil), s.Weeks...)
	return out
}
