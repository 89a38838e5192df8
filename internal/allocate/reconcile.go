package allocate

import (
	"math"
	"sort"

	"github.com/hylla/tidrapport/internal/domain"
)

// ApplyProjectEdit sets a project's total hours and redistributes the new
// total across the project's people proportionally to their prior share. A
// project whose people all sit at zero hours is split equally. The
// completed/remaining split of each cell keeps its prior ratio; cells with
// no prior basis put the new value into remaining. Applying the same edit
// twice is a no-op after the first application.
func ApplyProjectEdit(set *domain.SummarySet, projectID string, newTotal float64) error {
	if err := validateHours(newTotal); err != nil {
		return err
	}
	row, ok := set.Cells[projectID]
	if !ok {
		return domain.ErrUnknownProject
	}

	people := sortedKeys(row)
	weights := make([]float64, len(people))
	for i, person := range people {
		weights[i] = row[person].Total()
	}
	shares := Distribute(newTotal, weights)

	fallback, hasFallback := completedFraction(row)
	for i, person := range people {
		set.SetCell(projectID, set.Names[projectID], person,
			splitLike(row[person], shares[i], fallback, hasFallback))
	}
	rescaleWeeks(set)
	return nil
}

// ApplyPersonEdit sets a person's total hours and redistributes the new
// total across their projects proportionally to the prior per-project share.
// Symmetric to ApplyProjectEdit.
func ApplyPersonEdit(set *domain.SummarySet, person string, newTotal float64) error {
	if err := validateHours(newTotal); err != nil {
		return err
	}

	var projects []string
	for projectID, row := range set.Cells {
		if _, ok := row[person]; ok {
			projects = append(projects, projectID)
		}
	}
	if len(projects) == 0 {
		return domain.ErrUnknownPerson
	}
	sort.Strings(projects)

	cells := map[string]domain.HourSplit{}
	weights := make([]float64, len(projects))
	for i, projectID := range projects {
		cells[projectID] = set.Cells[projectID][person]
		weights[i] = cells[projectID].Total()
	}
	shares := Distribute(newTotal, weights)

	fallback, hasFallback := completedFraction(cells)
	for i, projectID := range projects {
		set.SetCell(projectID, set.Names[projectID], person,
			splitLike(cells[projectID], shares[i], fallback, hasFallback))
	}
	rescaleWeeks(set)
	return nil
}

func validateHours(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return domain.ErrInvalidHours
	}
	return nil
}

// completedFraction returns the completed share across a slice of cells,
// used as the fallback split ratio for cells with no prior hours.
func completedFraction(cells map[string]domain.HourSplit) (float64, bool) {
	var ct, tt int
	for _, h := range cells {
		ct += domain.Tenths(h.Completed)
		tt += domain.Tenths(h.Total())
	}
	if tt == 0 {
		return 0, false
	}
	return float64(ct) / float64(tt), true
}

// splitLike carves value into completed/remaining following the prior cell's
// ratio. No prior basis anywhere means the edit is adding future work, so
// everything lands in remaining.
func splitLike(prior domain.HourSplit, value, fallback float64, hasFallback bool) domain.HourSplit {
	frac := 0.0
	switch {
	case prior.Total() > 0:
		frac = prior.Completed / prior.Total()
	case hasFallback:
		frac = fallback
	}
	completed := domain.Round1(value * frac)
	return domain.HourSplit{
		Completed: completed,
		Remaining: domain.Round1(value - completed),
	}
}

// rescaleWeeks re-fits the weekly partition to the post-edit grand totals so
// the weekly progress report stays consistent with the edited views.
func rescaleWeeks(set *domain.SummarySet) {
	if len(set.Weeks) == 0 {
		return
	}
	totals := set.Totals()
	cw := make([]float64, len(set.Weeks))
	rw := make([]float64, len(set.Weeks))
	for i, wk := range set.Weeks {
		cw[i] = wk.Hours.Completed
		rw[i] = wk.Hours.Remaining
	}
	completed := Distribute(totals.Completed, cw)
	remaining := Distribute(totals.Remaining, rw)
	for i := range set.Weeks {
		set.Weeks[i].Hours = domain.HourSplit{
			Completed: completed[i],
			Remaining: remaining[i],
		}
	}
}

func sortedKeys(m map[string]domain.HourSplit) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
