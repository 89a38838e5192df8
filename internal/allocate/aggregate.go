package allocate

import (
	"sort"
	"time"

	"github.com/hylla/tidrapport/internal/domain"
)

// Aggregate folds resolved demand into the session summary set: the
// (project, person) cell matrix plus the per-week partition. Hours on days
// at or before the as-of date count as completed, later days as remaining.
// An as-of date before the month leaves everything remaining; one after the
// month leaves everything completed.
func Aggregate(resolved []domain.DailyDemand, month domain.Month, asOf time.Time) *domain.SummarySet {
	asOf = domain.DateOnly(asOf)
	set := domain.NewSummarySet(month, asOf)

	type cellKey struct{ project, person string }
	cells := map[cellKey][2]int{} // completed, remaining in tenths
	names := map[string]string{}
	weeks := map[time.Time][2]int{}

	for _, d := range resolved {
		key := cellKey{project: d.ProjectID, person: d.Person}
		acc := cells[key]
		wk := weekStart(d.Day)
		wacc := weeks[wk]
		if !d.Day.After(asOf) {
			acc[0] += domain.Tenths(d.Hours)
			wacc[0] += domain.Tenths(d.Hours)
		} else {
			acc[1] += domain.Tenths(d.Hours)
			wacc[1] += domain.Tenths(d.Hours)
		}
		cells[key] = acc
		weeks[wk] = wacc
		names[d.ProjectID] = d.ProjectName
	}

	for key, acc := range cells {
		set.SetCell(key.project, names[key.project], key.person, domain.HourSplit{
			Completed: domain.FromTenths(acc[0]),
			Remaining: domain.FromTenths(acc[1]),
		})
	}

	starts := make([]time.Time, 0, len(weeks))
	for wk := range weeks {
		starts = append(starts, wk)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	for _, wk := range starts {
		acc := weeks[wk]
		set.Weeks = append(set.Weeks, domain.WeekTotal{
			Start: clampToMonth(wk, month),
			End:   clampToMonth(wk.AddDate(0, 0, 4), month),
			Hours: domain.HourSplit{
				Completed: domain.FromTenths(acc[0]),
				Remaining: domain.FromTenths(acc[1]),
			},
		})
	}
	return set
}

// weekStart returns the Monday of the week containing day.
func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func clampToMonth(day time.Time, month domain.Month) time.Time {
	if first := month.First(); day.Before(first) {
		return first
	}
	if last := month.Last(); day.After(last) {
		return last
	}
	return day
}
