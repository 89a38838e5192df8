package allocate

import (
	"time"

	"github.com/hylla/tidrapport/internal/domain"
)

// BuildSchedule expands activity records into per-person per-day demand
// entries for the target month. Weekend days and days outside the month are
// dropped silently; a record with no assigned people or a range entirely
// outside the month contributes nothing.
func BuildSchedule(records []domain.ActivityRecord, month domain.Month, rules Rules) []domain.DailyDemand {
	var out []domain.DailyDemand
	for _, rec := range records {
		rate := rules.EditingHoursPerDay
		if rec.Type == domain.ActivityFilming {
			rate = rules.FilmingHoursPerDay
		}
		for _, day := range activityDays(rec, month) {
			for _, person := range rec.People {
				out = append(out, domain.DailyDemand{
					Person:      person,
					Day:         day,
					ProjectID:   rec.ProjectID,
					ProjectName: rec.ProjectName,
					Hours:       rate,
				})
			}
		}
	}
	return out
}

// activityDays returns the weekdays a record occupies inside the month.
// Editing ranges are clipped to the month first; filming records collapse to
// their single date.
func activityDays(rec domain.ActivityRecord, month domain.Month) []time.Time {
	start, end := rec.Start, rec.End
	if first := month.First(); start.Before(first) {
		start = first
	}
	if last := month.Last(); end.After(last) {
		end = last
	}
	if end.Before(start) {
		return nil
	}

	var days []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if domain.IsWeekday(day) {
			days = append(days, day)
		}
	}
	return days
}
