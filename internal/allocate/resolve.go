package allocate

import (
	"sort"
	"time"

	"github.com/hylla/tidrapport/internal/domain"
)

type dayKey struct {
	person string
	day    time.Time
}

// Resolve caps every (person, day) group at MaxHoursPerDay. Groups at or
// under the cap pass through with their nominal hours; groups over it are
// rescaled proportionally to nominal demand, which is an equal split when the
// competing entries share an activity type. The rescaled group sums to
// exactly the cap.
func Resolve(demands []domain.DailyDemand, rules Rules) []domain.DailyDemand {
	groups := map[dayKey][]int{}
	for i, d := range demands {
		key := dayKey{person: d.Person, day: d.Day}
		groups[key] = append(groups[key], i)
	}

	out := make([]domain.DailyDemand, len(demands))
	copy(out, demands)

	capTenths := domain.Tenths(rules.MaxHoursPerDay)
	for _, idxs := range groups {
		sum := 0
		for _, i := range idxs {
			sum += domain.Tenths(out[i].Hours)
		}
		if sum <= capTenths {
			continue
		}
		weights := make([]float64, len(idxs))
		for j, i := range idxs {
			weights[j] = out[i].Hours
		}
		shares := Distribute(rules.MaxHoursPerDay, weights)
		for j, i := range idxs {
			out[i].Hours = shares[j]
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		if out[i].Person != out[j].Person {
			return out[i].Person < out[j].Person
		}
		return out[i].ProjectID < out[j].ProjectID
	})
	return out
}
