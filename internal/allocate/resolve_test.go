package allocate

import (
	"testing"
	"time"

	"github.com/hylla/tidrapport/internal/domain"
)

func demand(person string, d time.Time, projectID string, hours float64) domain.DailyDemand {
	return domain.DailyDemand{
		Person: person, Day: d, ProjectID: projectID, ProjectName: projectID, Hours: hours,
	}
}

func groupSum(t *testing.T, resolved []domain.DailyDemand, person string, d time.Time) float64 {
	t.Helper()
	tenths := 0
	for _, r := range resolved {
		if r.Person == person && r.Day.Equal(d) {
			tenths += domain.Tenths(r.Hours)
		}
	}
	return domain.FromTenths(tenths)
}

func TestResolvePassThroughUnderCap(t *testing.T) {
	d := day(2027, time.February, 8)
	in := []domain.DailyDemand{
		demand("Rolf", d, "p1", 4),
		demand("Rolf", d, "p2", 4),
	}
	got := Resolve(in, DefaultRules())
	for _, r := range got {
		if r.Hours != 4 {
			t.Fatalf("under-cap entry rescaled: %v", r)
		}
	}
}

func TestResolveCapsOverloadedDay(t *testing.T) {
	d := day(2027, time.February, 8)
	in := []domain.DailyDemand{
		demand("Rolf", d, "p1", 8),
		demand("Rolf", d, "p2", 8),
		demand("Rolf", d, "p3", 8),
	}
	got := Resolve(in, DefaultRules())
	if s := groupSum(t, got, "Rolf", d); s != 8 {
		t.Fatalf("overloaded day sums to %v, want exactly 8", s)
	}
	counts := map[float64]int{}
	for _, r := range got {
		counts[r.Hours]++
	}
	// Three-way equal split of 8h: two at 2.7, one absorbs the residual at 2.6.
	if counts[2.7] != 2 || counts[2.6] != 1 {
		t.Fatalf("three-way split = %v, want two 2.7 and one 2.6", got)
	}
}

func TestResolveProportionalOnMixedTypes(t *testing.T) {
	d := day(2027, time.February, 8)
	in := []domain.DailyDemand{
		demand("Rolf", d, "film", 4),
		demand("Rolf", d, "edit", 8),
	}
	got := Resolve(in, DefaultRules())
	byProject := map[string]float64{}
	for _, r := range got {
		byProject[r.ProjectID] = r.Hours
	}
	// 12h nominal over an 8h cap: 4/12 and 8/12 of the cap.
	if byProject["film"] != 2.7 || byProject["edit"] != 5.3 {
		t.Fatalf("proportional split = %v, want film 2.7, edit 5.3", byProject)
	}
	if s := groupSum(t, got, "Rolf", d); s != 8 {
		t.Fatalf("capped group sums to %v, want 8", s)
	}
}

func TestResolveIndependentPeople(t *testing.T) {
	d := day(2027, time.February, 8)
	in := []domain.DailyDemand{
		demand("Rolf", d, "p1", 8),
		demand("Rolf", d, "p2", 8),
		demand("Anna", d, "p1", 8),
	}
	got := Resolve(in, DefaultRules())
	if s := groupSum(t, got, "Anna", d); s != 8 {
		t.Fatalf("Anna's uncontested day = %v, want 8", s)
	}
	if s := groupSum(t, got, "Rolf", d); s != 8 {
		t.Fatalf("Rolf's contested day = %v, want capped 8", s)
	}
}

func TestResolveCapEqualityOnlyWhenDemandReachesCap(t *testing.T) {
	d := day(2027, time.February, 8)
	in := []domain.DailyDemand{demand("Rolf", d, "p1", 4)}
	got := Resolve(in, DefaultRules())
	if s := groupSum(t, got, "Rolf", d); s != 4 {
		t.Fatalf("half-day demand inflated to %v", s)
	}
}

func TestResolveCustomCap(t *testing.T) {
	rules := DefaultRules()
	rules.MaxHoursPerDay = 6
	d := day(2027, time.February, 8)
	in := []domain.DailyDemand{
		demand("Rolf", d, "p1", 4),
		demand("Rolf", d, "p2", 4),
	}
	got := Resolve(in, rules)
	if s := groupSum(t, got, "Rolf", d); s != 6 {
		t.Fatalf("custom cap ignored: sum %v, want 6", s)
	}
}
