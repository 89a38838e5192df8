package allocate

import (
	"testing"
	"time"

	"github.com/hylla/tidrapport/internal/domain"
)

func februaryFixture(t *testing.T) []domain.ActivityRecord {
	t.Helper()
	return []domain.ActivityRecord{
		mustRecord(t, domain.ActivityRecordInput{
			ProjectID: "p1", ProjectName: "Launch Film", Type: domain.ActivityFilming,
			People: []string{"Rolf", "Anna"}, Start: day(2027, time.February, 8),
		}),
		mustRecord(t, domain.ActivityRecordInput{
			ProjectID: "p2", ProjectName: "Winter Cut", Type: domain.ActivityEditing,
			People: []string{"Rolf"},
			Start:  day(2027, time.February, 15), End: day(2027, time.February, 19),
		}),
	}
}

func TestAggregateSplitsAtAsOfDate(t *testing.T) {
	month := domain.Month{Year: 2027, Month: time.February}
	set := Calculate(februaryFixture(t), month, day(2027, time.February, 16), DefaultRules())

	p2, ok := set.Project("p2")
	if !ok {
		t.Fatal("project p2 missing from summary")
	}
	// Editing Mon 15 - Fri 19 at 8h: two days completed, three remaining.
	if p2.Completed != 16 || p2.Remaining != 24 {
		t.Fatalf("p2 split = %v/%v, want 16/24", p2.Completed, p2.Remaining)
	}
	if p2.Total != p2.Completed+p2.Remaining {
		t.Fatalf("total %v != completed+remaining %v", p2.Total, p2.Completed+p2.Remaining)
	}
}

func TestAggregateAsOfAtMonthEnd(t *testing.T) {
	month := domain.Month{Year: 2027, Month: time.February}
	set := Calculate(februaryFixture(t), month, month.Last(), DefaultRules())

	totals := set.Totals()
	if totals.Remaining != 0 {
		t.Fatalf("month-end as-of left %v remaining", totals.Remaining)
	}
	if totals.Completed != 48 {
		t.Fatalf("completed = %v, want 48 (2x4h filming + 5x8h editing)", totals.Completed)
	}
}

func TestAggregateAsOfBeforeMonth(t *testing.T) {
	month := domain.Month{Year: 2027, Month: time.February}
	set := Calculate(februaryFixture(t), month, day(2027, time.January, 15), DefaultRules())

	totals := set.Totals()
	if totals.Completed != 0 {
		t.Fatalf("pre-month as-of classified %v as completed", totals.Completed)
	}
	if totals.Remaining != 48 {
		t.Fatalf("remaining = %v, want 48", totals.Remaining)
	}
}

func TestAggregateViewsAgree(t *testing.T) {
	month := domain.Month{Year: 2027, Month: time.February}
	set := Calculate(februaryFixture(t), month, day(2027, time.February, 16), DefaultRules())

	var projectTotal, personTotal float64
	for _, p := range set.ProjectSummaries() {
		projectTotal += p.Total
	}
	for _, p := range set.PersonSummaries() {
		personTotal += p.Total
	}
	if diff := projectTotal - personTotal; diff > 0.05 || diff < -0.05 {
		t.Fatalf("views disagree: projects %v, people %v", projectTotal, personTotal)
	}
}

func TestAggregateNoWeekendDemand(t *testing.T) {
	month := domain.Month{Year: 2027, Month: time.February}
	rec := mustRecord(t, domain.ActivityRecordInput{
		ProjectID: "p1", ProjectName: "Full Month", Type: domain.ActivityEditing,
		People: []string{"Rolf"},
		Start:  month.First(), End: month.Last(),
	})
	demands := BuildSchedule([]domain.ActivityRecord{rec}, month, DefaultRules())
	for _, d := range Resolve(demands, DefaultRules()) {
		if !domain.IsWeekday(d.Day) {
			t.Fatalf("resolved demand on weekend: %v", d.Day)
		}
	}
}

func TestAggregateWeeksCoverTotals(t *testing.T) {
	month := domain.Month{Year: 2027, Month: time.February}
	set := Calculate(februaryFixture(t), month, day(2027, time.February, 16), DefaultRules())

	var wc, wr int
	for _, wk := range set.Weeks {
		wc += domain.Tenths(wk.Hours.Completed)
		wr += domain.Tenths(wk.Hours.Remaining)
		if wk.Start.Before(month.First()) || wk.End.After(month.Last()) {
			t.Fatalf("week %v-%v leaks outside month", wk.Start, wk.End)
		}
	}
	totals := set.Totals()
	if domain.FromTenths(wc) != totals.Completed || domain.FromTenths(wr) != totals.Remaining {
		t.Fatalf("weeks sum %v/%v, totals %v/%v",
			domain.FromTenths(wc), domain.FromTenths(wr), totals.Completed, totals.Remaining)
	}
}

func TestCalculatePersonBreakdownMatchesProjectBreakdown(t *testing.T) {
	month := domain.Month{Year: 2027, Month: time.February}
	set := Calculate(februaryFixture(t), month, day(2027, time.February, 16), DefaultRules())

	rolf, ok := set.Person("Rolf")
	if !ok {
		t.Fatal("Rolf missing from person view")
	}
	for _, share := range rolf.Projects {
		cell, ok := set.Cell(share.ProjectID, "Rolf")
		if !ok {
			t.Fatalf("cell %s/Rolf missing", share.ProjectID)
		}
		if cell != share.Hours {
			t.Fatalf("breakdown drifted from cell: %v vs %v", share.Hours, cell)
		}
	}
}
