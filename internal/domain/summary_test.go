package domain

import (
	"testing"
	"time"
)

func testSet() *SummarySet {
	set := NewSummarySet(Month{Year: 2027, Month: time.February},
		time.Date(2027, time.February, 16, 0, 0, 0, 0, time.UTC))
	set.SetCell("p1", "Launch Film", "Rolf", HourSplit{Completed: 12.3, Remaining: 11.7})
	set.SetCell("p1", "Launch Film", "Anna", HourSplit{Completed: 8, Remaining: 8})
	set.SetCell("p2", "Winter Cut", "Rolf", HourSplit{Completed: 4, Remaining: 12})
	return set
}

func TestHourSplitTotalPinned(t *testing.T) {
	h := HourSplit{Completed: 0.1, Remaining: 0.2}
	if h.Total() != 0.3 {
		t.Fatalf("Total() = %v, want pinned 0.3", h.Total())
	}
}

func TestSummarySetProjections(t *testing.T) {
	set := testSet()

	p1, ok := set.Project("p1")
	if !ok {
		t.Fatal("p1 missing")
	}
	if p1.Total != 40 || p1.Completed != 20.3 || p1.Remaining != 19.7 {
		t.Fatalf("p1 = %+v", p1)
	}
	if len(p1.People) != 2 || p1.People[0].Person != "Rolf" {
		t.Fatalf("p1 breakdown not sorted by hours: %+v", p1.People)
	}

	rolf, ok := set.Person("Rolf")
	if !ok {
		t.Fatal("Rolf missing")
	}
	if rolf.Total != 40 {
		t.Fatalf("Rolf total = %v, want 40", rolf.Total)
	}
	if len(rolf.Projects) != 2 || rolf.Projects[0].ProjectID != "p1" {
		t.Fatalf("Rolf breakdown order: %+v", rolf.Projects)
	}
}

func TestSummarySetOrdering(t *testing.T) {
	set := testSet()
	projects := set.ProjectSummaries()
	if len(projects) != 2 || projects[0].ID != "p1" {
		t.Fatalf("projects not sorted by total: %+v", projects)
	}
	people := set.PersonSummaries()
	if len(people) != 2 || people[0].Person != "Rolf" {
		t.Fatalf("people not sorted by total: %+v", people)
	}
}

func TestSummarySetTotalsMatchViews(t *testing.T) {
	set := testSet()
	totals := set.Totals()
	var fromProjects float64
	for _, p := range set.ProjectSummaries() {
		fromProjects += p.Total
	}
	if totals.Completed+totals.Remaining != fromProjects {
		t.Fatalf("grand totals %v drift from project view %v", totals, fromProjects)
	}
}

func TestSummarySetCloneIsDeep(t *testing.T) {
	set := testSet()
	clone := set.Clone()
	clone.SetCell("p1", "Launch Film", "Rolf", HourSplit{Completed: 1, Remaining: 1})

	orig, _ := set.Cell("p1", "Rolf")
	if orig.Completed != 12.3 {
		t.Fatalf("clone mutation leaked into original: %v", orig)
	}
}

func TestSummarySetUnknownLookups(t *testing.T) {
	set := testSet()
	if _, ok := set.Project("ghost"); ok {
		t.Fatal("unknown project reported present")
	}
	if _, ok := set.Person("Nobody"); ok {
		t.Fatal("unknown person reported present")
	}
	if set.HasPerson("Nobody") || !set.HasPerson("Anna") {
		t.Fatal("HasPerson misreported")
	}
}
