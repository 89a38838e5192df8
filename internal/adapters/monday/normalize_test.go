package monday

import (
	"testing"

	"github.com/hylla/tidrapport/internal/domain"
)

func normConfig() Config {
	return Config{
		PeopleColumn:        "people",
		FilmingDateColumns:  []string{"film1", "film2"},
		EditingRangeColumns: []string{"edit1"},
	}
}

func TestNormalizeItemEmitsRecordPerColumn(t *testing.T) {
	item := boardItem{
		ID:   "7",
		Name: "Autumn campaign",
		ColumnValues: []columnValue{
			{ID: "people", Text: "Sam Lo"},
			{ID: "film1", Value: `{"date":"2027-02-01"}`},
			{ID: "film2", Value: `{"date":"2027-02-03"}`},
			{ID: "edit1", Value: `{"from":"2027-02-08","to":"2027-02-12"}`},
		},
	}

	records, warnings := normalizeItem(item, normConfig())
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for i, want := range []domain.ActivityType{domain.ActivityFilming, domain.ActivityFilming, domain.ActivityEditing} {
		if records[i].Type != want {
			t.Errorf("record %d type = %s, want %s", i, records[i].Type, want)
		}
		if records[i].ProjectName != "Autumn campaign" {
			t.Errorf("record %d name = %q", i, records[i].ProjectName)
		}
	}
}

func TestNormalizeItemSkipsMalformedColumns(t *testing.T) {
	item := boardItem{
		ID:   "8",
		Name: "Broken dates",
		ColumnValues: []columnValue{
			{ID: "film1", Value: `{"date":"not-a-date"}`},
			{ID: "film2", Value: `{"date":"2027-02-05"}`},
			{ID: "edit1", Value: `{"from":"2027-02-10"}`},
		},
	}

	records, warnings := normalizeItem(item, normConfig())
	if len(records) != 1 {
		t.Fatalf("records = %d, want only the valid filming date", len(records))
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want two", warnings)
	}
}

func TestNormalizeItemIgnoresEmptyAndNullColumns(t *testing.T) {
	item := boardItem{
		ID:   "9",
		Name: "Sparse",
		ColumnValues: []columnValue{
			{ID: "film1", Value: ""},
			{ID: "film2", Value: "null"},
		},
	}
	records, warnings := normalizeItem(item, normConfig())
	if len(records) != 0 || len(warnings) != 0 {
		t.Fatalf("records = %v, warnings = %v, want neither", records, warnings)
	}
}

func TestParsePeople(t *testing.T) {
	item := boardItem{ColumnValues: []columnValue{
		{ID: "people", Text: " Anna Berg ,Rolf Ek,, "},
	}}
	got := parsePeople(item, "people")
	if len(got) != 2 || got[0] != "Anna Berg" || got[1] != "Rolf Ek" {
		t.Fatalf("parsePeople = %v", got)
	}
	if parsePeople(item, "missing") != nil {
		t.Error("missing column should yield nil")
	}
}
