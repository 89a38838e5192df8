package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewActivityRecordNormalizesPeople(t *testing.T) {
	rec, err := NewActivityRecord(ActivityRecordInput{
		ProjectID: "p1",
		Type:      ActivityFilming,
		People:    []string{" Rolf Wiberg ", "Anna", "", "Rolf Wiberg"},
		Start:     time.Date(2027, time.February, 8, 9, 30, 0, 0, time.Local),
	})
	if err != nil {
		t.Fatalf("NewActivityRecord() error = %v", err)
	}
	if len(rec.People) != 2 || rec.People[0] != "Anna" || rec.People[1] != "Rolf Wiberg" {
		t.Fatalf("people = %v, want deduped sorted pair", rec.People)
	}
	if rec.Start.Hour() != 0 || rec.Start.Location() != time.UTC {
		t.Fatalf("start not pinned to UTC midnight: %v", rec.Start)
	}
	if !rec.End.Equal(rec.Start) {
		t.Fatalf("filming record end = %v, want start date", rec.End)
	}
}

func TestNewActivityRecordDefaultsName(t *testing.T) {
	rec, err := NewActivityRecord(ActivityRecordInput{
		ProjectID: "p1",
		Type:      ActivityEditing,
		Start:     time.Date(2027, time.February, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2027, time.February, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("NewActivityRecord() error = %v", err)
	}
	if rec.ProjectName != "p1" {
		t.Fatalf("name = %q, want project id fallback", rec.ProjectName)
	}
}

func TestNewActivityRecordValidation(t *testing.T) {
	start := time.Date(2027, time.February, 8, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		in   ActivityRecordInput
		want error
	}{
		{"missing id", ActivityRecordInput{Type: ActivityFilming, Start: start}, ErrInvalidID},
		{"bad type", ActivityRecordInput{ProjectID: "p1", Type: "render", Start: start}, ErrInvalidType},
		{"zero date", ActivityRecordInput{ProjectID: "p1", Type: ActivityFilming}, ErrInvalidDate},
		{"inverted range", ActivityRecordInput{
			ProjectID: "p1", Type: ActivityEditing,
			Start: start, End: start.AddDate(0, 0, -3),
		}, ErrInvalidRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewActivityRecord(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
