package domain

import (
	"slices"
	"strings"
	"time"
)

// ActivityType selects the nominal per-day hour rate for a record.
type ActivityType string

const (
	ActivityFilming ActivityType = "filming"
	ActivityEditing ActivityType = "editing"
)

var validActivityTypes = []ActivityType{ActivityFilming, ActivityEditing}

// ActivityRecord is one normalized board entry: a project activity touching
// one date (filming) or an inclusive date range (editing) for a set of
// people. Immutable once built; the schedule builder owns it for the
// duration of a calculation run.
type ActivityRecord struct {
	ProjectID   string
	ProjectName string
	Type        ActivityType
	People      []string
	Start       time.Time
	End         time.Time
}

// ActivityRecordInput holds raw values for NewActivityRecord.
type ActivityRecordInput struct {
	ProjectID   string
	ProjectName string
	Type        ActivityType
	People      []string
	Start       time.Time
	End         time.Time
}

// NewActivityRecord validates and normalizes one record. A filming record
// may leave End zero, in which case it collapses to the single Start date.
// An empty people list is allowed; such a record just contributes no demand.
func NewActivityRecord(in ActivityRecordInput) (ActivityRecord, error) {
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.ProjectName = strings.TrimSpace(in.ProjectName)

	if in.ProjectID == "" {
		return ActivityRecord{}, ErrInvalidID
	}
	if in.ProjectName == "" {
		in.ProjectName = in.ProjectID
	}
	if !slices.Contains(validActivityTypes, in.Type) {
		return ActivityRecord{}, ErrInvalidType
	}
	if in.Start.IsZero() {
		return ActivityRecord{}, ErrInvalidDate
	}

	start := DateOnly(in.Start)
	end := start
	if !in.End.IsZero() {
		end = DateOnly(in.End)
	}
	if end.Before(start) {
		return ActivityRecord{}, ErrInvalidRange
	}

	return ActivityRecord{
		ProjectID:   in.ProjectID,
		ProjectName: in.ProjectName,
		Type:        in.Type,
		People:      normalizePeople(in.People),
		Start:       start,
		End:         end,
	}, nil
}

func normalizePeople(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, raw := range in {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
