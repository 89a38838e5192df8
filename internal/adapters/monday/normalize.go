package monday

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hylla/tidrapport/internal/domain"
)

// dateValue mirrors the JSON payload of a Monday date column.
type dateValue struct {
	Date string `json:"date"`
}

// rangeValue mirrors the JSON payload of a Monday timeline column.
type rangeValue struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// normalizeItem turns one board item into zero or more activity records, one
// per populated filming date column and one per populated editing range
// column. Malformed columns are reported as warnings and skipped.
func normalizeItem(item boardItem, cfg Config) ([]domain.ActivityRecord, []string) {
	people := parsePeople(item, cfg.PeopleColumn)

	var records []domain.ActivityRecord
	var warnings []string

	for _, colID := range cfg.FilmingDateColumns {
		col, ok := findColumn(item.ColumnValues, colID)
		if !ok || strings.TrimSpace(col.Value) == "" || col.Value == "null" {
			continue
		}
		var dv dateValue
		if err := json.Unmarshal([]byte(col.Value), &dv); err != nil || dv.Date == "" {
			warnings = append(warnings, fmt.Sprintf("column %s: unreadable date", colID))
			continue
		}
		day, err := domain.ParseDate(dv.Date)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("column %s: bad date %q", colID, dv.Date))
			continue
		}
		rec, err := domain.NewActivityRecord(domain.ActivityRecordInput{
			ProjectID:   item.ID,
			ProjectName: item.Name,
			Type:        domain.ActivityFilming,
			People:      people,
			Start:       day,
		})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("column %s: %v", colID, err))
			continue
		}
		records = append(records, rec)
	}

	for _, colID := range cfg.EditingRangeColumns {
		col, ok := findColumn(item.ColumnValues, colID)
		if !ok || strings.TrimSpace(col.Value) == "" || col.Value == "null" {
			continue
		}
		var rv rangeValue
		if err := json.Unmarshal([]byte(col.Value), &rv); err != nil || rv.From == "" || rv.To == "" {
			warnings = append(warnings, fmt.Sprintf("column %s: unreadable range", colID))
			continue
		}
		start, err := domain.ParseDate(rv.From)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("column %s: bad range start %q", colID, rv.From))
			continue
		}
		end, err := domain.ParseDate(rv.To)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("column %s: bad range end %q", colID, rv.To))
			continue
		}
		rec, err := domain.NewActivityRecord(domain.ActivityRecordInput{
			ProjectID:   item.ID,
			ProjectName: item.Name,
			Type:        domain.ActivityEditing,
			People:      people,
			Start:       start,
			End:         end,
		})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("column %s: %v", colID, err))
			continue
		}
		records = append(records, rec)
	}

	return records, warnings
}

// parsePeople splits the people column's display text on commas. Monday
// renders multi-person columns as "Name One, Name Two".
func parsePeople(item boardItem, columnID string) []string {
	col, ok := findColumn(item.ColumnValues, columnID)
	if !ok || strings.TrimSpace(col.Text) == "" {
		return nil
	}
	parts := strings.Split(col.Text, ",")
	people := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			people = append(people, name)
		}
	}
	return people
}
