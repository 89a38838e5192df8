package allocate

import (
	"time"

	"github.com/hylla/tidrapport/internal/domain"
)

// Calculate runs the full pipeline for one month: schedule building,
// conflict resolution, aggregation. The records themselves are not modified.
func Calculate(records []domain.ActivityRecord, month domain.Month, asOf time.Time, rules Rules) *domain.SummarySet {
	if !rules.Valid() {
		rules = DefaultRules()
	}
	demands := BuildSchedule(records, month, rules)
	resolved := Resolve(demands, rules)
	return Aggregate(resolved, month, asOf)
}
