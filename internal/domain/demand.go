package domain

import "time"

// DailyDemand is one person's claim on one project for one calendar day.
// The schedule builder emits it with the activity's nominal hours; the
// conflict resolver rewrites Hours with the capped share. Discarded after
// aggregation.
type DailyDemand struct {
	Person      string
	Day         time.Time
	ProjectID   string
	ProjectName string
	Hours       float64
}
