package domain

import "time"

// ScheduleEntry tracks the recurring scrape timer for one site. One entry
// per site; installing a second schedule replaces the first.
type ScheduleEntry struct {
	SiteID         int64
	Interval       time.Duration
	Active         bool
	LastRun        *time.Time
	NextRun        *time.Time
	TotalRuns      int
	SuccessfulRuns int
}
