package domain

import (
	"fmt"
	"time"
)

// ReportRow is one (actor, category) aggregate line of a weekly report.
type ReportRow struct {
	ActorID      string
	Category     FundingCategory
	TotalMinutes int
	EntryCount   int
}

// WeeklyReport is the sealed aggregation artifact for one 7-day window
// ending on WeekEnd (inclusive). At most one report may ever exist per
// WeekEnd value; once sealed it is never mutated or deleted.
type WeeklyReport struct {
	ID               string
	WeekStart        time.Time
	WeekEnd          time.Time
	GeneratedAt      time.Time
	Sealed           bool
	Rows             []ReportRow
	IncludedEntryIDs []string
}

// Name returns the report's naming key, e.g. "Compliance - Week 2024-03-08".
func (r *WeeklyReport) Name(prefix string) string {
	return fmt.Sprintf("%s - Week %s", prefix, r.WeekEnd.Format(time.DateOnly))
}
