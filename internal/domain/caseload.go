package domain

import "time"

// CaseloadAssignment links an actor to a subject for an effective-dated
// interval. A nil EndDate means the assignment is still in effect.
type CaseloadAssignment struct {
	ID        string
	ActorID   string
	SubjectID string
	StartDate time.Time
	EndDate   *time.Time
	CreatedAt time.Time
}

// Covers reports whether the assignment authorizes work dated on the given
// day: StartDate <= date, and EndDate absent or >= date. An assignment with
// StartDate == EndDate == D covers exactly D.
func (a *CaseloadAssignment) Covers(date time.Time) bool {
	if date.Before(a.StartDate) {
		return false
	}
	if a.EndDate != nil && date.After(*a.EndDate) {
		return false
	}
	return true
}
