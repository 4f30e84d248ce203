package testutil

import (
	"time"

	"github.com/alexanderramin/granthours/internal/domain"
	"github.com/google/uuid"
)

// Staff options
type StaffOption func(*domain.StaffMember)

func WithRole(role string) StaffOption {
	return func(s *domain.StaffMember) { s.Role = role }
}

func WithBuilding(b string) StaffOption {
	return func(s *domain.StaffMember) { s.Building = b }
}

func WithInactiveStaff() StaffOption {
	return func(s *domain.StaffMember) { s.Active = false }
}

func NewTestStaff(name string, opts ...StaffOption) *domain.StaffMember {
	s := &domain.StaffMember{
		ID:        uuid.New().String(),
		Email:     name + "@district.test",
		Name:      name,
		Role:      "teacher",
		Building:  "North",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Student options
type StudentOption func(*domain.Student)

func WithStudentBuilding(b string) StudentOption {
	return func(s *domain.Student) { s.Building = b }
}

func WithInactiveStudent() StudentOption {
	return func(s *domain.Student) { s.Active = false }
}

func NewTestStudent(name string, opts ...StudentOption) *domain.Student {
	s := &domain.Student{
		ID:        uuid.New().String(),
		Name:      name,
		Building:  "North",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assignment options
type AssignmentOption func(*domain.CaseloadAssignment)

func WithEndDate(d time.Time) AssignmentOption {
	return func(a *domain.CaseloadAssignment) { a.EndDate = &d }
}

func NewTestAssignment(actorID, subjectID string, start time.Time, opts ...AssignmentOption) *domain.CaseloadAssignment {
	a := &domain.CaseloadAssignment{
		ID:        uuid.New().String(),
		ActorID:   actorID,
		SubjectID: subjectID,
		StartDate: start,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Activity options
type ActivityOption func(*domain.ActivityDefinition)

func WithLabel(label string) ActivityOption {
	return func(d *domain.ActivityDefinition) { d.Label = label }
}

func WithFunding(category string) ActivityOption {
	return func(d *domain.ActivityDefinition) { d.FundingCategory = category }
}

func NotAllowable() ActivityOption {
	return func(d *domain.ActivityDefinition) { d.Allowable = false }
}

func NewTestActivity(code string, opts ...ActivityOption) *domain.ActivityDefinition {
	d := &domain.ActivityDefinition{
		Code:            code,
		Label:           code,
		Allowable:       true,
		FundingCategory: "IN_GRANT",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Entry options
type EntryOption func(*domain.WorklogEntry)

func WithStudent(studentID string) EntryOption {
	return func(e *domain.WorklogEntry) { e.StudentID = studentID }
}

func WithNotes(notes string) EntryOption {
	return func(e *domain.WorklogEntry) { e.Notes = notes }
}

func WithStartMinute(m int) EntryOption {
	return func(e *domain.WorklogEntry) { e.StartMinute = &m }
}

func WithEntryID(id string) EntryOption {
	return func(e *domain.WorklogEntry) { e.ID = id }
}

func NewTestEntry(actorID string, date time.Time, minutes int, activityCode string, opts ...EntryOption) *domain.WorklogEntry {
	e := &domain.WorklogEntry{
		ID:           uuid.New().String(),
		ActorID:      actorID,
		Date:         date,
		Minutes:      minutes,
		ActivityCode: activityCode,
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Day parses a YYYY-MM-DD string, panicking on bad input. Test-only.
func Day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}
