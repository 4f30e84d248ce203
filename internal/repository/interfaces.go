package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/granthours/internal/domain"
)

// EntryRepo is the append-only store of worklog entries. There is no update
// or delete: corrections to closed weeks arrive as new adjustment entries.
type EntryRepo interface {
	Append(ctx context.Context, e *domain.WorklogEntry) error
	GetByID(ctx context.Context, id string) (*domain.WorklogEntry, error)
	ListByActorDate(ctx context.Context, actorID string, date time.Time) ([]*domain.WorklogEntry, error)
	ScanWindow(ctx context.Context, start, end time.Time) ([]*domain.WorklogEntry, error)
}

type ActivityRepo interface {
	Upsert(ctx context.Context, d *domain.ActivityDefinition) error
	GetByCode(ctx context.Context, code string) (*domain.ActivityDefinition, error)
	List(ctx context.Context) ([]domain.ActivityDefinition, error)
}

type StaffRepo interface {
	Create(ctx context.Context, s *domain.StaffMember) error
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.StaffMember, error)
}

type StudentRepo interface {
	Create(ctx context.Context, s *domain.Student) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
}

type CaseloadRepo interface {
	Create(ctx context.Context, a *domain.CaseloadAssignment) error
	ListForActor(ctx context.Context, actorID string) ([]*domain.CaseloadAssignment, error)
	ListForPair(ctx context.Context, actorID, subjectID string) ([]*domain.CaseloadAssignment, error)
}

// ReportRepo stores sealed weekly report artifacts. Reports are created
// once per week-ending date and never updated or deleted; Seal flips the
// write-deny flag enforced by storage triggers.
type ReportRepo interface {
	Exists(ctx context.Context, weekEnd time.Time) (bool, error)
	Create(ctx context.Context, r *domain.WeeklyReport) error
	Seal(ctx context.Context, id string) error
	GetByWeekEnd(ctx context.Context, weekEnd time.Time) (*domain.WeeklyReport, error)
	List(ctx context.Context) ([]*domain.WeeklyReport, error)
}
