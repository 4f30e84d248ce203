package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/granthours/internal/audit"
	"github.com/alexanderramin/granthours/internal/db"
	"github.com/alexanderramin/granthours/internal/domain"
	"github.com/alexanderramin/granthours/internal/repository"
	"github.com/google/uuid"
)

type entryService struct {
	entries    repository.EntryRepo
	staff      repository.StaffRepo
	students   repository.StudentRepo
	caseloads  repository.CaseloadRepo
	activities repository.ActivityRepo
	reports    repository.ReportRepo
	locks      *db.LockManager
	uow        db.UnitOfWork
	audit      audit.Sink
	cfg        ValidationConfig
	observer   UseCaseObserver
}

// NewEntryService wires the validation engine and the lock-guarded entry
// append. The audit sink may be nil; auditing then becomes a no-op.
func NewEntryService(
	entries repository.EntryRepo,
	staff repository.StaffRepo,
	students repository.StudentRepo,
	caseloads repository.CaseloadRepo,
	activities repository.ActivityRepo,
	reports repository.ReportRepo,
	locks *db.LockManager,
	uow db.UnitOfWork,
	sink audit.Sink,
	cfg ValidationConfig,
	observers ...UseCaseObserver,
) EntryService {
	if cfg.MaxFutureDays <= 0 {
		cfg.MaxFutureDays = 7
	}
	if cfg.LockWait <= 0 {
		cfg.LockWait = 20 * time.Second
	}
	if sink == nil {
		sink = audit.NoopSink{}
	}
	return &entryService{
		entries:    entries,
		staff:      staff,
		students:   students,
		caseloads:  caseloads,
		activities: activities,
		reports:    reports,
		locks:      locks,
		uow:        uow,
		audit:      sink,
		cfg:        cfg,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func todayUTC() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// Validate runs every check against the candidate and collects all defects.
// Foreseeable bad data never produces an error return; only backing-store
// faults do, and those are audited separately from user rejections so
// operators can tell "bad data" from "system malfunction".
func (s *entryService) Validate(ctx context.Context, e *domain.WorklogEntry) (*ValidationResult, error) {
	res := &ValidationResult{}
	addErr := func(msg string) { res.Errors = append(res.Errors, msg) }

	// Required fields.
	if e.ActorID == "" {
		addErr("Actor is required.")
	}
	if e.Date.IsZero() {
		addErr("Entry date is required.")
	}
	if e.Minutes <= 0 || e.Minutes > domain.MinutesPerDay {
		addErr(fmt.Sprintf("Minutes must be between 1 and %d.", domain.MinutesPerDay))
	}
	if e.ActivityCode == "" {
		addErr("Activity code is required.")
	}

	// Activity existence. Validation blocks unknown codes; classification
	// only degrades them.
	var activity *domain.ActivityDefinition
	if e.ActivityCode != "" {
		def, err := s.activities.GetByCode(ctx, e.ActivityCode)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			addErr("Unknown activity code.")
		case err != nil:
			return nil, s.internalError(ctx, "looking up activity", err)
		default:
			activity = def
		}
	}

	// Actor eligibility.
	var actor *domain.StaffMember
	if e.ActorID != "" {
		member, err := s.staff.GetByID(ctx, e.ActorID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			addErr("Actor is not a known staff member.")
		case err != nil:
			return nil, s.internalError(ctx, "looking up actor", err)
		case !member.Active:
			addErr("Actor is not an active staff member.")
		default:
			actor = member
		}
	}

	// Allowability: catalog allowable=false always blocks; a configured
	// role map additionally restricts what the role may log.
	if activity != nil && !activity.Allowable {
		addErr(fmt.Sprintf("Activity %q is not allowable for logging.", e.ActivityCode))
	}
	if actor != nil && activity != nil && activity.Allowable && !s.roleMayLog(actor.Role, e.ActivityCode) {
		addErr(fmt.Sprintf("Role %q may not log activity %q.", actor.Role, e.ActivityCode))
	}

	// Subject linkage.
	if e.StudentID != "" {
		if err := s.validateSubject(ctx, e, actor, res); err != nil {
			return nil, err
		}
	}

	// Date reasonableness.
	if !e.Date.IsZero() {
		limit := todayUTC().AddDate(0, 0, s.cfg.MaxFutureDays)
		if e.Date.After(limit) {
			addErr(fmt.Sprintf("Entry date is more than %d days in the future.", s.cfg.MaxFutureDays))
		}
	}

	// Overlap detection, best-effort when a start time is derivable.
	if err := s.checkOverlap(ctx, e, res); err != nil {
		return nil, err
	}

	res.Accepted = len(res.Errors) == 0
	if !res.Accepted {
		s.audit.Record(ctx, "validation.rejected", map[string]any{
			"actor_id": e.ActorID,
			"date":     e.Date.Format(time.DateOnly),
			"errors":   res.Errors,
		})
	}
	return res, nil
}

func (s *entryService) roleMayLog(role, code string) bool {
	if s.cfg.RoleActivities == nil {
		return true
	}
	allowed, restricted := s.cfg.RoleActivities[role]
	if !restricted {
		return true
	}
	for _, c := range allowed {
		if c == code {
			return true
		}
	}
	return false
}

func (s *entryService) validateSubject(ctx context.Context, e *domain.WorklogEntry, actor *domain.StaffMember, res *ValidationResult) error {
	student, err := s.students.GetByID(ctx, e.StudentID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		res.Errors = append(res.Errors, "Unknown student.")
		return nil
	case err != nil:
		return s.internalError(ctx, "looking up student", err)
	}
	if !student.Active {
		res.Errors = append(res.Errors, "Student is not active.")
	}

	// Cross-building time is blocked outright rather than logged and
	// ignored; compliance reviewers prefer a false rejection.
	if actor != nil && actor.Building != "" && student.Building != "" && actor.Building != student.Building {
		res.Errors = append(res.Errors, fmt.Sprintf(
			"Actor building %q does not match student building %q.", actor.Building, student.Building))
	}

	if e.ActorID != "" && !e.Date.IsZero() {
		assignments, err := s.caseloads.ListForPair(ctx, e.ActorID, e.StudentID)
		if err != nil {
			return s.internalError(ctx, "listing caseload assignments", err)
		}
		covered := false
		for _, a := range assignments {
			if a.Covers(e.Date) {
				covered = true
				break
			}
		}
		if !covered {
			res.Errors = append(res.Errors, "Student is not on the actor's caseload for the entry date.")
		}
	}
	return nil
}

func (s *entryService) checkOverlap(ctx context.Context, e *domain.WorklogEntry, res *ValidationResult) error {
	if e.ActorID == "" || e.Date.IsZero() {
		return nil
	}
	if _, _, ok := e.StartWindow(); !ok {
		res.Warnings = append(res.Warnings, "No start time derivable; overlap check skipped.")
		s.audit.Record(ctx, "validation.overlap_skipped", map[string]any{
			"actor_id": e.ActorID,
			"date":     e.Date.Format(time.DateOnly),
		})
		return nil
	}

	existing, err := s.entries.ListByActorDate(ctx, e.ActorID, e.Date)
	if err != nil {
		return s.internalError(ctx, "scanning entries for overlap", err)
	}
	for _, other := range existing {
		if other.ID == e.ID {
			continue
		}
		if e.Overlaps(other) {
			start, end, _ := other.StartWindow()
			res.Errors = append(res.Errors, fmt.Sprintf(
				"Overlaps existing entry %s (%s-%s).", other.ID, minuteClock(start), minuteClock(end)))
		}
	}
	return nil
}

func minuteClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// internalError audits a system malfunction distinctly from a validation
// rejection, then propagates the wrapped fault.
func (s *entryService) internalError(ctx context.Context, op string, err error) error {
	s.audit.Record(ctx, "validation.internal_error", map[string]any{
		"op":    op,
		"error": err.Error(),
	})
	return fmt.Errorf("%s: %w", op, err)
}

func (s *entryService) Log(ctx context.Context, e *domain.WorklogEntry) (*ValidationResult, error) {
	started := time.Now()
	res, err := s.log(ctx, e, "entry.logged")
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "entry.log",
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"actor_id": e.ActorID},
		StartedAt: started,
	})
	return res, err
}

func (s *entryService) log(ctx context.Context, e *domain.WorklogEntry, action string) (*ValidationResult, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now().UTC()

	res, err := s.Validate(ctx, e)
	if err != nil {
		return nil, err
	}
	if !res.Accepted {
		return res, nil
	}

	// Entry writes share the store lock with week closure so a closure
	// never sees a half-appended week.
	token, err := s.locks.Acquire(ctx, db.EntryStoreLock, s.cfg.LockWait)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.locks.Release(ctx, token) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteEntryRepo(tx).Append(ctx, e)
	})
	if err != nil {
		s.audit.Record(ctx, "entry.append_failed", map[string]any{
			"entry_id": e.ID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("appending entry: %w", err)
	}

	payload := map[string]any{
		"entry_id": e.ID,
		"actor_id": e.ActorID,
		"date":     e.Date.Format(time.DateOnly),
		"minutes":  e.Minutes,
	}
	if e.AdjustsWeek != nil {
		payload["adjusts_week"] = e.AdjustsWeek.Format(time.DateOnly)
	}
	s.audit.Record(ctx, action, payload)
	return res, nil
}

// LogAdjustment appends a compensating record for a sealed week. The sealed
// artifact and its source entries are never touched; the adjustment is a new
// entry dated at correction time carrying a reference to the affected week.
func (s *entryService) LogAdjustment(ctx context.Context, e *domain.WorklogEntry, weekEnding time.Time) (*ValidationResult, error) {
	exists, err := s.reports.Exists(ctx, weekEnding)
	if err != nil {
		return nil, fmt.Errorf("checking report existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("no closed report for week ending %s", weekEnding.Format(time.DateOnly))
	}

	e.Adjustment = true
	week := weekEnding
	e.AdjustsWeek = &week
	if e.Date.IsZero() {
		e.Date = todayUTC()
	}

	started := time.Now()
	res, err := s.log(ctx, e, "entry.adjustment")
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "entry.adjust",
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"adjusts_week": weekEnding.Format(time.DateOnly)},
		StartedAt: started,
	})
	return res, err
}

func (s *entryService) ListWeek(ctx context.Context, weekEnding time.Time) ([]*domain.WorklogEntry, error) {
	start := weekEnding.AddDate(0, 0, -6)
	return s.entries.ScanWindow(ctx, start, weekEnding)
}
