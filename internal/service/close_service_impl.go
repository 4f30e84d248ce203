package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/granthours/internal/audit"
	"github.com/alexanderramin/granthours/internal/classifier"
	"github.com/alexanderramin/granthours/internal/db"
	"github.com/alexanderramin/granthours/internal/domain"
	"github.com/alexanderramin/granthours/internal/repository"
	"github.com/google/uuid"
)

type reportService struct {
	entries    repository.EntryRepo
	activities repository.ActivityRepo
	reports    repository.ReportRepo
	locks      *db.LockManager
	uow        db.UnitOfWork
	audit      audit.Sink
	cfg        ReportConfig
	observer   UseCaseObserver
}

// NewReportService wires the week-close state machine.
func NewReportService(
	entries repository.EntryRepo,
	activities repository.ActivityRepo,
	reports repository.ReportRepo,
	locks *db.LockManager,
	uow db.UnitOfWork,
	sink audit.Sink,
	cfg ReportConfig,
	observers ...UseCaseObserver,
) ReportService {
	if cfg.Prefix == "" {
		cfg.Prefix = "Compliance"
	}
	if cfg.LockWait <= 0 {
		cfg.LockWait = 20 * time.Second
	}
	if sink == nil {
		sink = audit.NoopSink{}
	}
	return &reportService{
		entries:    entries,
		activities: activities,
		reports:    reports,
		locks:      locks,
		uow:        uow,
		audit:      sink,
		cfg:        cfg,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *reportService) CloseWeek(ctx context.Context, weekEnding string) (*CloseResult, error) {
	started := time.Now()
	result, err := s.closeWeek(ctx, weekEnding)

	fields := map[string]any{"week_ending": weekEnding}
	if result != nil {
		fields["status"] = string(result.Status)
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "week.close",
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: started,
	})
	return result, err
}

// closeWeek drives the OPEN -> CLOSING -> CLOSED transition. Closure is
// one-way: once a report exists for a week-ending date, every later call
// is an idempotent no-op.
func (s *reportService) closeWeek(ctx context.Context, weekEnding string) (result *CloseResult, err error) {
	weekEnd, parseErr := time.Parse(time.DateOnly, strings.TrimSpace(weekEnding))
	if parseErr != nil {
		s.audit.Record(ctx, "close.error", map[string]any{
			"week_ending": weekEnding,
			"error":       "malformed week-ending date",
		})
		return nil, fmt.Errorf("%w: %q", ErrBadWeekEnding, weekEnding)
	}
	weekStart := weekEnd.AddDate(0, 0, -6)

	token, err := s.locks.Acquire(ctx, db.EntryStoreLock, s.cfg.LockWait)
	if err != nil {
		// Lock timeout leaves the week OPEN; the caller simply retries.
		return nil, err
	}
	defer func() { _ = s.locks.Release(ctx, token) }()
	defer func() {
		if err != nil {
			s.audit.Record(ctx, "close.error", map[string]any{
				"week_ending": weekEnd.Format(time.DateOnly),
				"error":       err.Error(),
			})
		}
	}()

	s.audit.Record(ctx, "close.started", map[string]any{
		"week_start":  weekStart.Format(time.DateOnly),
		"week_ending": weekEnd.Format(time.DateOnly),
	})

	exists, err := s.reports.Exists(ctx, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("checking duplicate closure: %w", err)
	}
	if exists {
		report, getErr := s.reports.GetByWeekEnd(ctx, weekEnd)
		if getErr != nil {
			err = fmt.Errorf("loading existing report: %w", getErr)
			return nil, err
		}
		s.audit.Record(ctx, "close.duplicate", map[string]any{
			"week_ending": weekEnd.Format(time.DateOnly),
		})
		return &CloseResult{Status: CloseAlreadyClosed, Report: report}, nil
	}

	// An unreadable catalog degrades every entry to UNCLASSIFIED rather
	// than failing the closure; the degradation is audited once.
	var catalog classifier.Catalog
	if defs, catErr := s.activities.List(ctx); catErr != nil {
		s.audit.Record(ctx, "close.catalog_unreadable", map[string]any{"error": catErr.Error()})
	} else {
		catalog = classifier.BuildCatalog(defs)
	}

	// A missing entry table is fatal: no partial report is created.
	entries, err := s.entries.ScanWindow(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("scanning entries: %w", err)
	}

	type groupKey struct {
		actor    string
		category domain.FundingCategory
	}
	totals := make(map[groupKey]*domain.ReportRow)
	var included []string
	actors := make(map[string]bool)

	for _, e := range entries {
		// Defensive filter against malformed legacy rows.
		if e.ID == "" || e.ActorID == "" || e.Minutes <= 0 {
			continue
		}
		c := classifier.Classify(e, catalog)
		key := groupKey{actor: e.ActorID, category: c.Category}
		row, ok := totals[key]
		if !ok {
			row = &domain.ReportRow{ActorID: e.ActorID, Category: c.Category}
			totals[key] = row
		}
		row.TotalMinutes += c.Minutes
		row.EntryCount++
		included = append(included, e.ID)
		actors[e.ActorID] = true
	}

	rows := make([]domain.ReportRow, 0, len(totals))
	for _, row := range totals {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		ai, aj := strings.ToLower(rows[i].ActorID), strings.ToLower(rows[j].ActorID)
		if ai != aj {
			return ai < aj
		}
		return rows[i].Category < rows[j].Category
	})

	report := &domain.WeeklyReport{
		ID:               uuid.New().String(),
		WeekStart:        weekStart,
		WeekEnd:          weekEnd,
		GeneratedAt:      time.Now().UTC(),
		Rows:             rows,
		IncludedEntryIDs: included,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txReports := repository.NewSQLiteReportRepo(tx)
		if err := txReports.Create(ctx, report); err != nil {
			return err
		}
		return txReports.Seal(ctx, report.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("materializing report: %w", err)
	}
	report.Sealed = true

	s.audit.Record(ctx, "close.finished", map[string]any{
		"week_ending":        weekEnd.Format(time.DateOnly),
		"report_id":          report.ID,
		"actor_count":        len(actors),
		"row_count":          len(rows),
		"entry_count":        len(included),
		"included_entry_ids": included,
	})
	return &CloseResult{Status: CloseCreated, Report: report}, nil
}

func (s *reportService) Get(ctx context.Context, weekEnding time.Time) (*domain.WeeklyReport, error) {
	return s.reports.GetByWeekEnd(ctx, weekEnding)
}

func (s *reportService) List(ctx context.Context) ([]*domain.WeeklyReport, error) {
	return s.reports.List(ctx)
}
