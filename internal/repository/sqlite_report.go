package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/granthours/internal/db"
	"github.com/alexanderramin/granthours/internal/domain"
)

// SQLiteReportRepo implements ReportRepo using a SQLite database. Sealed
// reports are additionally guarded by storage triggers that abort any
// UPDATE or DELETE against them.
type SQLiteReportRepo struct {
	db db.DBTX
}

// NewSQLiteReportRepo creates a new SQLiteReportRepo.
func NewSQLiteReportRepo(dbtx db.DBTX) *SQLiteReportRepo {
	return &SQLiteReportRepo{db: dbtx}
}

func (r *SQLiteReportRepo) Exists(ctx context.Context, weekEnd time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM weekly_reports WHERE week_end = ?`,
		weekEnd.Format(time.DateOnly)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking report existence: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteReportRepo) Create(ctx context.Context, rep *domain.WeeklyReport) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO weekly_reports (id, week_start, week_end, generated_at, sealed)
		VALUES (?, ?, ?, ?, 0)`,
		rep.ID,
		rep.WeekStart.Format(time.DateOnly),
		rep.WeekEnd.Format(time.DateOnly),
		rep.GeneratedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting weekly report: %w", err)
	}

	for i, row := range rep.Rows {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO weekly_report_rows (report_id, actor_id, category, total_minutes, entry_count, position)
			VALUES (?, ?, ?, ?, ?, ?)`,
			rep.ID, row.ActorID, string(row.Category), row.TotalMinutes, row.EntryCount, i)
		if err != nil {
			return fmt.Errorf("inserting report row: %w", err)
		}
	}
	for _, entryID := range rep.IncludedEntryIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO weekly_report_entries (report_id, entry_id) VALUES (?, ?)`,
			rep.ID, entryID)
		if err != nil {
			return fmt.Errorf("inserting report inclusion: %w", err)
		}
	}
	return nil
}

// Seal marks the report immutable. The WHERE clause makes sealing
// idempotent: an already-sealed report is left untouched rather than
// tripping the immutability trigger.
func (r *SQLiteReportRepo) Seal(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE weekly_reports SET sealed = 1 WHERE id = ? AND sealed = 0`, id)
	if err != nil {
		return fmt.Errorf("sealing weekly report: %w", err)
	}
	return nil
}

func (r *SQLiteReportRepo) GetByWeekEnd(ctx context.Context, weekEnd time.Time) (*domain.WeeklyReport, error) {
	var rep domain.WeeklyReport
	var startStr, endStr, generatedStr string
	var sealed int
	err := r.db.QueryRowContext(ctx,
		`SELECT id, week_start, week_end, generated_at, sealed FROM weekly_reports WHERE week_end = ?`,
		weekEnd.Format(time.DateOnly)).
		Scan(&rep.ID, &startStr, &endStr, &generatedStr, &sealed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("weekly report: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning weekly report: %w", err)
	}
	if err := r.populateReport(&rep, startStr, endStr, generatedStr, sealed); err != nil {
		return nil, err
	}
	if err := r.loadRows(ctx, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *SQLiteReportRepo) List(ctx context.Context) ([]*domain.WeeklyReport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, week_start, week_end, generated_at, sealed FROM weekly_reports ORDER BY week_end DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing weekly reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.WeeklyReport
	for rows.Next() {
		var rep domain.WeeklyReport
		var startStr, endStr, generatedStr string
		var sealed int
		if err := rows.Scan(&rep.ID, &startStr, &endStr, &generatedStr, &sealed); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		if err := r.populateReport(&rep, startStr, endStr, generatedStr, sealed); err != nil {
			return nil, err
		}
		reports = append(reports, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weekly reports: %w", err)
	}
	return reports, nil
}

func (r *SQLiteReportRepo) populateReport(rep *domain.WeeklyReport, startStr, endStr, generatedStr string, sealed int) error {
	var parseErr error
	rep.WeekStart, parseErr = time.Parse(time.DateOnly, startStr)
	if parseErr != nil {
		return fmt.Errorf("parsing week start: %w", parseErr)
	}
	rep.WeekEnd, parseErr = time.Parse(time.DateOnly, endStr)
	if parseErr != nil {
		return fmt.Errorf("parsing week end: %w", parseErr)
	}
	rep.GeneratedAt, parseErr = time.Parse(time.RFC3339, generatedStr)
	if parseErr != nil {
		return fmt.Errorf("parsing generated_at: %w", parseErr)
	}
	rep.Sealed = intToBool(sealed)
	return nil
}

func (r *SQLiteReportRepo) loadRows(ctx context.Context, rep *domain.WeeklyReport) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT actor_id, category, total_minutes, entry_count
		FROM weekly_report_rows WHERE report_id = ? ORDER BY position`, rep.ID)
	if err != nil {
		return fmt.Errorf("loading report rows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row domain.ReportRow
		var category string
		if err := rows.Scan(&row.ActorID, &category, &row.TotalMinutes, &row.EntryCount); err != nil {
			return fmt.Errorf("scanning report row: %w", err)
		}
		row.Category = domain.FundingCategory(category)
		rep.Rows = append(rep.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating report rows: %w", err)
	}

	incRows, err := r.db.QueryContext(ctx,
		`SELECT entry_id FROM weekly_report_entries WHERE report_id = ? ORDER BY entry_id`, rep.ID)
	if err != nil {
		return fmt.Errorf("loading report inclusions: %w", err)
	}
	defer incRows.Close()
	for incRows.Next() {
		var id string
		if err := incRows.Scan(&id); err != nil {
			return fmt.Errorf("scanning inclusion row: %w", err)
		}
		rep.IncludedEntryIDs = append(rep.IncludedEntryIDs, id)
	}
	if err := incRows.Err(); err != nil {
		return fmt.Errorf("iterating report inclusions: %w", err)
	}
	return nil
}
