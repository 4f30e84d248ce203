package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/granthours/internal/db"
	"github.com/alexanderramin/granthours/internal/domain"
)

// SQLiteEntryRepo implements EntryRepo using a SQLite database.
type SQLiteEntryRepo struct {
	db db.DBTX
}

// NewSQLiteEntryRepo creates a new SQLiteEntryRepo.
func NewSQLiteEntryRepo(dbtx db.DBTX) *SQLiteEntryRepo {
	return &SQLiteEntryRepo{db: dbtx}
}

const entryColumns = `id, actor_id, date, minutes, activity_code, student_id, notes, start_minute, adjustment, adjusts_week, created_at`

func (r *SQLiteEntryRepo) Append(ctx context.Context, e *domain.WorklogEntry) error {
	query := `INSERT INTO worklog_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ActorID,
		e.Date.Format(time.DateOnly),
		e.Minutes,
		e.ActivityCode,
		e.StudentID,
		e.Notes,
		nullableIntToValue(e.StartMinute),
		boolToInt(e.Adjustment),
		nullableDateToString(e.AdjustsWeek),
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("appending worklog entry: %w", err)
	}
	return nil
}

func (r *SQLiteEntryRepo) GetByID(ctx context.Context, id string) (*domain.WorklogEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM worklog_entries WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanEntry(row)
}

func (r *SQLiteEntryRepo) ListByActorDate(ctx context.Context, actorID string, date time.Time) ([]*domain.WorklogEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM worklog_entries
		WHERE actor_id = ? AND date = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, actorID, date.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("listing entries by actor and date: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteEntryRepo) ScanWindow(ctx context.Context, start, end time.Time) ([]*domain.WorklogEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM worklog_entries
		WHERE date >= ? AND date <= ? ORDER BY date, actor_id, created_at, id`
	rows, err := r.db.QueryContext(ctx, query, start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("scanning entry window: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteEntryRepo) scanEntry(row *sql.Row) (*domain.WorklogEntry, error) {
	var e domain.WorklogEntry
	var dateStr, createdAtStr string
	var startMinute sql.NullInt64
	var adjustment int
	var adjustsWeek sql.NullString

	err := row.Scan(
		&e.ID, &e.ActorID, &dateStr, &e.Minutes, &e.ActivityCode,
		&e.StudentID, &e.Notes, &startMinute, &adjustment, &adjustsWeek, &createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("worklog entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning worklog entry: %w", err)
	}
	return r.populateEntry(&e, dateStr, createdAtStr, startMinute, adjustment, adjustsWeek)
}

func (r *SQLiteEntryRepo) scanEntries(rows *sql.Rows) ([]*domain.WorklogEntry, error) {
	var entries []*domain.WorklogEntry
	for rows.Next() {
		var e domain.WorklogEntry
		var dateStr, createdAtStr string
		var startMinute sql.NullInt64
		var adjustment int
		var adjustsWeek sql.NullString

		err := rows.Scan(
			&e.ID, &e.ActorID, &dateStr, &e.Minutes, &e.ActivityCode,
			&e.StudentID, &e.Notes, &startMinute, &adjustment, &adjustsWeek, &createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning entry row: %w", err)
		}

		entry, popErr := r.populateEntry(&e, dateStr, createdAtStr, startMinute, adjustment, adjustsWeek)
		if popErr != nil {
			return nil, popErr
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteEntryRepo) populateEntry(e *domain.WorklogEntry, dateStr, createdAtStr string, startMinute sql.NullInt64, adjustment int, adjustsWeek sql.NullString) (*domain.WorklogEntry, error) {
	var parseErr error
	e.Date, parseErr = time.Parse(time.DateOnly, dateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing entry date: %w", parseErr)
	}
	e.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	if startMinute.Valid {
		v := int(startMinute.Int64)
		e.StartMinute = &v
	}
	e.Adjustment = intToBool(adjustment)
	e.AdjustsWeek = parseNullableDate(adjustsWeek)
	return e, nil
}
