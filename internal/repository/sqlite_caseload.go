package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/granthours/internal/db"
	"github.com/alexanderramin/granthours/internal/domain"
)

// SQLiteCaseloadRepo implements CaseloadRepo using a SQLite database.
type SQLiteCaseloadRepo struct {
	db db.DBTX
}

// NewSQLiteCaseloadRepo creates a new SQLiteCaseloadRepo.
func NewSQLiteCaseloadRepo(dbtx db.DBTX) *SQLiteCaseloadRepo {
	return &SQLiteCaseloadRepo{db: dbtx}
}

func (r *SQLiteCaseloadRepo) Create(ctx context.Context, a *domain.CaseloadAssignment) error {
	query := `INSERT INTO caseload_assignments (id, actor_id, subject_id, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ActorID,
		a.SubjectID,
		a.StartDate.Format(time.DateOnly),
		nullableDateToString(a.EndDate),
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting caseload assignment: %w", err)
	}
	return nil
}

func (r *SQLiteCaseloadRepo) ListForActor(ctx context.Context, actorID string) ([]*domain.CaseloadAssignment, error) {
	query := `SELECT id, actor_id, subject_id, start_date, end_date, created_at
		FROM caseload_assignments WHERE actor_id = ? ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, query, actorID)
	if err != nil {
		return nil, fmt.Errorf("listing caseload for actor: %w", err)
	}
	defer rows.Close()
	return r.scanAssignments(rows)
}

func (r *SQLiteCaseloadRepo) ListForPair(ctx context.Context, actorID, subjectID string) ([]*domain.CaseloadAssignment, error) {
	query := `SELECT id, actor_id, subject_id, start_date, end_date, created_at
		FROM caseload_assignments WHERE actor_id = ? AND subject_id = ? ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, query, actorID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("listing caseload for actor/subject pair: %w", err)
	}
	defer rows.Close()
	return r.scanAssignments(rows)
}

func (r *SQLiteCaseloadRepo) scanAssignments(rows *sql.Rows) ([]*domain.CaseloadAssignment, error) {
	var assignments []*domain.CaseloadAssignment
	for rows.Next() {
		var a domain.CaseloadAssignment
		var startStr, createdAtStr string
		var endStr sql.NullString
		if err := rows.Scan(&a.ID, &a.ActorID, &a.SubjectID, &startStr, &endStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning caseload row: %w", err)
		}
		start, err := time.Parse(time.DateOnly, startStr)
		if err != nil {
			return nil, fmt.Errorf("parsing assignment start date: %w", err)
		}
		a.StartDate = start
		a.EndDate = parseNullableDate(endStr)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating caseload assignments: %w", err)
	}
	return assignments, nil
}
