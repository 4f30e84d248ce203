package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/granthours/internal/db"
	"github.com/alexanderramin/granthours/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

// NewSQLiteActivityRepo creates a new SQLiteActivityRepo.
func NewSQLiteActivityRepo(dbtx db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: dbtx}
}

func (r *SQLiteActivityRepo) Upsert(ctx context.Context, d *domain.ActivityDefinition) error {
	query := `INSERT INTO activity_catalog (code, label, allowable, funding_category)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE
		SET label = excluded.label,
		    allowable = excluded.allowable,
		    funding_category = excluded.funding_category`
	_, err := r.db.ExecContext(ctx, query, d.Code, d.Label, boolToInt(d.Allowable), d.FundingCategory)
	if err != nil {
		return fmt.Errorf("upserting activity definition: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) GetByCode(ctx context.Context, code string) (*domain.ActivityDefinition, error) {
	query := `SELECT code, label, allowable, funding_category FROM activity_catalog WHERE code = ?`
	var d domain.ActivityDefinition
	var allowable int
	err := r.db.QueryRowContext(ctx, query, code).Scan(&d.Code, &d.Label, &allowable, &d.FundingCategory)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("activity %q: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning activity definition: %w", err)
	}
	d.Allowable = intToBool(allowable)
	return &d, nil
}

func (r *SQLiteActivityRepo) List(ctx context.Context) ([]domain.ActivityDefinition, error) {
	query := `SELECT code, label, allowable, funding_category FROM activity_catalog ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing activity catalog: %w", err)
	}
	defer rows.Close()

	var defs []domain.ActivityDefinition
	for rows.Next() {
		var d domain.ActivityDefinition
		var allowable int
		if err := rows.Scan(&d.Code, &d.Label, &allowable, &d.FundingCategory); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		d.Allowable = intToBool(allowable)
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity catalog: %w", err)
	}
	return defs, nil
}
