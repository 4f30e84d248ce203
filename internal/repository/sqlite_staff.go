package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/granthours/internal/db"
	"github.com/alexanderramin/granthours/internal/domain"
)

// SQLiteStaffRepo implements StaffRepo using a SQLite database.
type SQLiteStaffRepo struct {
	db db.DBTX
}

// NewSQLiteStaffRepo creates a new SQLiteStaffRepo.
func NewSQLiteStaffRepo(dbtx db.DBTX) *SQLiteStaffRepo {
	return &SQLiteStaffRepo{db: dbtx}
}

func (r *SQLiteStaffRepo) Create(ctx context.Context, s *domain.StaffMember) error {
	query := `INSERT INTO staff (id, email, name, role, building, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Email, s.Name, s.Role, s.Building, boolToInt(s.Active),
		s.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting staff member: %w", err)
	}
	return nil
}

func (r *SQLiteStaffRepo) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	query := `SELECT id, email, name, role, building, active, created_at FROM staff WHERE id = ?`
	return r.scanStaff(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	query := `SELECT id, email, name, role, building, active, created_at FROM staff WHERE email = ?`
	return r.scanStaff(r.db.QueryRowContext(ctx, query, email))
}

func (r *SQLiteStaffRepo) List(ctx context.Context, activeOnly bool) ([]*domain.StaffMember, error) {
	query := `SELECT id, email, name, role, building, active, created_at FROM staff`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing staff: %w", err)
	}
	defer rows.Close()

	var members []*domain.StaffMember
	for rows.Next() {
		var s domain.StaffMember
		var active int
		var createdAtStr string
		if err := rows.Scan(&s.ID, &s.Email, &s.Name, &s.Role, &s.Building, &active, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning staff row: %w", err)
		}
		s.Active = intToBool(active)
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
		members = append(members, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating staff: %w", err)
	}
	return members, nil
}

func (r *SQLiteStaffRepo) scanStaff(row *sql.Row) (*domain.StaffMember, error) {
	var s domain.StaffMember
	var active int
	var createdAtStr string
	err := row.Scan(&s.ID, &s.Email, &s.Name, &s.Role, &s.Building, &active, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("staff member: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning staff member: %w", err)
	}
	s.Active = intToBool(active)
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	return &s, nil
}

// SQLiteStudentRepo implements StudentRepo using a SQLite database.
type SQLiteStudentRepo struct {
	db db.DBTX
}

// NewSQLiteStudentRepo creates a new SQLiteStudentRepo.
func NewSQLiteStudentRepo(dbtx db.DBTX) *SQLiteStudentRepo {
	return &SQLiteStudentRepo{db: dbtx}
}

func (r *SQLiteStudentRepo) Create(ctx context.Context, s *domain.Student) error {
	query := `INSERT INTO students (id, name, building, active, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Building, boolToInt(s.Active), s.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting student: %w", err)
	}
	return nil
}

func (r *SQLiteStudentRepo) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	query := `SELECT id, name, building, active, created_at FROM students WHERE id = ?`
	var s domain.Student
	var active int
	var createdAtStr string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Building, &active, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("student: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning student: %w", err)
	}
	s.Active = intToBool(active)
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	return &s, nil
}
