package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is IF NOT EXISTS,
// so the full list re-runs safely on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS staff (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT '',
		building   TEXT NOT NULL DEFAULT '',
		active     INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_staff_email ON staff(email) WHERE email != ''`,

	`CREATE TABLE IF NOT EXISTS students (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		building   TEXT NOT NULL DEFAULT '',
		active     INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS activity_catalog (
		code             TEXT PRIMARY KEY,
		label            TEXT NOT NULL DEFAULT '',
		allowable        INTEGER NOT NULL DEFAULT 1,
		funding_category TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS caseload_assignments (
		id         TEXT PRIMARY KEY,
		actor_id   TEXT NOT NULL REFERENCES staff(id) ON DELETE CASCADE,
		subject_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		start_date TEXT NOT NULL,
		end_date   TEXT,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_caseload_actor ON caseload_assignments(actor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_caseload_subject ON caseload_assignments(subject_id)`,

	`CREATE TABLE IF NOT EXISTS worklog_entries (
		id            TEXT PRIMARY KEY,
		actor_id      TEXT NOT NULL,
		date          TEXT NOT NULL,
		minutes       INTEGER NOT NULL,
		activity_code TEXT NOT NULL,
		student_id    TEXT NOT NULL DEFAULT '',
		notes         TEXT NOT NULL DEFAULT '',
		start_minute  INTEGER,
		adjustment    INTEGER NOT NULL DEFAULT 0,
		adjusts_week  TEXT,
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_entries_date ON worklog_entries(date)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_actor_date ON worklog_entries(actor_id, date)`,

	`CREATE TABLE IF NOT EXISTS weekly_reports (
		id           TEXT PRIMARY KEY,
		week_start   TEXT NOT NULL,
		week_end     TEXT NOT NULL UNIQUE,
		generated_at TEXT NOT NULL,
		sealed       INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS weekly_report_rows (
		report_id     TEXT NOT NULL REFERENCES weekly_reports(id) ON DELETE CASCADE,
		actor_id      TEXT NOT NULL,
		category      TEXT NOT NULL
		              CHECK(category IN ('IN_GRANT','OUT_OF_GRANT','UNCLASSIFIED')),
		total_minutes INTEGER NOT NULL,
		entry_count   INTEGER NOT NULL,
		position      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (report_id, actor_id, category)
	)`,

	`CREATE TABLE IF NOT EXISTS weekly_report_entries (
		report_id TEXT NOT NULL REFERENCES weekly_reports(id) ON DELETE CASCADE,
		entry_id  TEXT NOT NULL,
		PRIMARY KEY (report_id, entry_id)
	)`,

	// Sealed reports are immutable at the storage layer: UPDATE and DELETE
	// are denied once sealed, and row/inclusion tables are frozen with them.
	`CREATE TRIGGER IF NOT EXISTS trg_reports_no_update
		BEFORE UPDATE ON weekly_reports
		FOR EACH ROW WHEN OLD.sealed = 1
	BEGIN
		SELECT RAISE(ABORT, 'weekly report is sealed');
	END`,

	`CREATE TRIGGER IF NOT EXISTS trg_reports_no_delete
		BEFORE DELETE ON weekly_reports
		FOR EACH ROW WHEN OLD.sealed = 1
	BEGIN
		SELECT RAISE(ABORT, 'weekly report is sealed');
	END`,

	`CREATE TRIGGER IF NOT EXISTS trg_report_rows_frozen_update
		BEFORE UPDATE ON weekly_report_rows
		FOR EACH ROW WHEN (SELECT sealed FROM weekly_reports WHERE id = OLD.report_id) = 1
	BEGIN
		SELECT RAISE(ABORT, 'weekly report is sealed');
	END`,

	`CREATE TRIGGER IF NOT EXISTS trg_report_rows_frozen_delete
		BEFORE DELETE ON weekly_report_rows
		FOR EACH ROW WHEN (SELECT sealed FROM weekly_reports WHERE id = OLD.report_id) = 1
	BEGIN
		SELECT RAISE(ABORT, 'weekly report is sealed');
	END`,

	`CREATE TRIGGER IF NOT EXISTS trg_report_rows_frozen_insert
		BEFORE INSERT ON weekly_report_rows
		FOR EACH ROW WHEN (SELECT sealed FROM weekly_reports WHERE id = NEW.report_id) = 1
	BEGIN
		SELECT RAISE(ABORT, 'weekly report is sealed');
	END`,

	`CREATE TRIGGER IF NOT EXISTS trg_report_entries_frozen_insert
		BEFORE INSERT ON weekly_report_entries
		FOR EACH ROW WHEN (SELECT sealed FROM weekly_reports WHERE id = NEW.report_id) = 1
	BEGIN
		SELECT RAISE(ABORT, 'weekly report is sealed');
	END`,

	`CREATE TRIGGER IF NOT EXISTS trg_report_entries_frozen_delete
		BEFORE DELETE ON weekly_report_entries
		FOR EACH ROW WHEN (SELECT sealed FROM weekly_reports WHERE id = OLD.report_id) = 1
	BEGIN
		SELECT RAISE(ABORT, 'weekly report is sealed');
	END`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		action      TEXT NOT NULL,
		payload     TEXT NOT NULL DEFAULT '{}',
		recorded_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS advisory_locks (
		name        TEXT PRIMARY KEY,
		token       TEXT NOT NULL,
		acquired_at TEXT NOT NULL
	)`,
}
