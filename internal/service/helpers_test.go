package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/granthours/internal/audit"
	"github.com/alexanderramin/granthours/internal/db"
	"github.com/alexanderramin/granthours/internal/repository"
	"github.com/alexanderramin/granthours/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db         *sql.DB
	entries    *repository.SQLiteEntryRepo
	staff      *repository.SQLiteStaffRepo
	students   *repository.SQLiteStudentRepo
	caseloads  *repository.SQLiteCaseloadRepo
	activities *repository.SQLiteActivityRepo
	reports    *repository.SQLiteReportRepo
	locks      *db.LockManager
	uow        db.UnitOfWork
	sink       audit.Sink
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:         database,
		entries:    repository.NewSQLiteEntryRepo(database),
		staff:      repository.NewSQLiteStaffRepo(database),
		students:   repository.NewSQLiteStudentRepo(database),
		caseloads:  repository.NewSQLiteCaseloadRepo(database),
		activities: repository.NewSQLiteActivityRepo(database),
		reports:    repository.NewSQLiteReportRepo(database),
		locks:      db.NewLockManager(database),
		uow:        testutil.NewTestUoW(database),
		sink:       audit.NewSQLiteSink(database, nil),
	}
}

func (env *testEnv) newEntryService(cfg ValidationConfig) EntryService {
	return NewEntryService(
		env.entries, env.staff, env.students, env.caseloads, env.activities,
		env.reports, env.locks, env.uow, env.sink, cfg)
}

func (env *testEnv) newReportService(cfg ReportConfig) ReportService {
	return NewReportService(
		env.entries, env.activities, env.reports, env.locks, env.uow, env.sink, cfg)
}

// auditCount returns how many audit events carry the given action.
func (env *testEnv) auditCount(t *testing.T, action string) int {
	t.Helper()
	var n int
	require.NoError(t, env.db.QueryRow(
		`SELECT COUNT(*) FROM audit_log WHERE action = ?`, action).Scan(&n))
	return n
}

// shortWait keeps lock-contention tests fast.
const shortWait = 30 * time.Millisecond
