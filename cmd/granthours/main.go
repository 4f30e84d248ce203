package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexanderramin/granthours/internal/audit"
	"github.com/alexanderramin/granthours/internal/cli"
	"github.com/alexanderramin/granthours/internal/config"
	"github.com/alexanderramin/granthours/internal/db"
	"github.com/alexanderramin/granthours/internal/repository"
	"github.com/alexanderramin/granthours/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("GRANTHOURS_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	entryRepo := repository.NewSQLiteEntryRepo(database)
	staffRepo := repository.NewSQLiteStaffRepo(database)
	studentRepo := repository.NewSQLiteStudentRepo(database)
	caseloadRepo := repository.NewSQLiteCaseloadRepo(database)
	activityRepo := repository.NewSQLiteActivityRepo(database)
	reportRepo := repository.NewSQLiteReportRepo(database)

	locks := db.NewLockManager(database)
	uow := db.NewSQLiteUnitOfWork(database)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	sink := audit.NewSQLiteSink(database, logger)

	// Observe use-case execution only on an interactive terminal; piped
	// output stays clean for scripting.
	var observers []service.UseCaseObserver
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	entrySvc := service.NewEntryService(
		entryRepo, staffRepo, studentRepo, caseloadRepo, activityRepo,
		reportRepo, locks, uow, sink,
		service.ValidationConfig{
			MaxFutureDays:  cfg.Validation.MaxFutureDays,
			RoleActivities: cfg.Validation.RoleActivities,
			LockWait:       cfg.Validation.LockWait,
		},
		observers...,
	)
	reportSvc := service.NewReportService(
		entryRepo, activityRepo, reportRepo, locks, uow, sink,
		service.ReportConfig{
			Prefix:   cfg.Report.Prefix,
			LockWait: cfg.Report.LockWait,
		},
		observers...,
	)

	app := &cli.App{
		Entries:    entrySvc,
		Reports:    reportSvc,
		Staff:      staffRepo,
		Students:   studentRepo,
		Caseloads:  caseloadRepo,
		Activities: activityRepo,

		ReportPrefix:      cfg.Report.Prefix,
		AutoCloseSchedule: cfg.AutoClose.Schedule,
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
