package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/granthours/internal/domain"
)

// ErrBadWeekEnding marks a malformed week-ending date: a non-retryable
// input defect, as opposed to a transient lock timeout.
var ErrBadWeekEnding = errors.New("malformed week-ending date")

// ValidationResult is the structured outcome of validating one candidate
// entry. All defects are collected, never short-circuited, so the caller
// sees every problem at once. Warnings flag best-effort degradations
// (e.g. a skipped overlap check) that do not block the entry.
type ValidationResult struct {
	Accepted bool
	Errors   []string
	Warnings []string
}

// CloseStatus distinguishes a fresh closure from an idempotent no-op.
type CloseStatus string

const (
	CloseCreated       CloseStatus = "created"
	CloseAlreadyClosed CloseStatus = "already_closed"
)

// CloseResult is the outcome of a week-close request. AlreadyClosed is a
// success, not an error: retried closure requests must not fail loudly.
type CloseResult struct {
	Status CloseStatus
	Report *domain.WeeklyReport
}

// ValidationConfig tunes the validation engine. Injected at construction
// time; there is no process-wide settings object.
type ValidationConfig struct {
	// MaxFutureDays is how far in the future an entry may be dated.
	MaxFutureDays int
	// RoleActivities optionally restricts which activity codes a role may
	// log. An absent role key means the role is unrestricted; the catalog's
	// allowable=false always overrides a role grant.
	RoleActivities map[string][]string
	// LockWait bounds how long an entry append waits for the store lock.
	LockWait time.Duration
}

// ReportConfig tunes week closure.
type ReportConfig struct {
	// Prefix names report artifacts: "<prefix> - Week <date>".
	Prefix string
	// LockWait bounds how long a closure waits for the store lock.
	LockWait time.Duration
}

type EntryService interface {
	// Validate checks a candidate entry without persisting anything.
	Validate(ctx context.Context, e *domain.WorklogEntry) (*ValidationResult, error)
	// Log validates and, if accepted, appends the entry under the store lock.
	Log(ctx context.Context, e *domain.WorklogEntry) (*ValidationResult, error)
	// LogAdjustment appends a compensating entry for an already-closed week.
	LogAdjustment(ctx context.Context, e *domain.WorklogEntry, weekEnding time.Time) (*ValidationResult, error)
	// ListWeek returns the entries dated within the 7-day window ending on weekEnding.
	ListWeek(ctx context.Context, weekEnding time.Time) ([]*domain.WorklogEntry, error)
}

type ReportService interface {
	// CloseWeek runs the week-close state machine for the given
	// week-ending date (YYYY-MM-DD).
	CloseWeek(ctx context.Context, weekEnding string) (*CloseResult, error)
	Get(ctx context.Context, weekEnding time.Time) (*domain.WeeklyReport, error)
	List(ctx context.Context) ([]*domain.WeeklyReport, error)
}
