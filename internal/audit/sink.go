// Package audit provides the append-only audit trail. Recording is
// best-effort by contract: a sink never returns an error to the caller,
// so pipeline logic cannot fail because auditing failed.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/alexanderramin/granthours/internal/db"
)

// Sink records structured audit events.
type Sink interface {
	Record(ctx context.Context, action string, payload map[string]any)
}

// NoopSink ignores all events.
type NoopSink struct{}

func (NoopSink) Record(context.Context, string, map[string]any) {}

// SQLiteSink appends audit events to the audit_log table. Write failures
// are logged and swallowed. A nil *SQLiteSink is safe to call.
type SQLiteSink struct {
	db     db.DBTX
	logger *slog.Logger
}

// NewSQLiteSink creates a sink writing to the given database. logger may be
// nil, in which case write failures are dropped silently.
func NewSQLiteSink(dbtx db.DBTX, logger *slog.Logger) *SQLiteSink {
	return &SQLiteSink{db: dbtx, logger: logger}
}

func (s *SQLiteSink) Record(ctx context.Context, action string, payload map[string]any) {
	if s == nil || s.db == nil {
		return
	}
	data := []byte("{}")
	if payload != nil {
		if marshaled, err := json.Marshal(payload); err == nil {
			data = marshaled
		}
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (action, payload, recorded_at) VALUES (?, ?, ?)`,
		action, string(data), time.Now().UTC().Format(time.RFC3339)); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit_write_failed", "action", action, "error", err.Error())
	}
}
