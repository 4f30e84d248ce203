package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrLockTimeout is returned when a lock cannot be acquired within the
// caller's wait ceiling. The caller's operation has not run and is safe
// to retry.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// EntryStoreLock is the lock name guarding all writes to the entry store,
// shared by entry appends and week closure.
const EntryStoreLock = "entry_store"

const (
	defaultPollInterval = 250 * time.Millisecond
	defaultStaleAfter   = 5 * time.Minute
)

// LockManager provides bounded-wait exclusive locks backed by the
// advisory_locks table. Lock rows left behind by a crashed holder are
// reclaimed after a staleness window.
type LockManager struct {
	db         *sql.DB
	poll       time.Duration
	staleAfter time.Duration
}

// NewLockManager creates a LockManager with default polling and staleness.
func NewLockManager(db *sql.DB) *LockManager {
	return &LockManager{db: db, poll: defaultPollInterval, staleAfter: defaultStaleAfter}
}

// Acquire blocks up to wait for the named lock and returns an opaque token
// on success. Returns ErrLockTimeout when the wait ceiling elapses.
func (m *LockManager) Acquire(ctx context.Context, name string, wait time.Duration) (string, error) {
	token := uuid.New().String()
	deadline := time.Now().Add(wait)

	for {
		ok, err := m.tryAcquire(ctx, name, token)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
		if !time.Now().Before(deadline) {
			return "", fmt.Errorf("lock %q: %w", name, ErrLockTimeout)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.poll):
		}
	}
}

// Release frees the lock held by token. Idempotent: releasing an unknown or
// already-released token is a no-op.
func (m *LockManager) Release(ctx context.Context, token string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM advisory_locks WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}

func (m *LockManager) tryAcquire(ctx context.Context, name, token string) (bool, error) {
	now := time.Now().UTC()

	// Reclaim a lock abandoned by a crashed holder.
	var heldToken, acquiredAt string
	err := m.db.QueryRowContext(ctx,
		`SELECT token, acquired_at FROM advisory_locks WHERE name = ?`, name).
		Scan(&heldToken, &acquiredAt)
	switch {
	case err == sql.ErrNoRows:
		// free
	case err != nil:
		return false, fmt.Errorf("reading lock row: %w", err)
	default:
		held, parseErr := time.Parse(time.RFC3339Nano, acquiredAt)
		if parseErr != nil || now.Sub(held) > m.staleAfter {
			if _, err := m.db.ExecContext(ctx,
				`DELETE FROM advisory_locks WHERE name = ? AND token = ?`, name, heldToken); err != nil {
				return false, fmt.Errorf("clearing stale lock: %w", err)
			}
		}
	}

	res, err := m.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO advisory_locks (name, token, acquired_at) VALUES (?, ?, ?)`,
		name, token, now.Format(time.RFC3339Nano))
	if err != nil {
		return false, fmt.Errorf("inserting lock row: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking lock insert: %w", err)
	}
	return n == 1, nil
}
