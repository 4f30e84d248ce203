package domain

import (
	"regexp"
	"strconv"
	"time"
)

// WorklogEntry is one block of logged work time. Entries are immutable once
// persisted; corrections to a closed week are expressed as new adjustment
// entries, never as edits.
type WorklogEntry struct {
	ID           string
	ActorID      string
	Date         time.Time // calendar day, midnight UTC
	Minutes      int
	ActivityCode string
	StudentID    string // optional subject reference
	Notes        string
	StartMinute  *int // minutes after midnight; derived from notes when nil
	Adjustment   bool
	AdjustsWeek  *time.Time // week-ending date of the sealed week being corrected
	CreatedAt    time.Time
}

// startMarkerRe matches an @HH:MM time-of-day marker embedded in free-text
// notes, e.g. "pull-out session @09:30".
var startMarkerRe = regexp.MustCompile(`@([01]?[0-9]|2[0-3]):([0-5][0-9])`)

// StartWindow returns the half-open [start, end) interval in minutes-of-day
// covered by the entry. The start comes from StartMinute when set, otherwise
// from an @HH:MM marker in the notes. ok is false when no start is derivable.
func (e *WorklogEntry) StartWindow() (start, end int, ok bool) {
	if e.StartMinute != nil {
		start = *e.StartMinute
	} else {
		m := startMarkerRe.FindStringSubmatch(e.Notes)
		if m == nil {
			return 0, 0, false
		}
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		start = h*60 + mm
	}
	if start < 0 || start >= MinutesPerDay {
		return 0, 0, false
	}
	return start, start + e.Minutes, true
}

// Overlaps reports whether two entries' time-of-day windows intersect.
// An entry with no derivable start never overlaps anything; callers that
// care about that degradation must check StartWindow themselves.
func (e *WorklogEntry) Overlaps(other *WorklogEntry) bool {
	aStart, aEnd, aOK := e.StartWindow()
	bStart, bEnd, bOK := other.StartWindow()
	if !aOK || !bOK {
		return false
	}
	return max(aStart, bStart) < min(aEnd, bEnd)
}
