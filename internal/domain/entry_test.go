package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestStartWindow_ExplicitStartMinute(t *testing.T) {
	e := &WorklogEntry{Minutes: 45, StartMinute: intPtr(9 * 60)}
	start, end, ok := e.StartWindow()
	require.True(t, ok)
	assert.Equal(t, 540, start)
	assert.Equal(t, 585, end)
}

func TestStartWindow_DerivedFromNotesMarker(t *testing.T) {
	e := &WorklogEntry{Minutes: 30, Notes: "pull-out session @09:30 with group"}
	start, end, ok := e.StartWindow()
	require.True(t, ok)
	assert.Equal(t, 570, start)
	assert.Equal(t, 600, end)
}

func TestStartWindow_NoMarker(t *testing.T) {
	e := &WorklogEntry{Minutes: 30, Notes: "small group reading"}
	_, _, ok := e.StartWindow()
	assert.False(t, ok)
}

func TestStartWindow_ExplicitWinsOverMarker(t *testing.T) {
	e := &WorklogEntry{Minutes: 30, StartMinute: intPtr(600), Notes: "@08:00 morning block"}
	start, _, ok := e.StartWindow()
	require.True(t, ok)
	assert.Equal(t, 600, start, "explicit start minute should take precedence over the notes marker")
}

func TestStartWindow_RejectsOutOfRangeStart(t *testing.T) {
	e := &WorklogEntry{Minutes: 30, StartMinute: intPtr(1500)}
	_, _, ok := e.StartWindow()
	assert.False(t, ok)
}

func TestOverlaps_Symmetric(t *testing.T) {
	a := &WorklogEntry{Minutes: 60, StartMinute: intPtr(9 * 60)}
	b := &WorklogEntry{Minutes: 30, StartMinute: intPtr(9*60 + 30)}

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a), "overlap must be commutative")
}

func TestOverlaps_AdjacentWindowsDoNotOverlap(t *testing.T) {
	a := &WorklogEntry{Minutes: 60, StartMinute: intPtr(9 * 60)}
	b := &WorklogEntry{Minutes: 30, StartMinute: intPtr(10 * 60)}

	assert.False(t, a.Overlaps(b), "[540,600) and [600,630) share only a boundary")
	assert.False(t, b.Overlaps(a))
}

func TestOverlaps_SkippedWithoutDerivableStart(t *testing.T) {
	a := &WorklogEntry{Minutes: 60, StartMinute: intPtr(9 * 60)}
	b := &WorklogEntry{Minutes: 480, Notes: "full day coverage"}

	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
}
