package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBRDate(t *testing.T) {
	d, err := ParseBRDate("25/12/2026")
	require.NoError(t, err)
	assert.Equal(t, Date{Day: 25, Month: 12, Year: 2026}, d)
	assert.Equal(t, "25/12/2026", d.Format())
	assert.Equal(t, "2026-12-25", d.ISO())

	for _, raw := range []string{
		"",
		"25-12-2026",
		"25/12",
		"aa/bb/cccc",
		"32/01/2026",
		"30/02/2026",
		"10/13/2026",
		"01/01/26",
	} {
		_, err := ParseBRDate(raw)
		assert.Error(t, err, "input %q should be rejected", raw)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	// Fixed reference day; the hour is deliberately late in the evening
	// to prove classification ignores time of day.
	today := time.Date(2026, 3, 10, 23, 45, 0, 0, time.Local)
	leadDays := 3

	tests := []struct {
		raw  string
		want Status
	}{
		{"09/03/2026", StatusExpired},      // yesterday
		{"01/01/2020", StatusExpired},      // long gone
		{"10/03/2026", StatusExpiringSoon}, // expires today
		{"12/03/2026", StatusExpiringSoon}, // inside window
		{"13/03/2026", StatusExpiringSoon}, // last day of window
		{"14/03/2026", StatusOk},           // leadDays+1
		{"25/12/2026", StatusOk},
		{"not-a-date", StatusUnparseable},
		{"", StatusUnparseable},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.raw, leadDays, today), "expiry %q", tt.raw)
	}
}

func TestClassifyZeroLeadDays(t *testing.T) {
	today := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	assert.Equal(t, StatusExpiringSoon, Classify("10/03/2026", 0, today))
	assert.Equal(t, StatusOk, Classify("11/03/2026", 0, today))
	assert.Equal(t, StatusExpired, Classify("09/03/2026", 0, today))
}

func TestClassifyInvariantToTimeOfDay(t *testing.T) {
	raw := "12/03/2026"
	for _, hour := range []int{0, 6, 12, 18, 23} {
		today := time.Date(2026, 3, 10, hour, 30, 0, 0, time.Local)
		assert.Equal(t, StatusExpiringSoon, Classify(raw, 3, today), "hour %d", hour)
	}
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)

	assert.Equal(t, 0, DaysUntil(Date{10, 3, 2026}, today))
	assert.Equal(t, 1, DaysUntil(Date{11, 3, 2026}, today))
	assert.Equal(t, -1, DaysUntil(Date{9, 3, 2026}, today))
	assert.Equal(t, 7, DaysUntil(Date{17, 3, 2026}, today))
}

func TestDaysUntilAcrossFallBackTransition(t *testing.T) {
	// America/New_York gains an hour on 01/11/2026; a span containing
	// that Sunday is 97 wall-clock hours but still 4 calendar days.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	today := time.Date(2026, 10, 30, 12, 0, 0, 0, loc)
	assert.Equal(t, 4, DaysUntil(Date{3, 11, 2026}, today))
	assert.Equal(t, StatusExpiringSoon, Classify("03/11/2026", 4, today))
	assert.Equal(t, StatusOk, Classify("04/11/2026", 4, today))
}

func TestDaysUntilAcrossSpringForwardTransition(t *testing.T) {
	// The 23-hour day on 08/03/2026 must not shrink the count either.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	today := time.Date(2026, 3, 6, 12, 0, 0, 0, loc)
	assert.Equal(t, 4, DaysUntil(Date{10, 3, 2026}, today))
	assert.Equal(t, StatusExpiringSoon, Classify("10/03/2026", 4, today))
	assert.Equal(t, StatusOk, Classify("11/03/2026", 4, today))
}

func TestTriggerAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)

	trigger, ok := TriggerAt("10/03/2026", 3, 9, 0, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 7, 9, 0, 0, 0, time.Local), trigger)
}

func TestTriggerAtNeverInThePast(t *testing.T) {
	now := time.Date(2026, 3, 8, 10, 0, 0, 0, time.Local)

	// Trigger day would be 07/03 09:00, already behind now.
	_, ok := TriggerAt("10/03/2026", 3, 9, 0, now)
	assert.False(t, ok)

	// Exactly now is not strictly in the future either.
	now = time.Date(2026, 3, 7, 9, 0, 0, 0, time.Local)
	_, ok = TriggerAt("10/03/2026", 3, 9, 0, now)
	assert.False(t, ok)

	// One minute before the trigger is fine.
	now = time.Date(2026, 3, 7, 8, 59, 0, 0, time.Local)
	trigger, ok := TriggerAt("10/03/2026", 3, 9, 0, now)
	require.True(t, ok)
	assert.True(t, trigger.After(now))
}

func TestTriggerAtInvariantToNowTimeOfDay(t *testing.T) {
	want := time.Date(2026, 3, 7, 9, 30, 0, 0, time.Local)
	for _, hour := range []int{0, 8, 13, 22} {
		now := time.Date(2026, 3, 1, hour, 15, 0, 0, time.Local)
		trigger, ok := TriggerAt("10/03/2026", 3, 9, 30, now)
		require.True(t, ok, "hour %d", hour)
		assert.Equal(t, want, trigger, "hour %d", hour)
	}
}

func TestTriggerAtUnparseable(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)
	_, ok := TriggerAt("garbage", 3, 9, 0, now)
	assert.False(t, ok)
}
