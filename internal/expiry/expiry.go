package expiry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the classification of a product relative to its expiry date.
type Status string

const (
	StatusOk           Status = "ok"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
	// StatusUnparseable marks records whose stored date cannot be read.
	// They are never flagged as urgent, but callers can surface a
	// data-quality warning instead of silently treating them as ok.
	StatusUnparseable Status = "unparseable"
)

var ErrInvalidDate = errors.New("invalid date, expected DD/MM/YYYY")

// Date is a pure calendar date (no time component, no timezone).
// Products carry their expiry as DD/MM/YYYY text; all arithmetic goes
// through this type so a date never becomes a drifting timestamp.
type Date struct {
	Day   int
	Month int
	Year  int
}

// ParseBRDate parses the DD/MM/YYYY form used throughout the app.
// Impossible dates (32/01, 30/02, month 13) are rejected.
func ParseBRDate(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Date{}, ErrInvalidDate
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Date{}, ErrInvalidDate
	}
	if year < 1000 || year > 9999 {
		return Date{}, ErrInvalidDate
	}

	// time.Date normalizes overflow (32/01 -> 01/02), so round-trip to
	// detect impossible dates instead of accepting the normalized value.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return Date{}, ErrInvalidDate
	}

	return Date{Day: day, Month: month, Year: year}, nil
}

// Format renders the date back to DD/MM/YYYY.
func (d Date) Format() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// ISO renders the date as YYYY-MM-DD, the lexically sortable form the
// store keeps alongside the display form.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Midnight anchors the date at 00:00 local time.
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

// At anchors the date at the given local time of day.
func (d Date) At(hour, minute int, loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, hour, minute, 0, 0, loc)
}

// DaysUntil returns how many calendar days remain until the expiry date,
// negative when it has already passed. Both sides are anchored as UTC
// midnights before subtracting: UTC has no DST, so every day is exactly
// 24 hours and the count cannot drift across a transition the way local
// wall-clock subtraction does. The time of day the check runs never
// affects the answer.
func DaysUntil(d Date, today time.Time) int {
	expiryMidnight := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	todayMidnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(expiryMidnight.Sub(todayMidnight) / (24 * time.Hour))
}

// Classify maps a stored expiry string to a status given the configured
// lead time. Unreadable dates classify as StatusUnparseable, never as an
// error: a malformed record must not break listing or dashboards.
func Classify(raw string, leadDays int, today time.Time) Status {
	d, err := ParseBRDate(raw)
	if err != nil {
		return StatusUnparseable
	}

	days := DaysUntil(d, today)
	switch {
	case days < 0:
		return StatusExpired
	case days <= leadDays:
		return StatusExpiringSoon
	default:
		return StatusOk
	}
}

// TriggerAt computes the instant a reminder for the given expiry should
// fire: leadDays calendar days before expiry, at the configured alert
// time. Subtraction is done with AddDate on whole days, never with
// duration math, so the result lands on the intended local day across
// DST transitions. Returns false when the date is unreadable or the
// computed instant is not strictly in the future; scheduling a reminder
// in the past is never allowed.
func TriggerAt(raw string, leadDays, alertHour, alertMinute int, now time.Time) (time.Time, bool) {
	d, err := ParseBRDate(raw)
	if err != nil {
		return time.Time{}, false
	}

	loc := now.Location()
	trigger := d.Midnight(loc).AddDate(0, 0, -leadDays)
	trigger = time.Date(trigger.Year(), trigger.Month(), trigger.Day(), alertHour, alertMinute, 0, 0, loc)

	if !trigger.After(now) {
		return time.Time{}, false
	}
	return trigger, true
}
