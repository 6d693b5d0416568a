package window

import "time"

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// StartOfMonth returns the first day of t's month at midnight.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// StartOfYear returns January 1 of t's year at midnight.
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// WeeklyResetHour is the hour on Monday at which membership weeks roll over.
const WeeklyResetHour = 2

// WeeklyReset returns the most recent Monday 02:00 at or before t.
func WeeklyReset(t time.Time) time.Time {
	y, m, d := t.Date()
	sinceMonday := (int(t.Weekday()) + 6) % 7
	reset := time.Date(y, m, d-sinceMonday, WeeklyResetHour, 0, 0, 0, t.Location())
	if reset.After(t) {
		reset = time.Date(y, m, d-sinceMonday-7, WeeklyResetHour, 0, 0, 0, t.Location())
	}
	return reset
}
