package utils

import "time"

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date (UTC),
// ignoring time-of-day.
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// BeforeToday reports whether t's calendar date is strictly before today's (UTC).
// Today itself is not before today.
func BeforeToday(t time.Time) bool {
	return DateOnly(t).Before(DateOnly(time.Now()))
}
