// Package projection implements the financial projection engine: balance
// replay, recurrence expansion, period bucketing, cash-flow forecasting and
// tithe math. Every function is pure and takes an explicit reference date;
// nothing in this package reads the wall clock.
package projection

import "time"

// Date returns midnight UTC for the given calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar date (midnight UTC), using the calendar
// date in t's own location so a local "now" keeps its local day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func startOfMonth(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), 1)
}

func endOfMonth(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), daysInMonth(t.Year(), t.Month()))
}
