package core

import (
	"regexp"
	"time"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// MonthBounds parses a "YYYY-MM" reference month into its first and last
// instants, both UTC. The end bound is the final nanosecond of the month
// so that dueDate <= end captures everything dated inside it.
func MonthBounds(month string) (time.Time, time.Time, error) {
	if !monthPattern.MatchString(month) {
		return time.Time{}, time.Time{}, ErrInvalidMonthFormat
	}
	start, err := time.ParseInLocation("2006-01", month, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonthFormat
	}
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end, nil
}

// IsCurrentOrPastMonth reports whether the queried month's calendar month
// index is at or before now's. Only the month is compared, never the
// year: a query for 2024-02 with now in 2025-03 still counts as current.
// That mirrors the production system this ledger replaces; fixing it is a
// product decision, so the tests pin the month-only behavior explicitly.
func IsCurrentOrPastMonth(endOfMonth, now time.Time) bool {
	return endOfMonth.Month() <= now.Month()
}

// AddMonths steps a date forward by whole calendar months with Go's
// normalizing arithmetic: Jan 31 + 1 month lands on Mar 2/3, not Feb 28.
// Series generation steps one month at a time from the previous record's
// date, so a short month shifts every later record in the series too.
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}
