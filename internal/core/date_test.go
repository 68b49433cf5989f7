package core

import (
	"errors"
	"testing"
	"time"
)

func TestMonthBounds(t *testing.T) {
	cases := []struct {
		in    string
		start time.Time
		end   time.Time
		ok    bool
	}{
		{"2025-02", date(2025, 2, 1), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), true},
		{"2025-12", date(2025, 12, 1), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), true},
		{"2024-02", date(2024, 2, 1), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), true}, // leap year
		{"2025-13", time.Time{}, time.Time{}, false},
		{"2025-00", time.Time{}, time.Time{}, false},
		{"2025-1", time.Time{}, time.Time{}, false},
		{"25-01", time.Time{}, time.Time{}, false},
		{"2025/01", time.Time{}, time.Time{}, false},
		{"", time.Time{}, time.Time{}, false},
	}
	for _, tc := range cases {
		start, end, err := MonthBounds(tc.in)
		if !tc.ok {
			if !errors.Is(err, ErrInvalidMonthFormat) {
				t.Fatalf("%q: expected ErrInvalidMonthFormat, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if !start.Equal(tc.start) || !end.Equal(tc.end) {
			t.Fatalf("%q: got [%v, %v], want [%v, %v]", tc.in, start, end, tc.start, tc.end)
		}
	}
}

func TestIsCurrentOrPastMonthComparesMonthIndexOnly(t *testing.T) {
	now := date(2025, 3, 9)
	cases := []struct {
		name string
		end  time.Time
		want bool
	}{
		{"previous month", endOfMonth(2025, 2), true},
		{"same month", endOfMonth(2025, 3), true},
		{"next month", endOfMonth(2025, 4), false},
		// The year is deliberately not compared: February of ANY year is
		// "past" relative to a March now, and April of a past year is
		// still treated as future.
		{"february last year", endOfMonth(2024, 2), true},
		{"april last year", endOfMonth(2024, 4), false},
	}
	for _, tc := range cases {
		if got := IsCurrentOrPastMonth(tc.end, now); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAddMonthsNormalizesShortMonths(t *testing.T) {
	// Stepping month by month from Jan 31 skips February entirely, the
	// way the series expander walks a schedule.
	d := date(2025, 1, 31)
	d = AddMonths(d, 1)
	if !d.Equal(date(2025, 3, 3)) {
		t.Fatalf("Jan 31 + 1 month: got %v, want 2025-03-03", d)
	}
	d = AddMonths(d, 1)
	if !d.Equal(date(2025, 4, 3)) {
		t.Fatalf("second step: got %v, want 2025-04-03", d)
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfMonth(y int, m time.Month) time.Time {
	return time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
}
