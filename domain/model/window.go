package model

import (
	"fmt"
	"strconv"
	"time"
)

// MonthYear is a calendar month as entered by the user (MMYYYY).
type MonthYear struct {
	Month int
	Year  int
}

// ParseMonthYear parses a 2-digit month followed by a 4-digit year, e.g. "012023".
func ParseMonthYear(s string) (MonthYear, error) {
	if len(s) != 6 {
		return MonthYear{}, fmt.Errorf("month-year %q must be formatted as MMYYYY", s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return MonthYear{}, fmt.Errorf("month-year %q must be formatted as MMYYYY", s)
		}
	}
	month, err := strconv.Atoi(s[:2])
	if err != nil {
		return MonthYear{}, fmt.Errorf("month-year %q: invalid month: %w", s, err)
	}
	year, err := strconv.Atoi(s[2:])
	if err != nil {
		return MonthYear{}, fmt.Errorf("month-year %q: invalid year: %w", s, err)
	}
	if month < 1 || month > 12 {
		return MonthYear{}, fmt.Errorf("month-year %q: month must be between 01 and 12", s)
	}
	return MonthYear{Month: month, Year: year}, nil
}

// String formats the value back to MMYYYY.
func (m MonthYear) String() string {
	return fmt.Sprintf("%02d%04d", m.Month, m.Year)
}

// DateWindow is the inclusive month/year window a video must fall in.
//
// Months and years are compared independently: a timestamp matches when its
// year lies in [Start.Year, End.Year] and its month lies in
// [Start.Month, End.Month]. This is not a chronological range when the window
// spans a year boundary (012023..062024 rejects November 2023).
type DateWindow struct {
	Start MonthYear
	End   MonthYear
}

// Contains reports whether t falls inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	t = t.UTC()
	year, month := t.Year(), int(t.Month())
	return w.Start.Year <= year && year <= w.End.Year &&
		w.Start.Month <= month && month <= w.End.Month
}

// ParsePublishedAt parses a YouTube timestamp such as "2023-01-15T10:00:00Z" into UTC.
func ParsePublishedAt(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse published timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
