package model

import (
	"fmt"
	"time"
)

// Budget year bounds.
const (
	MinYear = 1900
	MaxYear = 2100
)

// MonthYear identifies a calendar month.
type MonthYear struct {
	Month int `json:"month" yaml:"month"`
	Year  int `json:"year" yaml:"year"`
}

// MonthYearOf returns the calendar month a date falls in.
func MonthYearOf(t time.Time) MonthYear {
	return MonthYear{Month: int(t.Month()), Year: t.Year()}
}

// Validate checks the month and year ranges.
func (m MonthYear) Validate() error {
	if m.Month < 1 || m.Month > 12 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, m.Month)
	}
	if m.Year < MinYear || m.Year > MaxYear {
		return fmt.Errorf("%w: got %d", ErrInvalidYear, m.Year)
	}
	return nil
}

// String renders the month as MM/YYYY.
func (m MonthYear) String() string {
	return fmt.Sprintf("%02d/%d", m.Month, m.Year)
}

// Before reports whether m is an earlier month than other.
func (m MonthYear) Before(other MonthYear) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// truncateDay drops the time-of-day, keeping the calendar date in UTC.
func truncateDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
