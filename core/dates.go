// Package core builds BigQuery queries over the public PyPI download log
// and shapes their results into tables.
package core

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Sentinel errors for date handling.
var (
	// ErrInvalidDate is returned when a date bound is neither a
	// non-positive day offset nor an absolute calendar date.
	ErrInvalidDate = errors.New("dates must be negative integers or YYYY-MM[-DD] in the past")

	// ErrMalformedMonth is returned when a month string is not YYYY-MM.
	ErrMalformedMonth = errors.New("month must be a YYYY-MM string")

	// ErrInvalidRange is returned when the end bound does not come after
	// the start bound.
	ErrInvalidRange = errors.New("end date must be after start date")
)

// SQL templates for the timestamp window. Integer offsets shift the current
// timestamp; absolute dates become full-day TIMESTAMP literals.
const (
	dateAddTemplate     = "TIMESTAMP_ADD(CURRENT_TIMESTAMP(), INTERVAL %d DAY)"
	startTimestampTpl   = `TIMESTAMP("%s 00:00:00")`
	endTimestampTpl     = `TIMESTAMP("%s 23:59:59")`
	calendarDayFormat   = "2006-01-02"
	calendarMonthFormat = "2006-01"
)

// ValidateDate returns nil iff text is a valid date bound: either a
// non-positive integer day offset (0 means today) or a YYYY-MM-DD date.
func ValidateDate(text string) error {
	if n, err := strconv.Atoi(text); err == nil {
		if n <= 0 {
			return nil
		}
		return ErrInvalidDate
	}
	if _, err := time.Parse(calendarDayFormat, text); err == nil {
		return nil
	}
	return ErrInvalidDate
}

// MonthEnds returns the first and last calendar day of a YYYY-MM month,
// accounting for leap years.
func MonthEnds(yyyyMM string) (string, string, error) {
	first, err := time.Parse(calendarMonthFormat, yyyyMM)
	if err != nil {
		return "", "", ErrMalformedMonth
	}
	last := first.AddDate(0, 1, -1)
	return first.Format(calendarDayFormat), last.Format(calendarDayFormat), nil
}

// NormalizeDates expands YYYY-MM bounds to full calendar days: the start
// bound becomes the month's first day, the end bound its last day. Bounds in
// any other form pass through unchanged.
func NormalizeDates(startDate, endDate string) (string, string) {
	if first, _, err := MonthEnds(startDate); err == nil {
		startDate = first
	}
	if _, last, err := MonthEnds(endDate); err == nil {
		endDate = last
	}
	return startDate, endDate
}

// formatDate renders a validated date bound as a BigQuery timestamp
// expression using the given absolute-date template.
func formatDate(bound, template string) string {
	if n, err := strconv.Atoi(bound); err == nil {
		return fmt.Sprintf(dateAddTemplate, n)
	}
	return fmt.Sprintf(template, bound)
}
