// Package schedule computes occurrence dates for recurring payments.
//
// The calculator is pure and operates on calendar dates only; there is
// no timezone or instant arithmetic anywhere. Month and year advancement
// use an explicit clamp rule instead of time.AddDate overflow: advancing
// from a day the target month does not have lands on the last day of
// that month (Jan 31 -> Feb 28 -> Mar 28), so a monthly schedule ticks
// exactly once per month and never rolls past one.
package schedule

import (
	"fmt"
	"time"

	"kopilka/finance"
)

// ParsePattern validates a recurrence pattern coming from storage or
// user input.
func ParsePattern(value string) (finance.RecurrencePattern, error) {
	switch finance.RecurrencePattern(value) {
	case finance.Daily, finance.Weekly, finance.Monthly, finance.Yearly:
		return finance.RecurrencePattern(value), nil
	}
	return "", fmt.Errorf("unknown recurrence pattern %q", value)
}

// NextOccurrence returns the occurrence immediately after d for the
// given pattern.
func NextOccurrence(d finance.Date, pattern finance.RecurrencePattern) (finance.Date, error) {
	switch pattern {
	case finance.Daily:
		return d.AddDays(1), nil
	case finance.Weekly:
		return d.AddDays(7), nil
	case finance.Monthly:
		return addMonths(d, 1), nil
	case finance.Yearly:
		return addYears(d, 1), nil
	}
	return finance.Date{}, fmt.Errorf("unknown recurrence pattern %q", pattern)
}

// NextDue returns a payment's next relevant occurrence: the anchor when
// nothing has been generated yet, the occurrence following the stored
// cursor once the template has been projected. Non-recurring payments
// keep their anchor date.
func NextDue(p finance.PlannedPayment) finance.Date {
	if !p.Recurring || p.LastGenerated == nil {
		return p.NextDue()
	}
	next, err := NextOccurrence(*p.LastGenerated, p.Pattern)
	if err != nil {
		return p.NextDue()
	}
	return next
}

// addMonths advances by whole months, clamping the day to the length of
// the target month.
func addMonths(d finance.Date, months int) finance.Date {
	y, m, day := d.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(firstOfTarget); day > last {
		day = last
	}
	return finance.Date{Time: firstOfTarget.AddDate(0, 0, day-1)}
}

// addYears advances by whole years with the same clamp, which only ever
// fires for Feb 29 anchors landing in a non-leap year.
func addYears(d finance.Date, years int) finance.Date {
	y, m, day := d.Date()
	firstOfTarget := time.Date(y+years, m, 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(firstOfTarget); day > last {
		day = last
	}
	return finance.Date{Time: firstOfTarget.AddDate(0, 0, day-1)}
}

// daysIn returns the number of days in the month containing t, which
// must be the first of the month.
func daysIn(t time.Time) int {
	return t.AddDate(0, 1, -1).Day()
}
