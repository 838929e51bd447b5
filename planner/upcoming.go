package planner

import (
	"golang.org/x/exp/slices"

	"kopilka/finance"
	"kopilka/schedule"
)

// Upcoming returns the payments due on or after today, soonest first.
// Non-recurring reminders are included; recurring templates surface
// their next occurrence past the cursor. A horizon of zero means no
// limit, otherwise payments due more than horizon days out are excluded.
func Upcoming(payments []finance.PlannedPayment, today finance.Date, horizonDays int) []finance.PlannedPayment {
	due := make([]finance.PlannedPayment, 0, len(payments))
	for _, p := range payments {
		next := schedule.NextDue(p)
		if next.Before(today) {
			continue
		}
		if horizonDays > 0 && today.DaysUntil(next) > horizonDays {
			continue
		}
		if p.EndDate != nil && next.After(*p.EndDate) {
			continue
		}
		due = append(due, p)
	}

	slices.SortStableFunc(due, func(a, b finance.PlannedPayment) int {
		return schedule.NextDue(a).Compare(schedule.NextDue(b).Time)
	})
	return due
}

// NextRequired returns the soonest payment marked required, due on or
// after today, or false when there is none.
func NextRequired(payments []finance.PlannedPayment, today finance.Date) (finance.PlannedPayment, bool) {
	for _, p := range Upcoming(payments, today, 0) {
		if p.IsRequired {
			return p, true
		}
	}
	return finance.PlannedPayment{}, false
}
