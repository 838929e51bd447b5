// Package finance defines the plain data records shared by the whole
// application: accounts, transactions, budgets, goals, debts and planned
// payments, together with the calendar Date and Money value types.
//
// The records are deliberately dumb. All algorithmic behavior lives in
// the currency, schedule, planner and metrics packages; persistence and
// presentation collaborators read and write these records as-is.
//
// Every entity carries a Space, the partition separating personal and
// business data. Entities from different spaces are never aggregated
// together.
package finance

import "fmt"

// Space partitions otherwise-identical entities into independent data
// sets.
type Space string

const (
	Personal Space = "personal"
	Business Space = "business"
)

// ParseSpace validates a space value coming from storage or user input.
func ParseSpace(value string) (Space, error) {
	switch Space(value) {
	case Personal, Business:
		return Space(value), nil
	}
	return "", fmt.Errorf("unknown space %q", value)
}

// FilterBySpace returns only the elements belonging to the given space.
// The helper is generic over every entity type in this package.
func FilterBySpace[T interface{ In(Space) bool }](items []T, space Space) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.In(space) {
			out = append(out, item)
		}
	}
	return out
}
