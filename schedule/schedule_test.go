package schedule

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"kopilka/finance"
)

func TestParsePattern(t *testing.T) {
	for _, value := range []string{"daily", "weekly", "monthly", "yearly"} {
		pattern, err := ParsePattern(value)
		assert.NoError(t, err)
		assert.Equal(t, finance.RecurrencePattern(value), pattern)
	}

	for _, value := range []string{"", "biweekly", "DAILY", "quarterly"} {
		_, err := ParsePattern(value)
		assert.Error(t, err, "expected error for %q", value)
	}
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		pattern finance.RecurrencePattern
		want    string
	}{
		{"daily", "2025-01-15", finance.Daily, "2025-01-16"},
		{"daily across month end", "2025-01-31", finance.Daily, "2025-02-01"},
		{"daily across year end", "2024-12-31", finance.Daily, "2025-01-01"},
		{"weekly", "2025-01-15", finance.Weekly, "2025-01-22"},
		{"weekly across month end", "2025-01-29", finance.Weekly, "2025-02-05"},
		{"monthly plain", "2025-03-15", finance.Monthly, "2025-04-15"},
		{"monthly clamps 31st to february", "2025-01-31", finance.Monthly, "2025-02-28"},
		{"monthly clamps 31st to leap february", "2024-01-31", finance.Monthly, "2024-02-29"},
		{"monthly clamps 31st to 30-day month", "2025-03-31", finance.Monthly, "2025-04-30"},
		{"monthly stays clamped after february", "2025-02-28", finance.Monthly, "2025-03-28"},
		{"monthly across year end", "2024-12-15", finance.Monthly, "2025-01-15"},
		{"monthly 30th into february", "2025-01-30", finance.Monthly, "2025-02-28"},
		{"yearly", "2025-06-10", finance.Yearly, "2026-06-10"},
		{"yearly feb 29 clamps", "2024-02-29", finance.Yearly, "2025-02-28"},
		{"yearly feb 28 plain", "2025-02-28", finance.Yearly, "2026-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOccurrence(finance.MustDate(tt.date), tt.pattern)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNextDue(t *testing.T) {
	anchor := finance.MustDate("2025-01-31")
	cursor := finance.MustDate("2025-02-28")

	template := finance.PlannedPayment{
		Date:      anchor,
		Recurring: true,
		Pattern:   finance.Monthly,
	}

	// Never projected: due on the anchor itself.
	assert.Equal(t, "2025-01-31", NextDue(template).String())

	// Projected through February: the next occurrence follows the
	// cursor, not the anchor day.
	template.LastGenerated = &cursor
	assert.Equal(t, "2025-03-28", NextDue(template).String())

	// A one-off reminder keeps its own date.
	oneOff := finance.PlannedPayment{Date: finance.MustDate("2025-04-10")}
	assert.Equal(t, "2025-04-10", NextDue(oneOff).String())
}

func TestNextOccurrenceUnknownPattern(t *testing.T) {
	_, err := NextOccurrence(finance.MustDate("2025-01-01"), "fortnightly")
	assert.Error(t, err)
}

// A monthly schedule must land in every consecutive month exactly once,
// whatever day it is anchored on.
func TestMonthlyNeverSkipsAMonth(t *testing.T) {
	for _, anchor := range []string{"2025-01-28", "2025-01-29", "2025-01-30", "2025-01-31"} {
		cursor := finance.MustDate(anchor)
		for i := 0; i < 24; i++ {
			next, err := NextOccurrence(cursor, finance.Monthly)
			assert.NoError(t, err)

			wantYear, wantMonth := cursor.Year(), cursor.Month()+1
			if wantMonth == 13 {
				wantYear, wantMonth = wantYear+1, 1
			}
			assert.Equal(t, wantYear, next.Year(), "anchor %s step %d", anchor, i)
			assert.Equal(t, wantMonth, next.Month(), "anchor %s step %d", anchor, i)

			cursor = next
		}
	}
}
