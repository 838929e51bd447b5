package finance

import "github.com/shopspring/decimal"

// RecurrencePattern names how often a planned payment repeats. The
// schedule package owns the date arithmetic for each pattern.
type RecurrencePattern string

const (
	Daily   RecurrencePattern = "daily"
	Weekly  RecurrencePattern = "weekly"
	Monthly RecurrencePattern = "monthly"
	Yearly  RecurrencePattern = "yearly"
)

// PaymentStatus tracks whether a planned payment is still pending or has
// been confirmed by the user.
type PaymentStatus string

const (
	StatusPlanned   PaymentStatus = "planned"
	StatusConfirmed PaymentStatus = "confirmed"
)

// PlannedPayment is a template for future payments. A non-recurring
// payment is a calendar reminder for a single date; a recurring one is
// projected into concrete transactions by the planner, which is the only
// writer of the LastGenerated cursor.
//
// Invariants, maintained by the planner:
//   - LastGenerated, when set, is >= the anchor Date and <= today.
//   - No two generated transactions exist for the same payment and the
//     same occurrence date.
type PlannedPayment struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
	// Date is the anchor: the first occurrence of a recurring payment,
	// or the single due date of a one-off reminder.
	Date      Date              `json:"date"`
	Category  string            `json:"category"`
	AccountID string            `json:"accountId,omitempty"`
	Recurring bool              `json:"recurring"`
	Pattern   RecurrencePattern `json:"recurrencePattern,omitempty"`
	// LastGenerated is the most recent occurrence date for which a
	// transaction has already been emitted. Nil means nothing has been
	// generated yet, including the anchor occurrence itself.
	LastGenerated *Date         `json:"lastGenerated,omitempty"`
	EndDate       *Date         `json:"endDate,omitempty"`
	IsRequired    bool          `json:"isRequired"`
	Status        PaymentStatus `json:"status,omitempty"`
	Space         Space         `json:"space"`
}

// In reports whether the payment belongs to the given space.
func (p PlannedPayment) In(space Space) bool { return p.Space == space }

// Money returns the payment amount as a Money value.
func (p PlannedPayment) Money() Money {
	return Money{Amount: p.Amount, Currency: p.Currency}
}

// NextDue returns the payment's anchor date, or the stored cursor once
// occurrences have been generated. The schedule package derives the
// actual next occurrence from this for recurring templates.
func (p PlannedPayment) NextDue() Date {
	if p.LastGenerated != nil {
		return *p.LastGenerated
	}
	return p.Date
}
