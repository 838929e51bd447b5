package finance

import "github.com/shopspring/decimal"

// Budget is a per-category spending limit over a period. Spent is the
// caller-maintained running total for the current period; the metrics
// package projects upcoming planned payments on top of it.
type Budget struct {
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
	Spent    decimal.Decimal `json:"spent"`
	// Currency defaults to the base currency when empty.
	Currency Currency `json:"currency,omitempty"`
	Period   string   `json:"period,omitempty"`
	Space    Space    `json:"space"`
}

// In reports whether the budget belongs to the given space.
func (b Budget) In(space Space) bool { return b.Space == space }

// CurrencyOr returns the budget's currency, or fallback when unset.
func (b Budget) CurrencyOr(fallback Currency) Currency {
	if b.Currency != "" {
		return b.Currency
	}
	return fallback
}

// Goal is a savings target tracked against a current amount.
type Goal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	Currency      Currency        `json:"currency,omitempty"`
	Space         Space           `json:"space"`
}

// In reports whether the goal belongs to the given space.
func (g Goal) In(space Space) bool { return g.Space == space }

// DebtType distinguishes money the owner owes from money owed to them.
type DebtType string

const (
	IOwe     DebtType = "i_owe"
	OwedToMe DebtType = "owed_to_me"
)

// Debt is an informal IOU with an optional due date. Debts never touch
// account balances until the user records the settling transaction.
type Debt struct {
	ID          string          `json:"id"`
	Type        DebtType        `json:"type"`
	Person      string          `json:"person"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    Currency        `json:"currency"`
	Description string          `json:"description,omitempty"`
	DueDate     *Date           `json:"dueDate,omitempty"`
	IsPaid      bool            `json:"isPaid"`
	Space       Space           `json:"space"`
}

// In reports whether the debt belongs to the given space.
func (d Debt) In(space Space) bool { return d.Space == space }
