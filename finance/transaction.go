package finance

import "github.com/shopspring/decimal"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Transaction is a single ledger entry against one account. Transactions
// are created either by direct user entry or by the planner projecting a
// recurring payment. They are immutable once created except through an
// edit that also re-applies the balance delta (reverse old, apply new).
type Transaction struct {
	ID       string          `json:"id"`
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
	// TransactionCurrency records the currency the entry was originally
	// made in when it differs from the account's currency. Amount is
	// always denominated in Currency; this field is display metadata.
	TransactionCurrency Currency        `json:"transactionCurrency,omitempty"`
	AccountID           string          `json:"accountId"`
	Date                Date            `json:"date"`
	Description         string          `json:"description,omitempty"`
	Fee                 decimal.Decimal `json:"fee,omitempty"`
	Space               Space           `json:"space"`
}

// In reports whether the transaction belongs to the given space.
func (t Transaction) In(space Space) bool { return t.Space == space }

// Money returns the transaction amount as a Money value.
func (t Transaction) Money() Money {
	return Money{Amount: t.Amount, Currency: t.Currency}
}

// IsExpense reports whether the transaction reduces a balance.
func (t Transaction) IsExpense() bool { return t.Type == Expense }
