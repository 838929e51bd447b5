package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountKind classifies an account for display and reporting.
type AccountKind string

const (
	Regular AccountKind = "regular"
	Savings AccountKind = "savings"
	Crypto  AccountKind = "crypto"
)

// Account is a single balance in a single currency. The balance is
// mutated exclusively by applying or reversing transactions and transfers;
// direct edits are reserved for explicit user corrections.
type Account struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Currency Currency        `json:"currency"`
	Kind     AccountKind     `json:"kind"`
	Space    Space           `json:"space"`
}

// In reports whether the account belongs to the given space.
func (a Account) In(space Space) bool { return a.Space == space }

// Money returns the balance as a Money value.
func (a Account) Money() Money {
	return Money{Amount: a.Balance, Currency: a.Currency}
}

// CurrencyMismatchError is returned when a transaction denominated in one
// currency is applied to an account holding another. Conversion is the
// caller's job; balances are never adjusted across currencies implicitly.
type CurrencyMismatchError struct {
	AccountID       string
	AccountCurrency Currency
	AppliedCurrency Currency
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("account %s holds %s, cannot apply %s amount directly",
		e.AccountID, e.AccountCurrency, e.AppliedCurrency)
}

// Apply adjusts the balance by the transaction's effect: income adds the
// amount, expense subtracts it. The optional fee is always denominated in
// the account's own currency and is subtracted either way.
func (a *Account) Apply(tx Transaction) error {
	if tx.AccountID != a.ID {
		return fmt.Errorf("transaction %s targets account %s, not %s", tx.ID, tx.AccountID, a.ID)
	}
	if tx.Currency != a.Currency {
		return &CurrencyMismatchError{AccountID: a.ID, AccountCurrency: a.Currency, AppliedCurrency: tx.Currency}
	}

	switch tx.Type {
	case Income:
		a.Balance = a.Balance.Add(tx.Amount)
	case Expense:
		a.Balance = a.Balance.Sub(tx.Amount)
	default:
		return fmt.Errorf("unknown transaction type %q", tx.Type)
	}

	if !tx.Fee.IsZero() {
		a.Balance = a.Balance.Sub(tx.Fee)
	}
	return nil
}

// Reverse undoes a previously applied transaction. Editing a transaction
// is modeled as Reverse of the old record followed by Apply of the new.
func (a *Account) Reverse(tx Transaction) error {
	inverse := tx
	switch tx.Type {
	case Income:
		inverse.Type = Expense
	case Expense:
		inverse.Type = Income
	default:
		return fmt.Errorf("unknown transaction type %q", tx.Type)
	}
	inverse.Fee = tx.Fee.Neg()
	return a.Apply(inverse)
}
