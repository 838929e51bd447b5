package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Transfer moves money between two of the owner's accounts. The amount
// is denominated in the source account's currency; the optional fee is
// charged to the source account as well.
type Transfer struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"fromAccount"`
	ToAccountID   string          `json:"toAccount"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      Currency        `json:"currency"`
	Date          Date            `json:"date"`
	Description   string          `json:"description,omitempty"`
	Fee           decimal.Decimal `json:"fee,omitempty"`
	Space         Space           `json:"space"`
}

// In reports whether the transfer belongs to the given space.
func (t Transfer) In(space Space) bool { return t.Space == space }

// ApplyTransfer debits the source account and credits the destination.
// credited is the amount added to the destination in its own currency;
// cross-currency transfers must be converted by the caller beforehand and
// passed in explicitly so the conversion always goes through the
// currency package's rate table.
func ApplyTransfer(t Transfer, from, to *Account, credited decimal.Decimal) error {
	if t.FromAccountID != from.ID || t.ToAccountID != to.ID {
		return fmt.Errorf("transfer %s does not connect accounts %s and %s", t.ID, from.ID, to.ID)
	}
	if t.Currency != from.Currency {
		return &CurrencyMismatchError{AccountID: from.ID, AccountCurrency: from.Currency, AppliedCurrency: t.Currency}
	}

	from.Balance = from.Balance.Sub(t.Amount)
	if !t.Fee.IsZero() {
		from.Balance = from.Balance.Sub(t.Fee)
	}
	to.Balance = to.Balance.Add(credited)
	return nil
}
