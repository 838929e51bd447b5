// Package currency implements multi-currency aggregation over an
// exchange-rate table: converting single amounts, totaling heterogeneous
// amounts into a base currency, and grouping amounts per currency.
//
// All functions are pure given a rate table and use decimal arithmetic
// throughout; rounding is left to formatting boundaries. A currency
// missing from the table is a hard error; amounts are never silently
// treated as base currency.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"

	"kopilka/finance"
)

// Rates maps a currency to the number of base-currency units one unit of
// that currency is worth. The base currency itself has rate 1.
type Rates map[finance.Currency]decimal.Decimal

// NewRates builds a table from decimal strings, e.g.
// NewRates("RUB", map[string]string{"USD": "92"}).
// The base currency entry is added automatically.
func NewRates(base finance.Currency, quotes map[finance.Currency]string) (Rates, error) {
	rates := Rates{base: decimal.NewFromInt(1)}
	for currency, quote := range quotes {
		rate, err := decimal.NewFromString(quote)
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q for %s: %w", quote, currency, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive, got %s", currency, rate)
		}
		rates[currency] = rate
	}
	return rates, nil
}

// UnknownCurrencyError is returned when a conversion references a
// currency with no entry in the rate table.
type UnknownCurrencyError struct {
	Currency finance.Currency
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("no exchange rate for currency %q", e.Currency)
}

// rate looks up a currency, distinguishing missing entries from zero.
func (r Rates) rate(c finance.Currency) (decimal.Decimal, error) {
	rate, ok := r[c]
	if !ok || !rate.IsPositive() {
		return decimal.Decimal{}, &UnknownCurrencyError{Currency: c}
	}
	return rate, nil
}

// Convert converts an amount between two currencies via the base
// currency: amount * rates[from] / rates[to]. Same-currency conversion
// is the exact identity regardless of the table contents.
func Convert(amount decimal.Decimal, from, to finance.Currency, rates Rates) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	fromRate, err := rates.rate(from)
	if err != nil {
		return decimal.Decimal{}, err
	}
	toRate, err := rates.rate(to)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return amount.Mul(fromRate).Div(toRate), nil
}

// ToBase converts an amount into the base currency of the table.
func ToBase(amount decimal.Decimal, from, base finance.Currency, rates Rates) (decimal.Decimal, error) {
	return Convert(amount, from, base, rates)
}

// Total sums heterogeneous amounts into a single base-currency total.
// An empty input totals to zero. The first currency missing from the
// table aborts the whole sum; the caller decides whether that is fatal.
func Total(items []finance.Money, base finance.Currency, rates Rates) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		converted, err := Convert(item.Amount, item.Currency, base, rates)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(converted)
	}
	return total, nil
}

// GroupByCurrency sums same-currency amounts without any conversion.
// The result is meant for per-currency display breakdowns and must not
// be used for cross-currency comparison.
func GroupByCurrency(items []finance.Money) map[finance.Currency]decimal.Decimal {
	groups := make(map[finance.Currency]decimal.Decimal, len(items))
	for _, item := range items {
		groups[item.Currency] = groups[item.Currency].Add(item.Amount)
	}
	return groups
}
