package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO-4217-like short code (RUB, USD, GEL, KZT, USDT, EUR).
// The core never assumes a fixed code list; unknown codes surface as
// conversion errors rather than being silently defaulted.
type Currency string

const (
	RUB  Currency = "RUB"
	USD  Currency = "USD"
	EUR  Currency = "EUR"
	GEL  Currency = "GEL"
	KZT  Currency = "KZT"
	USDT Currency = "USDT"
)

// Money is an amount denominated in a single currency. Amounts of
// different currencies are never combined arithmetically; every
// cross-currency computation goes through the currency package.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// NewMoney builds a Money value from a decimal string such as "1500.50".
func NewMoney(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return Money{Amount: d, Currency: currency}, nil
}

// MustMoney builds a Money value and panics on a malformed amount.
// Use only in tests.
func MustMoney(amount string, currency Currency) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

var currencySymbols = map[Currency]string{
	RUB:  "₽",
	GEL:  "₾",
	USD:  "$",
	KZT:  "₸",
	EUR:  "€",
	USDT: "USDT",
}

// Symbol returns the display symbol for a currency, falling back to the
// code itself for currencies without a dedicated glyph.
func (c Currency) Symbol() string {
	if sym, ok := currencySymbols[c]; ok {
		return sym
	}
	return string(c)
}

// decimalPlaces returns the display precision for a currency. Rubles are
// shown whole, everything else to cents. Rounding happens only here, at
// the formatting boundary, never mid-calculation.
func (c Currency) decimalPlaces() int32 {
	if c == RUB {
		return 0
	}
	return 2
}

// Format renders an amount with its currency symbol, e.g. "1500 ₽" or
// "12.50 $". Stablecoins render with a trailing code ("12.50 USDT").
func (m Money) Format() string {
	return FormatAmount(m.Amount, m.Currency)
}

// FormatAmount renders a bare decimal in the display convention of the
// given currency.
func FormatAmount(amount decimal.Decimal, currency Currency) string {
	return fmt.Sprintf("%s %s", amount.StringFixed(currency.decimalPlaces()), currency.Symbol())
}

func (m Money) String() string {
	return m.Format()
}
