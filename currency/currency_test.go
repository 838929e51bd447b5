package currency

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"kopilka/finance"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testRates() Rates {
	rates, err := NewRates(finance.RUB, map[finance.Currency]string{
		finance.USD: "92",
		finance.GEL: "30",
		finance.KZT: "0.2",
	})
	if err != nil {
		panic(err)
	}
	return rates
}

func TestNewRatesRejectsNonPositive(t *testing.T) {
	_, err := NewRates(finance.RUB, map[finance.Currency]string{finance.USD: "0"})
	assert.Error(t, err)

	_, err = NewRates(finance.RUB, map[finance.Currency]string{finance.USD: "-5"})
	assert.Error(t, err)

	_, err = NewRates(finance.RUB, map[finance.Currency]string{finance.USD: "ninety"})
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	rates := testRates()

	tests := []struct {
		name   string
		amount string
		from   finance.Currency
		to     finance.Currency
		want   string
	}{
		{"foreign to base", "10", finance.USD, finance.RUB, "920"},
		{"base to foreign", "920", finance.RUB, finance.USD, "10"},
		{"cross currency via base", "30", finance.GEL, finance.USD, "9.7826086956521739"},
		{"fractional rate", "1000", finance.KZT, finance.RUB, "200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(dec(tt.amount), tt.from, tt.to, rates)
			assert.NoError(t, err)
			assert.True(t, got.Sub(dec(tt.want)).Abs().LessThan(dec("0.0001")),
				"got %s, want %s", got, tt.want)
		})
	}
}

// Same-currency conversion is the exact identity, even when the table
// has no entry for that currency at all.
func TestConvertIdentity(t *testing.T) {
	amount := dec("123.456789")

	got, err := Convert(amount, finance.USD, finance.USD, Rates{})
	assert.NoError(t, err)
	assert.True(t, got.Equal(amount))
}

func TestConvertRoundTrip(t *testing.T) {
	rates := testRates()
	epsilon := dec("0.0000001")

	for _, amount := range []string{"1", "0.01", "1234.56", "999999.99"} {
		there, err := Convert(dec(amount), finance.USD, finance.GEL, rates)
		assert.NoError(t, err)
		back, err := Convert(there, finance.GEL, finance.USD, rates)
		assert.NoError(t, err)

		assert.True(t, back.Sub(dec(amount)).Abs().LessThan(epsilon),
			"round trip of %s drifted to %s", amount, back)
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	rates := testRates()

	_, err := Convert(dec("10"), "CHF", finance.RUB, rates)
	var unknown *UnknownCurrencyError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, finance.Currency("CHF"), unknown.Currency)

	_, err = Convert(dec("10"), finance.RUB, "CHF", rates)
	assert.True(t, errors.As(err, &unknown))
}

func TestTotal(t *testing.T) {
	rates := testRates()

	// Accounts [{RUB,1000},{USD,10}] at USD=92 total 1920.
	total, err := Total([]finance.Money{
		finance.MustMoney("1000", finance.RUB),
		finance.MustMoney("10", finance.USD),
	}, finance.RUB, rates)
	assert.NoError(t, err)
	assert.True(t, total.Equal(dec("1920")), "got %s", total)
}

func TestTotalEmpty(t *testing.T) {
	total, err := Total(nil, finance.RUB, testRates())
	assert.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestTotalAbortsOnUnknownCurrency(t *testing.T) {
	_, err := Total([]finance.Money{
		finance.MustMoney("1000", finance.RUB),
		finance.MustMoney("5", "CHF"),
	}, finance.RUB, testRates())

	var unknown *UnknownCurrencyError
	assert.True(t, errors.As(err, &unknown))
}

func TestGroupByCurrency(t *testing.T) {
	groups := GroupByCurrency([]finance.Money{
		finance.MustMoney("100", finance.RUB),
		finance.MustMoney("50", finance.USD),
		finance.MustMoney("200.50", finance.RUB),
	})

	assert.Equal(t, 2, len(groups))
	assert.True(t, groups[finance.RUB].Equal(dec("300.5")))
	assert.True(t, groups[finance.USD].Equal(dec("50")))
}

func TestDefaultRatesCoverKnownCurrencies(t *testing.T) {
	rates := DefaultRates()
	for _, c := range []finance.Currency{finance.RUB, finance.USD, finance.EUR, finance.GEL, finance.KZT, finance.USDT} {
		_, err := Convert(dec("1"), c, BaseCurrency, rates)
		assert.NoError(t, err, "missing fallback rate for %s", c)
	}
}
