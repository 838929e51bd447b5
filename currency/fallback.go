package currency

import (
	"github.com/shopspring/decimal"

	"kopilka/finance"
)

// BaseCurrency is the default base everything is normalized into.
const BaseCurrency = finance.RUB

// DefaultRates is the static fallback table used when no live rates are
// available. Values are base-currency units per one unit of the foreign
// currency; they are deliberately coarse and exist only so aggregation
// keeps working offline.
func DefaultRates() Rates {
	return Rates{
		finance.RUB:  decimal.NewFromInt(1),
		finance.GEL:  decimal.NewFromInt(30),
		finance.USD:  decimal.NewFromInt(92),
		finance.KZT:  decimal.NewFromFloat(0.2),
		finance.USDT: decimal.NewFromInt(92),
		finance.EUR:  decimal.NewFromInt(100),
	}
}
