// Package metrics computes read-only projections for the dashboard:
// free funds, life reserve, budget impact, goal progress, debt totals
// and monthly trends. Every metric is recomputed on demand from the
// current records and holds no state of its own. All cross-currency
// math goes through the currency package; a currency missing from the
// rate table fails the metric rather than skewing it.
package metrics

import (
	"github.com/shopspring/decimal"

	"kopilka/currency"
	"kopilka/finance"
	"kopilka/schedule"
)

// TotalBalance sums all account balances into the base currency.
func TotalBalance(accounts []finance.Account, base finance.Currency, rates currency.Rates) (decimal.Decimal, error) {
	items := make([]finance.Money, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, a.Money())
	}
	return currency.Total(items, base, rates)
}

var (
	pointTwo = decimal.NewFromFloat(0.2)
	hundred  = decimal.NewFromInt(100)
)

// FreeFundsReport describes how much of the owner's money is not spoken
// for by required planned payments.
type FreeFundsReport struct {
	// FreeFunds is TotalBalance minus TotalRequired, in base currency.
	FreeFunds     decimal.Decimal
	TotalBalance  decimal.Decimal
	TotalRequired decimal.Decimal
	RequiredCount int
	// Nearest is the soonest required payment, when one exists.
	Nearest          *finance.PlannedPayment
	DaysUntilNearest int
	// Low is set when free funds are under a 20% buffer of the required
	// total; Negative when obligations exceed the balance outright.
	Low      bool
	Negative bool
}

// FreeFunds reports the funds left after all required planned payments
// due on or after today, everything converted into the base currency.
func FreeFunds(accounts []finance.Account, payments []finance.PlannedPayment, base finance.Currency, rates currency.Rates, today finance.Date) (*FreeFundsReport, error) {
	totalBalance, err := TotalBalance(accounts, base, rates)
	if err != nil {
		return nil, err
	}

	var (
		required []finance.Money
		nearest  *finance.PlannedPayment
	)
	for i := range payments {
		p := payments[i]
		if !p.IsRequired || schedule.NextDue(p).Before(today) {
			continue
		}
		required = append(required, p.Money())
		if nearest == nil || schedule.NextDue(p).Before(schedule.NextDue(*nearest)) {
			nearest = &payments[i]
		}
	}

	totalRequired, err := currency.Total(required, base, rates)
	if err != nil {
		return nil, err
	}

	report := &FreeFundsReport{
		FreeFunds:     totalBalance.Sub(totalRequired),
		TotalBalance:  totalBalance,
		TotalRequired: totalRequired,
		RequiredCount: len(required),
		Nearest:       nearest,
	}
	if nearest != nil {
		report.DaysUntilNearest = today.DaysUntil(schedule.NextDue(*nearest))
	}
	report.Negative = report.FreeFunds.IsNegative()
	report.Low = report.FreeFunds.LessThan(totalRequired.Mul(pointTwo))

	return report, nil
}
