package metrics

import (
	"github.com/shopspring/decimal"

	"kopilka/currency"
	"kopilka/finance"
)

// trailingMonths is the window the average monthly expense is taken
// over.
const trailingMonths = 3

// DefaultTargetMonths is the reserve goal used when the caller does not
// override it.
const DefaultTargetMonths = 6

// ReserveReport describes how long the owner could live off their
// current balances at their recent spending rate.
type ReserveReport struct {
	// MonthlyAverage is the average base-currency expense over the
	// trailing three calendar months.
	MonthlyAverage decimal.Decimal
	// MonthsOfReserve is TotalBalance / MonthlyAverage. Meaningless when
	// Unbounded is set.
	MonthsOfReserve decimal.Decimal
	// Unbounded is set when there were no expenses in the window, which
	// makes the reserve effectively infinite.
	Unbounded     bool
	TargetMonths  int
	TargetReserve decimal.Decimal
	// Progress is TotalBalance as a percentage of TargetReserve, capped
	// at 100.
	Progress decimal.Decimal
	// Shortage is how much is missing to reach the target, never
	// negative.
	Shortage decimal.Decimal
}

// LifeReserve computes the reserve report from current balances and the
// expense history. Only expense transactions dated within the trailing
// three calendar months before today are counted.
func LifeReserve(accounts []finance.Account, transactions []finance.Transaction, base finance.Currency, rates currency.Rates, today finance.Date, targetMonths int) (*ReserveReport, error) {
	if targetMonths <= 0 {
		targetMonths = DefaultTargetMonths
	}

	totalBalance, err := TotalBalance(accounts, base, rates)
	if err != nil {
		return nil, err
	}

	windowStart := finance.Date{Time: today.AddDate(0, -trailingMonths, 0)}

	var expenses []finance.Money
	for _, tx := range transactions {
		if !tx.IsExpense() || tx.Date.Before(windowStart) || tx.Date.After(today) {
			continue
		}
		expenses = append(expenses, tx.Money())
	}

	totalExpenses, err := currency.Total(expenses, base, rates)
	if err != nil {
		return nil, err
	}

	report := &ReserveReport{
		MonthlyAverage: totalExpenses.Div(decimal.NewFromInt(trailingMonths)),
		TargetMonths:   targetMonths,
	}
	report.TargetReserve = report.MonthlyAverage.Mul(decimal.NewFromInt(int64(targetMonths)))

	if !report.MonthlyAverage.IsPositive() {
		report.Unbounded = true
		report.Progress = hundred
		return report, nil
	}

	report.MonthsOfReserve = totalBalance.Div(report.MonthlyAverage)
	report.Progress = totalBalance.Div(report.TargetReserve).Mul(hundred)
	if report.Progress.GreaterThan(hundred) {
		report.Progress = hundred
	}
	report.Shortage = report.TargetReserve.Sub(totalBalance)
	if report.Shortage.IsNegative() {
		report.Shortage = decimal.Zero
	}

	return report, nil
}
