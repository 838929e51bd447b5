package metrics

import (
	"github.com/shopspring/decimal"

	"kopilka/currency"
	"kopilka/finance"
)

// MonthFlow is one month's income and expense totals in base currency.
type MonthFlow struct {
	// Month is the first day of the month.
	Month   finance.Date
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net returns income minus expense for the month.
func (m MonthFlow) Net() decimal.Decimal {
	return m.Income.Sub(m.Expense)
}

// MonthlyTrend aggregates transactions into per-month income/expense
// totals for the trailing months window ending at today's month. Months
// without activity still appear with zero totals so charts keep an even
// axis.
func MonthlyTrend(transactions []finance.Transaction, base finance.Currency, rates currency.Rates, today finance.Date, months int) ([]MonthFlow, error) {
	if months <= 0 {
		months = trailingMonths
	}

	flows := make([]MonthFlow, months)
	index := make(map[string]*MonthFlow, months)
	for i := 0; i < months; i++ {
		month := finance.Date{Time: today.StartOfMonth().AddDate(0, i-months+1, 0)}
		flows[i] = MonthFlow{Month: month}
		index[month.String()] = &flows[i]
	}

	for _, tx := range transactions {
		flow, ok := index[tx.Date.StartOfMonth().String()]
		if !ok {
			continue
		}
		converted, err := currency.Convert(tx.Amount, tx.Currency, base, rates)
		if err != nil {
			return nil, err
		}
		if tx.IsExpense() {
			flow.Expense = flow.Expense.Add(converted)
		} else {
			flow.Income = flow.Income.Add(converted)
		}
	}

	return flows, nil
}

// GoalProgress is a savings goal with its completion percentage.
type GoalProgress struct {
	Goal finance.Goal
	// Percent is CurrentAmount over TargetAmount, capped at 100.
	Percent   decimal.Decimal
	Remaining decimal.Decimal
	Reached   bool
}

// GoalsProgress computes completion for each goal. Goals are tracked in
// their own currency; no conversion is involved.
func GoalsProgress(goals []finance.Goal) []GoalProgress {
	out := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		progress := GoalProgress{Goal: g}
		if g.TargetAmount.IsPositive() {
			progress.Percent = g.CurrentAmount.Div(g.TargetAmount).Mul(hundred)
			if progress.Percent.GreaterThan(hundred) {
				progress.Percent = hundred
			}
		}
		progress.Remaining = g.TargetAmount.Sub(g.CurrentAmount)
		if progress.Remaining.IsNegative() {
			progress.Remaining = decimal.Zero
		}
		progress.Reached = g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
		out = append(out, progress)
	}
	return out
}

// DebtSummary totals unpaid debts in both directions, in base currency.
type DebtSummary struct {
	IOwe     decimal.Decimal
	OwedToMe decimal.Decimal
}

// Net returns what the owner is owed minus what they owe.
func (s DebtSummary) Net() decimal.Decimal {
	return s.OwedToMe.Sub(s.IOwe)
}

// Debts sums outstanding debts into base currency, skipping settled
// ones.
func Debts(debts []finance.Debt, base finance.Currency, rates currency.Rates) (*DebtSummary, error) {
	summary := &DebtSummary{}
	for _, d := range debts {
		if d.IsPaid {
			continue
		}
		converted, err := currency.Convert(d.Amount, d.Currency, base, rates)
		if err != nil {
			return nil, err
		}
		switch d.Type {
		case finance.IOwe:
			summary.IOwe = summary.IOwe.Add(converted)
		case finance.OwedToMe:
			summary.OwedToMe = summary.OwedToMe.Add(converted)
		}
	}
	return summary, nil
}
