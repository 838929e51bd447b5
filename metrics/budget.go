package metrics

import (
	"github.com/shopspring/decimal"

	"kopilka/currency"
	"kopilka/finance"
	"kopilka/schedule"
)

// BudgetImpact projects upcoming planned payments onto their budget
// categories.
type BudgetImpact struct {
	Budget finance.Budget
	// Planned is the total of upcoming same-category payments in the
	// budget's currency.
	Planned decimal.Decimal
	// ProjectedSpent is Spent plus Planned, in the budget's currency.
	ProjectedSpent decimal.Decimal
	// CurrentProgress and ProjectedProgress are percentages of the
	// budget limit; ProjectedProgress can exceed 100.
	CurrentProgress   decimal.Decimal
	ProjectedProgress decimal.Decimal
	// OverBudget is set when the projected spend exceeds the limit.
	OverBudget bool
}

// BudgetImpacts computes the projected position of every budget against
// the planned payments of the current month. Payments due between today
// and the end of the month count toward their category's budget; the
// comparison happens entirely in the budget's own currency, via the
// base-currency rate table, never across mismatched currencies.
func BudgetImpacts(budgets []finance.Budget, payments []finance.PlannedPayment, base finance.Currency, rates currency.Rates, today finance.Date) ([]BudgetImpact, error) {
	monthEnd := today.EndOfMonth()

	upcoming := make(map[string][]finance.Money)
	for _, p := range payments {
		due := schedule.NextDue(p)
		if due.Before(today) || due.After(monthEnd) {
			continue
		}
		upcoming[p.Category] = append(upcoming[p.Category], p.Money())
	}

	impacts := make([]BudgetImpact, 0, len(budgets))
	for _, budget := range budgets {
		budgetCurrency := budget.CurrencyOr(base)

		planned := decimal.Zero
		for _, item := range upcoming[budget.Category] {
			converted, err := currency.Convert(item.Amount, item.Currency, budgetCurrency, rates)
			if err != nil {
				return nil, err
			}
			planned = planned.Add(converted)
		}

		impact := BudgetImpact{
			Budget:         budget,
			Planned:        planned,
			ProjectedSpent: budget.Spent.Add(planned),
		}
		if budget.Limit.IsPositive() {
			impact.CurrentProgress = budget.Spent.Div(budget.Limit).Mul(hundred)
			impact.ProjectedProgress = impact.ProjectedSpent.Div(budget.Limit).Mul(hundred)
		}
		impact.OverBudget = impact.ProjectedSpent.GreaterThan(budget.Limit)

		impacts = append(impacts, impact)
	}

	return impacts, nil
}
