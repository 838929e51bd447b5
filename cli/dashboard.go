package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"kopilka/config"
	"kopilka/finance"
	"kopilka/metrics"
	"kopilka/telemetry"
)

type DashboardCmd struct {
	Space   string `help:"Filter by space (personal or business)."`
	Today   string `help:"Compute metrics as of this date (YYYY-MM-DD)."`
	Offline bool   `help:"Use built-in fallback rates instead of fetching live quotes."`
}

func (cmd *DashboardCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	today, err := parseDay(cmd.Today)
	if err != nil {
		return err
	}
	space, filtered, err := parseSpaceFilter(cmd.Space)
	if err != nil {
		return err
	}

	cfg := config.Load()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.Snapshot(runCtx)
	if err != nil {
		return err
	}
	if filtered {
		snap = snap.Filter(space)
	}

	rateTable := fetchRates(cfg, cmd.Offline)
	base := cfg.BaseCurrency

	// Accounts.
	rows := make([][]string, 0, len(snap.Accounts))
	for _, account := range snap.Accounts {
		rows = append(rows, []string{
			account.Name,
			string(account.Kind),
			finance.FormatAmount(account.Balance, account.Currency),
		})
	}
	_, _ = fmt.Fprintln(ctx.Stdout, headerStyle.Render("Accounts"))
	renderTable(ctx.Stdout, []string{"ACCOUNT", "KIND", "BALANCE"}, rows)

	total, err := metrics.TotalBalance(snap.Accounts, base, rateTable)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout)
	printInfof(ctx.Stdout, "Total balance: %s", finance.FormatAmount(total, base))

	// Free funds.
	funds, err := metrics.FreeFunds(snap.Accounts, snap.PlannedPayments, base, rateTable, today)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout)
	_, _ = fmt.Fprintln(ctx.Stdout, headerStyle.Render("Free funds"))
	printInfof(ctx.Stdout, "Required payments ahead: %d totalling %s",
		funds.RequiredCount, finance.FormatAmount(funds.TotalRequired, base))
	printInfof(ctx.Stdout, "Free after obligations: %s", finance.FormatAmount(funds.FreeFunds, base))
	if funds.Nearest != nil {
		printInfof(ctx.Stdout, "Nearest required payment: %q in %d day(s)",
			funds.Nearest.Title, funds.DaysUntilNearest)
	}
	switch {
	case funds.Negative:
		printError(ctx.Stdout, "Obligations exceed available funds")
	case funds.Low:
		printWarn(ctx.Stdout, "Free funds are running low")
	}

	// Life reserve.
	reserve, err := metrics.LifeReserve(snap.Accounts, snap.Transactions, base, rateTable, today, cfg.ReserveTargetMonths)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout)
	_, _ = fmt.Fprintln(ctx.Stdout, headerStyle.Render("Life reserve"))
	if reserve.Unbounded {
		printInfof(ctx.Stdout, "No expenses in the trailing window; reserve is unbounded")
	} else {
		printInfof(ctx.Stdout, "Average monthly spend: %s", finance.FormatAmount(reserve.MonthlyAverage, base))
		printInfof(ctx.Stdout, "Months covered: %s of %d target (%s%%)",
			reserve.MonthsOfReserve.StringFixed(1), reserve.TargetMonths, reserve.Progress.StringFixed(0))
		if reserve.Shortage.IsPositive() {
			printWarn(ctx.Stdout, fmt.Sprintf("Short of target by %s", finance.FormatAmount(reserve.Shortage, base)))
		}
	}

	// Budgets against upcoming payments.
	impacts, err := metrics.BudgetImpacts(snap.Budgets, snap.PlannedPayments, base, rateTable, today)
	if err != nil {
		return err
	}
	if len(impacts) > 0 {
		_, _ = fmt.Fprintln(ctx.Stdout)
		_, _ = fmt.Fprintln(ctx.Stdout, headerStyle.Render("Budgets"))
		rows = rows[:0]
		for _, impact := range impacts {
			status := ""
			if impact.OverBudget {
				status = errorStyle.Render("over budget")
			}
			budgetCurrency := impact.Budget.CurrencyOr(base)
			rows = append(rows, []string{
				impact.Budget.Category,
				finance.FormatAmount(impact.Budget.Spent, budgetCurrency),
				finance.FormatAmount(impact.Planned, budgetCurrency),
				finance.FormatAmount(impact.Budget.Limit, budgetCurrency),
				impact.ProjectedProgress.StringFixed(0) + "%",
				status,
			})
		}
		renderTable(ctx.Stdout, []string{"CATEGORY", "SPENT", "PLANNED", "LIMIT", "PROJECTED", ""}, rows)
	}

	return nil
}
