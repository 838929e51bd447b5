package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"kopilka/config"
	"kopilka/finance"
	"kopilka/planner"
	"kopilka/schedule"
)

type UpcomingCmd struct {
	Days  int    `help:"Horizon in days." default:"30"`
	Space string `help:"Filter by space (personal or business)."`
	Today string `help:"List payments as of this date (YYYY-MM-DD)."`
}

func (cmd *UpcomingCmd) Run(ctx *kong.Context) error {
	runCtx := context.Background()

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

	payments, err := s.PlannedPayments(runCtx)
	if err != nil {
		return err
	}
	if filtered {
		payments = finance.FilterBySpace(payments, space)
	}

	due := planner.Upcoming(payments, today, cmd.Days)
	if len(due) == 0 {
		printSuccess(ctx.Stdout, fmt.Sprintf("Nothing due within %d day(s)", cmd.Days))
		return nil
	}

	rows := make([][]string, 0, len(due))
	for _, payment := range due {
		next := schedule.NextDue(payment)
		required := ""
		if payment.IsRequired {
			required = "required"
		}
		rows = append(rows, []string{
			next.String(),
			fmt.Sprintf("%d", today.DaysUntil(next)),
			payment.Title,
			payment.Category,
			finance.FormatAmount(payment.Amount, payment.Currency),
			required,
		})
	}
	renderTable(ctx.Stdout, []string{"DUE", "IN DAYS", "PAYMENT", "CATEGORY", "AMOUNT", ""}, rows)

	return nil
}
