package cli

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/alecthomas/kong"

	"kopilka/config"
	"kopilka/finance"
	"kopilka/planner"
	"kopilka/telemetry"
)

type ProjectCmd struct {
	Today  string `help:"Project as of this date (YYYY-MM-DD, defaults to the current date)."`
	DryRun bool   `help:"Show what would be generated without writing anything." short:"n"`
	Yes    bool   `help:"Apply without confirmation." short:"y"`
}

func (cmd *ProjectCmd) Run(ctx *kong.Context, globals *Globals) error {
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

	result := planner.Project(runCtx, payments, today, planner.Options{
		FallbackAccountID: cfg.DefaultAccountID,
	})

	for _, templateErr := range result.Errors {
		var invalid *planner.InvalidTemplateError
		if stdErrors.As(templateErr, &invalid) {
			printError(ctx.Stderr, fmt.Sprintf("skipped %q: %s", invalid.Title, invalid.Reason))
			continue
		}
		printError(ctx.Stderr, templateErr.Error())
	}

	if len(result.Transactions) == 0 {
		printSuccess(ctx.Stdout, fmt.Sprintf("Nothing due as of %s", today))
		return result.Err()
	}

	rows := make([][]string, 0, len(result.Transactions))
	for _, tx := range result.Transactions {
		rows = append(rows, []string{
			tx.Date.String(),
			tx.Description,
			tx.Category,
			finance.FormatAmount(tx.Amount, tx.Currency),
		})
	}
	renderTable(ctx.Stdout, []string{"DATE", "PAYMENT", "CATEGORY", "AMOUNT"}, rows)
	_, _ = fmt.Fprintln(ctx.Stdout)

	if cmd.DryRun {
		printInfof(ctx.Stdout, "Dry run, %d transaction(s) not written", len(result.Transactions))
		return result.Err()
	}

	if !cmd.Yes {
		confirmed, err := promptYesNo(fmt.Sprintf("Write %d transaction(s)?", len(result.Transactions)))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			printInfof(ctx.Stdout, "Aborted, nothing written")
			return nil
		}
	}

	if err := s.ApplyProjection(runCtx, result, newLogger(ctx.Stderr)); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Generated %d transaction(s) from %d payment(s)",
		len(result.Transactions), len(result.Payments)))

	return result.Err()
}
