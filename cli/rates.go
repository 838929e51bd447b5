package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"golang.org/x/exp/slices"

	"kopilka/config"
	"kopilka/finance"
)

type RatesCmd struct {
	Offline bool `help:"Show the built-in fallback table without fetching."`
}

func (cmd *RatesCmd) Run(ctx *kong.Context) error {
	cfg := config.Load()
	provider := newProvider(cfg)

	rateTable := provider.Fallback()
	source := "fallback"

	if !cmd.Offline {
		fetchCtx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
		defer cancel()

		fetched, err := provider.Fetch(fetchCtx)
		if err != nil {
			printWarn(ctx.Stderr, fmt.Sprintf("live quotes unavailable: %v", err))
		} else {
			rateTable = fetched
			source = "live"
		}
	}

	codes := make([]finance.Currency, 0, len(rateTable))
	for code := range rateTable {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	rows := make([][]string, 0, len(codes))
	for _, code := range codes {
		rows = append(rows, []string{
			string(code),
			rateTable[code].String(),
		})
	}
	renderTable(ctx.Stdout, []string{"CURRENCY", string(cfg.BaseCurrency) + " PER UNIT"}, rows)
	_, _ = fmt.Fprintln(ctx.Stdout)
	printInfof(ctx.Stdout, "Source: %s, base %s", source, cfg.BaseCurrency)

	return nil
}
