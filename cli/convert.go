package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"kopilka/config"
	"kopilka/currency"
	"kopilka/finance"
)

type ConvertCmd struct {
	Amount  string `help:"Amount to convert, e.g. 1500.50." arg:""`
	From    string `help:"Source currency code." arg:""`
	To      string `help:"Target currency code." arg:""`
	Offline bool   `help:"Use built-in fallback rates instead of fetching live quotes."`
}

func (cmd *ConvertCmd) Run(ctx *kong.Context) error {
	amount, err := decimal.NewFromString(cmd.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", cmd.Amount, err)
	}
	from := finance.Currency(strings.ToUpper(cmd.From))
	to := finance.Currency(strings.ToUpper(cmd.To))

	cfg := config.Load()
	rateTable := fetchRates(cfg, cmd.Offline)

	converted, err := currency.Convert(amount, from, to, rateTable)
	if err != nil {
		return err
	}

	printInfof(ctx.Stdout, "%s = %s",
		finance.FormatAmount(amount, from),
		finance.FormatAmount(converted, to))

	return nil
}
