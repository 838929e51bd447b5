package cli

import (
	"context"
	"fmt"
	"time"

	"kopilka/config"
	"kopilka/currency"
	"kopilka/finance"
	"kopilka/rates"
	"kopilka/store"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Project   ProjectCmd   `cmd:"" help:"Materialize due recurring payments into transactions."`
	Dashboard DashboardCmd `cmd:"" help:"Show accounts, free funds, life reserve and budgets."`
	Upcoming  UpcomingCmd  `cmd:"" help:"List planned payments due within a horizon."`
	Convert   ConvertCmd   `cmd:"" help:"Convert an amount between currencies."`
	Rates     RatesCmd     `cmd:"" help:"Show the current exchange rate table."`
	Web       WebCmd       `cmd:"" help:"Start the dashboard web server."`
}

// openStore opens the configured database, validating the configuration
// first so a bad environment fails before any file is touched.
func openStore(cfg *config.Config) (*store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return store.Open(cfg.DBPath)
}

// newProvider builds the rate provider from configuration.
func newProvider(cfg *config.Config, opts ...rates.Option) *rates.Provider {
	if cfg.RatesEndpoint != "" {
		opts = append(opts, rates.WithEndpoint(cfg.RatesEndpoint))
	}
	return rates.NewProvider(cfg.BaseCurrency, cfg.Currencies, opts...)
}

// fetchRates resolves the rate table for one-shot commands. Live quotes
// when the API answers within the configured timeout, the built-in
// fallback otherwise.
func fetchRates(cfg *config.Config, offline bool) currency.Rates {
	provider := newProvider(cfg)
	if offline {
		return provider.Fallback()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()

	return provider.GetRates(ctx)
}

// parseDay interprets an optional --today override, defaulting to the
// actual current date.
func parseDay(value string) (finance.Date, error) {
	if value == "" {
		return finance.Today(), nil
	}
	day, err := finance.NewDate(value)
	if err != nil {
		return finance.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return day, nil
}

// parseSpaceFilter interprets an optional --space flag.
func parseSpaceFilter(value string) (finance.Space, bool, error) {
	if value == "" {
		return "", false, nil
	}
	space, err := finance.ParseSpace(value)
	if err != nil {
		return "", false, err
	}
	return space, true, nil
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
