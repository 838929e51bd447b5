// Package config loads application settings from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"kopilka/finance"
)

// Config holds every tunable of the application.
type Config struct {
	// BaseCurrency is what all cross-currency totals normalize into.
	BaseCurrency finance.Currency

	// Currencies are the foreign currencies the rate provider fetches
	// quotes for.
	Currencies []finance.Currency

	// DBPath is the SQLite database file.
	DBPath string

	// RatesEndpoint, FetchTimeout and RefreshInterval tune the rate
	// provider.
	RatesEndpoint   string
	FetchTimeout    time.Duration
	RefreshInterval time.Duration

	// DefaultAccountID receives projected transactions whose template
	// has no linked account.
	DefaultAccountID string

	// ReserveTargetMonths is the life-reserve goal.
	ReserveTargetMonths int

	// WebPort is the dashboard server port.
	WebPort int
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present and silently skipped
// otherwise.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		BaseCurrency:        finance.Currency(getEnv("KOPILKA_BASE_CURRENCY", "RUB")),
		Currencies:          splitCurrencies(getEnv("KOPILKA_CURRENCIES", "USD,EUR,GEL,KZT")),
		DBPath:              getEnv("KOPILKA_DB_PATH", "./data/kopilka.db"),
		RatesEndpoint:       getEnv("KOPILKA_RATES_URL", ""),
		FetchTimeout:        getEnvDuration("KOPILKA_RATES_TIMEOUT", 10*time.Second),
		RefreshInterval:     getEnvDuration("KOPILKA_RATES_REFRESH", time.Hour),
		DefaultAccountID:    getEnv("KOPILKA_DEFAULT_ACCOUNT", ""),
		ReserveTargetMonths: getEnvInt("KOPILKA_RESERVE_MONTHS", 6),
		WebPort:             getEnvInt("KOPILKA_WEB_PORT", 8090),
	}
}

// Validate reports configuration mistakes before anything starts.
func (c *Config) Validate() error {
	if c.BaseCurrency == "" {
		return fmt.Errorf("base currency must not be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.WebPort < 1 || c.WebPort > 65535 {
		return fmt.Errorf("invalid web port %d", c.WebPort)
	}
	if c.ReserveTargetMonths < 1 {
		return fmt.Errorf("reserve target months must be at least 1, got %d", c.ReserveTargetMonths)
	}
	if c.FetchTimeout <= 0 || c.RefreshInterval <= 0 {
		return fmt.Errorf("rate provider timeout and refresh interval must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitCurrencies(value string) []finance.Currency {
	var out []finance.Currency
	for _, code := range strings.Split(value, ",") {
		if code = strings.TrimSpace(code); code != "" {
			out = append(out, finance.Currency(code))
		}
	}
	return out
}
