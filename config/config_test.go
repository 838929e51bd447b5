package config

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"kopilka/finance"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, finance.RUB, cfg.BaseCurrency)
	assert.Equal(t, []finance.Currency{finance.USD, finance.EUR, finance.GEL, finance.KZT}, cfg.Currencies)
	assert.Equal(t, "./data/kopilka.db", cfg.DBPath)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 6, cfg.ReserveTargetMonths)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("KOPILKA_BASE_CURRENCY", "USD")
	t.Setenv("KOPILKA_CURRENCIES", "EUR, GBP")
	t.Setenv("KOPILKA_RATES_REFRESH", "30m")
	t.Setenv("KOPILKA_RESERVE_MONTHS", "12")
	t.Setenv("KOPILKA_WEB_PORT", "9999")

	cfg := Load()

	assert.Equal(t, finance.USD, cfg.BaseCurrency)
	assert.Equal(t, []finance.Currency{finance.EUR, "GBP"}, cfg.Currencies)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 12, cfg.ReserveTargetMonths)
	assert.Equal(t, 9999, cfg.WebPort)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("KOPILKA_RATES_REFRESH", "whenever")
	t.Setenv("KOPILKA_WEB_PORT", "not-a-port")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 8090, cfg.WebPort)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base currency", func(c *Config) { c.BaseCurrency = "" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"port out of range", func(c *Config) { c.WebPort = 0 }},
		{"zero reserve months", func(c *Config) { c.ReserveTargetMonths = 0 }},
		{"zero refresh interval", func(c *Config) { c.RefreshInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
