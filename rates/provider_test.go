package rates

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"kopilka/currency"
	"kopilka/finance"
)

var testSymbols = []finance.Currency{finance.USD, finance.GEL, finance.KZT}

func livePayload() string {
	// Quotes FROM RUB, as exchangerate.host returns them.
	return `{"success": true, "rates": {"USD": 0.0125, "GEL": 0.04, "KZT": 5.0}}`
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewProvider(finance.RUB, testSymbols, WithEndpoint(server.URL))
}

func TestGetRatesInvertsQuotes(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "RUB", r.URL.Query().Get("base"))
		assert.Equal(t, "USD,GEL,KZT", r.URL.Query().Get("symbols"))
		fmt.Fprint(w, livePayload())
	})

	table := provider.GetRates(context.Background())

	// 1/0.0125 = 80 RUB per USD, 1/0.04 = 25 RUB per GEL, 1/5 = 0.2.
	assert.True(t, table[finance.USD].Equal(decimal.NewFromInt(80)), "got %s", table[finance.USD])
	assert.True(t, table[finance.GEL].Equal(decimal.NewFromInt(25)))
	assert.True(t, table[finance.KZT].Equal(decimal.NewFromFloat(0.2)))
	assert.True(t, table[finance.RUB].Equal(decimal.NewFromInt(1)))
}

func TestGetRatesFallsBackOnErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"success": tru`)
			},
		},
		{
			name: "api reports failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"success": false}`)
			},
		},
		{
			name: "missing symbol",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"success": true, "rates": {"USD": 0.0125}}`)
			},
		},
		{
			name: "zero quote",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"success": true, "rates": {"USD": 0, "GEL": 0.04, "KZT": 5.0}}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newTestProvider(t, tt.handler)
			table := provider.GetRates(context.Background())
			assert.Equal(t, len(currency.DefaultRates()), len(table))
			assert.True(t, table[finance.USD].Equal(currency.DefaultRates()[finance.USD]))
		})
	}
}

func TestGetRatesFallsBackOnTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, livePayload())
	}))
	t.Cleanup(server.Close)

	provider := NewProvider(finance.RUB, testSymbols,
		WithEndpoint(server.URL),
		WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))

	table := provider.GetRates(context.Background())
	assert.True(t, table[finance.USD].Equal(currency.DefaultRates()[finance.USD]))
}

func TestGetRatesUnreachableHost(t *testing.T) {
	provider := NewProvider(finance.RUB, testSymbols,
		WithEndpoint("http://127.0.0.1:1"),
		WithHTTPClient(&http.Client{Timeout: 100 * time.Millisecond}))

	table := provider.GetRates(context.Background())
	assert.Equal(t, len(currency.DefaultRates()), len(table))
}

func TestCustomFallback(t *testing.T) {
	fallback := currency.Rates{finance.RUB: decimal.NewFromInt(1), finance.USD: decimal.NewFromInt(90)}
	provider := NewProvider(finance.RUB, testSymbols,
		WithEndpoint("http://127.0.0.1:1"),
		WithHTTPClient(&http.Client{Timeout: 100 * time.Millisecond}),
		WithFallback(fallback))

	table := provider.GetRates(context.Background())
	assert.True(t, table[finance.USD].Equal(decimal.NewFromInt(90)))
}

func TestCacheKeepsTableOnFailedRefresh(t *testing.T) {
	healthy := true
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if healthy {
			fmt.Fprint(w, livePayload())
			return
		}
		http.Error(w, "down", http.StatusBadGateway)
	})

	cache := NewCache(provider.Fallback())
	refresher := NewRefresher(provider, cache, time.Hour, nil)

	refresher.refresh(context.Background())
	assert.True(t, cache.Rates()[finance.USD].Equal(decimal.NewFromInt(80)))

	// The endpoint goes down: the cache must keep the live table, not
	// regress to the fallback.
	healthy = false
	refresher.refresh(context.Background())
	assert.True(t, cache.Rates()[finance.USD].Equal(decimal.NewFromInt(80)))
}

func TestCacheUpdateVisibleToReaders(t *testing.T) {
	cache := NewCache(currency.DefaultRates())
	next := currency.Rates{finance.RUB: decimal.NewFromInt(1), finance.USD: decimal.NewFromInt(95)}

	cache.Update(next)
	assert.True(t, cache.Rates()[finance.USD].Equal(decimal.NewFromInt(95)))
}
