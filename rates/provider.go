// Package rates supplies the exchange-rate table used by the currency
// package. A Provider fetches live rates over HTTP with its own timeout
// and degrades to a static fallback table on any failure; callers never
// see an error and never wait indefinitely. A Cache holds the most
// recent successful table for concurrent readers, and a Refresher keeps
// the cache warm on a fixed interval.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kopilka/currency"
	"kopilka/finance"
)

// DefaultEndpoint serves rates quoted FROM the base currency, which the
// provider inverts into base-units-per-foreign-unit.
const DefaultEndpoint = "https://api.exchangerate.host/latest"

// DefaultFetchTimeout bounds a single fetch attempt.
const DefaultFetchTimeout = 10 * time.Second

// DefaultRefreshInterval is how often the Refresher re-fetches.
const DefaultRefreshInterval = time.Hour

// Provider fetches exchange rates for a fixed base currency.
type Provider struct {
	endpoint string
	base     finance.Currency
	symbols  []finance.Currency
	fallback currency.Rates
	client   *http.Client
	log      *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithEndpoint overrides the rate API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(p *Provider) { p.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client, including its timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.client = client }
}

// WithFallback overrides the static fallback table.
func WithFallback(fallback currency.Rates) Option {
	return func(p *Provider) { p.fallback = fallback }
}

// WithLogger attaches a logger for fetch failures.
func WithLogger(log *slog.Logger) Option {
	return func(p *Provider) { p.log = log }
}

// NewProvider creates a provider for the given base currency requesting
// quotes for the given symbols.
func NewProvider(base finance.Currency, symbols []finance.Currency, opts ...Option) *Provider {
	p := &Provider{
		endpoint: DefaultEndpoint,
		base:     base,
		symbols:  symbols,
		fallback: currency.DefaultRates(),
		client:   &http.Client{Timeout: DefaultFetchTimeout},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// response mirrors the exchangerate.host payload: rates are quoted from
// the base, e.g. base=RUB gives {"USD": 0.0109}.
type response struct {
	Success bool               `json:"success"`
	Rates   map[string]float64 `json:"rates"`
}

// GetRates returns the current rate table. Any failure (network,
// timeout, bad status, malformed body) yields the fallback table; this
// method never returns an error and aggregation never blocks on the
// network beyond the fetch timeout.
func (p *Provider) GetRates(ctx context.Context) currency.Rates {
	table, err := p.Fetch(ctx)
	if err != nil {
		p.log.Warn("rate fetch failed, using fallback table", "error", err, "base", p.base)
		return p.fallback
	}
	return table
}

// Fallback returns the provider's static table.
func (p *Provider) Fallback() currency.Rates {
	return p.fallback
}

// Fetch performs one live fetch. Unlike GetRates it surfaces the error,
// letting the Refresher keep a previously cached table instead of
// regressing to the fallback on a transient failure.
func (p *Provider) Fetch(ctx context.Context) (currency.Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.requestURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate API returned %s", resp.Status)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rate response: %w", err)
	}
	if !body.Success {
		return nil, fmt.Errorf("rate API reported failure")
	}

	return p.invert(body.Rates)
}

// invert turns quotes-from-base into base-units-per-foreign-unit, the
// orientation the currency package expects.
func (p *Provider) invert(quotes map[string]float64) (currency.Rates, error) {
	table := currency.Rates{p.base: decimal.NewFromInt(1)}
	for _, symbol := range p.symbols {
		quote, ok := quotes[string(symbol)]
		if !ok || quote <= 0 {
			return nil, fmt.Errorf("rate response missing %s", symbol)
		}
		table[symbol] = decimal.NewFromInt(1).Div(decimal.NewFromFloat(quote))
	}
	return table, nil
}

func (p *Provider) requestURL() string {
	symbols := make([]string, len(p.symbols))
	for i, s := range p.symbols {
		symbols[i] = string(s)
	}

	query := url.Values{}
	query.Set("base", string(p.base))
	query.Set("symbols", strings.Join(symbols, ","))
	return p.endpoint + "?" + query.Encode()
}
