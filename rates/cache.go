package rates

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"kopilka/currency"
)

// Cache holds the most recent rate table for concurrent readers. It is
// written only by the refresh cycle; readers always see a complete
// table, never a partial update.
type Cache struct {
	mu    sync.RWMutex
	rates currency.Rates
}

// NewCache creates a cache seeded with an initial table, typically the
// static fallback, so readers are never left without rates.
func NewCache(initial currency.Rates) *Cache {
	return &Cache{rates: initial}
}

// Rates returns the latest table.
func (c *Cache) Rates() currency.Rates {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rates
}

// Update replaces the cached table.
func (c *Cache) Update(rates currency.Rates) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates = rates
}

// Refresher periodically refreshes a Cache from a Provider. A failed
// fetch leaves the cached table untouched, so readers keep the last
// good rates rather than regressing to the fallback.
type Refresher struct {
	provider *Provider
	cache    *Cache
	interval time.Duration
	log      *slog.Logger
}

// NewRefresher wires a provider to a cache. A non-positive interval
// falls back to the hourly default.
func NewRefresher(provider *Provider, cache *Cache, interval time.Duration, log *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Refresher{provider: provider, cache: cache, interval: interval, log: log}
}

// Run refreshes immediately, then on every tick until the context is
// cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// refresh fetches a fresh table. A failed fetch leaves the previously
// cached table in place rather than regressing readers to the fallback.
func (r *Refresher) refresh(ctx context.Context) {
	table, err := r.provider.Fetch(ctx)
	if err != nil {
		r.log.Warn("rate refresh failed, keeping cached table", "error", err)
		return
	}
	r.cache.Update(table)
	r.log.Debug("rate table refreshed", "currencies", len(table))
}
