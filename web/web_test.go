package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"kopilka/config"
	"kopilka/currency"
	"kopilka/finance"
	"kopilka/rates"
	"kopilka/store"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "kopilka.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	cfg := &config.Config{
		BaseCurrency:        finance.RUB,
		DBPath:              s.Path(),
		ReserveTargetMonths: 6,
		WebPort:             0,
	}

	server := New(cfg, s, rates.NewCache(currency.DefaultRates()), nil, nil)
	return server, s
}

func seed(t *testing.T, s *store.Store) {
	t.Helper()
	ctx := context.Background()

	balance, _ := decimal.NewFromString("100000")
	assert.NoError(t, s.SaveAccount(ctx, finance.Account{
		ID: "acc-1", Name: "Main", Balance: balance, Currency: finance.RUB,
		Kind: finance.Regular, Space: finance.Personal,
	}))

	amount, _ := decimal.NewFromString("45000")
	assert.NoError(t, s.SavePlannedPayment(ctx, finance.PlannedPayment{
		ID: "p1", Title: "Rent", Amount: amount, Currency: finance.RUB,
		Date: finance.Today().AddDays(5), Category: "housing",
		Recurring: true, Pattern: finance.Monthly, IsRequired: true,
		Space: finance.Personal,
	}))
}

func get(t *testing.T, server *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestDashboardEndpoint(t *testing.T) {
	server, s := testServer(t)
	seed(t, s)

	rec := get(t, server, "/api/dashboard")
	assert.Equal(t, http.StatusOK, rec.Code)

	var response DashboardResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, finance.RUB, response.BaseCurrency)
	assert.Equal(t, "100000", response.TotalBalance.String())
	assert.Equal(t, 1, response.FreeFunds.RequiredCount)
	assert.Equal(t, "55000", response.FreeFunds.FreeFunds.String())
	assert.Equal(t, "Rent", response.FreeFunds.NearestTitle)
	assert.Equal(t, 5, response.FreeFunds.DaysUntilNearest)
}

func TestDashboardSpaceFilter(t *testing.T) {
	server, s := testServer(t)
	seed(t, s)

	rec := get(t, server, "/api/dashboard?space=business")
	assert.Equal(t, http.StatusOK, rec.Code)

	var response DashboardResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "0", response.TotalBalance.String())

	rec = get(t, server, "/api/dashboard?space=bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountsEndpoint(t *testing.T) {
	server, s := testServer(t)
	seed(t, s)

	rec := get(t, server, "/api/accounts")
	assert.Equal(t, http.StatusOK, rec.Code)

	var response AccountsResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 1, len(response.Accounts))
	assert.Equal(t, "Main", response.Accounts[0].Name)
}

func TestUpcomingEndpoint(t *testing.T) {
	server, s := testServer(t)
	seed(t, s)

	rec := get(t, server, "/api/upcoming?days=10")
	assert.Equal(t, http.StatusOK, rec.Code)

	var response UpcomingResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 10, response.Days)
	assert.Equal(t, 1, len(response.Payments))
	assert.Equal(t, "Rent", response.Payments[0].Title)
	assert.Equal(t, 5, response.Payments[0].InDays)

	rec = get(t, server, "/api/upcoming?days=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRatesEndpoint(t *testing.T) {
	server, _ := testServer(t)

	rec := get(t, server, "/api/rates")
	assert.Equal(t, http.StatusOK, rec.Code)

	var response RatesResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, finance.RUB, response.Base)
	assert.Equal(t, "92", response.Rates[finance.USD].String())
}

func TestSnapshotInvalidation(t *testing.T) {
	server, s := testServer(t)
	seed(t, s)

	rec := get(t, server, "/api/accounts")
	assert.Equal(t, http.StatusOK, rec.Code)

	// A write after the snapshot was cached is invisible until the
	// snapshot is invalidated.
	balance, _ := decimal.NewFromString("1")
	assert.NoError(t, s.SaveAccount(context.Background(), finance.Account{
		ID: "acc-2", Name: "Side", Balance: balance, Currency: finance.RUB,
		Kind: finance.Regular, Space: finance.Personal,
	}))

	var response AccountsResponse
	rec = get(t, server, "/api/accounts")
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 1, len(response.Accounts))

	server.invalidateSnapshot()

	rec = get(t, server, "/api/accounts")
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 2, len(response.Accounts))
}

func TestBroadcastSkipsFullClients(t *testing.T) {
	server, _ := testServer(t)

	full := make(chan string) // unbuffered, never read
	server.sseClients[full] = struct{}{}

	done := make(chan struct{})
	go func() {
		server.broadcast("reload")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full client")
	}
}
