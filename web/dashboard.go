package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"kopilka/finance"
	"kopilka/metrics"
	"kopilka/planner"
	"kopilka/schedule"
	"kopilka/store"
)

func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// DashboardResponse is the JSON response structure for the dashboard endpoint.
type DashboardResponse struct {
	Version      string                 `json:"version,omitempty"`
	BaseCurrency finance.Currency       `json:"baseCurrency"`
	TotalBalance decimal.Decimal        `json:"totalBalance"`
	FreeFunds    FreeFundsResponse      `json:"freeFunds"`
	Reserve      ReserveResponse        `json:"reserve"`
	Budgets      []BudgetImpactResponse `json:"budgets"`
	Goals        []GoalResponse         `json:"goals"`
}

type GoalResponse struct {
	Name      string           `json:"name"`
	Currency  finance.Currency `json:"currency"`
	Current   decimal.Decimal  `json:"current"`
	Target    decimal.Decimal  `json:"target"`
	Percent   decimal.Decimal  `json:"percent"`
	Remaining decimal.Decimal  `json:"remaining"`
	Reached   bool             `json:"reached"`
}

type FreeFundsResponse struct {
	FreeFunds        decimal.Decimal `json:"freeFunds"`
	TotalRequired    decimal.Decimal `json:"totalRequired"`
	RequiredCount    int             `json:"requiredCount"`
	NearestTitle     string          `json:"nearestTitle,omitempty"`
	NearestDue       string          `json:"nearestDue,omitempty"`
	DaysUntilNearest int             `json:"daysUntilNearest"`
	Low              bool            `json:"low"`
	Negative         bool            `json:"negative"`
}

type ReserveResponse struct {
	MonthlyAverage  decimal.Decimal `json:"monthlyAverage"`
	MonthsOfReserve decimal.Decimal `json:"monthsOfReserve"`
	Unbounded       bool            `json:"unbounded"`
	TargetMonths    int             `json:"targetMonths"`
	Progress        decimal.Decimal `json:"progress"`
	Shortage        decimal.Decimal `json:"shortage"`
}

type BudgetImpactResponse struct {
	Category          string           `json:"category"`
	Currency          finance.Currency `json:"currency"`
	Limit             decimal.Decimal  `json:"limit"`
	Spent             decimal.Decimal  `json:"spent"`
	Planned           decimal.Decimal  `json:"planned"`
	ProjectedSpent    decimal.Decimal  `json:"projectedSpent"`
	ProjectedProgress decimal.Decimal  `json:"projectedProgress"`
	OverBudget        bool             `json:"overBudget"`
}

// handleDashboard handles GET requests to /api/dashboard.
//
// Query parameters:
//   - space: Optional filter, "personal" or "business".
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFor(w, r)
	if !ok {
		return
	}

	rateTable := s.cache.Rates()
	base := s.cfg.BaseCurrency
	today := finance.Today()

	total, err := metrics.TotalBalance(snap.Accounts, base, rateTable)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	funds, err := metrics.FreeFunds(snap.Accounts, snap.PlannedPayments, base, rateTable, today)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	reserve, err := metrics.LifeReserve(snap.Accounts, snap.Transactions, base, rateTable, today, s.cfg.ReserveTargetMonths)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	impacts, err := metrics.BudgetImpacts(snap.Budgets, snap.PlannedPayments, base, rateTable, today)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	version := s.Version
	if s.CommitSHA != "" {
		version = version + " (" + s.CommitSHA + ")"
	}

	response := DashboardResponse{
		Version:      version,
		BaseCurrency: base,
		TotalBalance: total,
		FreeFunds: FreeFundsResponse{
			FreeFunds:        funds.FreeFunds,
			TotalRequired:    funds.TotalRequired,
			RequiredCount:    funds.RequiredCount,
			DaysUntilNearest: funds.DaysUntilNearest,
			Low:              funds.Low,
			Negative:         funds.Negative,
		},
		Reserve: ReserveResponse{
			MonthlyAverage:  reserve.MonthlyAverage,
			MonthsOfReserve: reserve.MonthsOfReserve,
			Unbounded:       reserve.Unbounded,
			TargetMonths:    reserve.TargetMonths,
			Progress:        reserve.Progress,
			Shortage:        reserve.Shortage,
		},
		Budgets: make([]BudgetImpactResponse, 0, len(impacts)),
		Goals:   make([]GoalResponse, 0, len(snap.Goals)),
	}
	for _, progress := range metrics.GoalsProgress(snap.Goals) {
		response.Goals = append(response.Goals, GoalResponse{
			Name:      progress.Goal.Name,
			Currency:  progress.Goal.Currency,
			Current:   progress.Goal.CurrentAmount,
			Target:    progress.Goal.TargetAmount,
			Percent:   progress.Percent,
			Remaining: progress.Remaining,
			Reached:   progress.Reached,
		})
	}
	if funds.Nearest != nil {
		response.FreeFunds.NearestTitle = funds.Nearest.Title
		response.FreeFunds.NearestDue = schedule.NextDue(*funds.Nearest).String()
	}
	for _, impact := range impacts {
		response.Budgets = append(response.Budgets, BudgetImpactResponse{
			Category:          impact.Budget.Category,
			Currency:          impact.Budget.CurrencyOr(base),
			Limit:             impact.Budget.Limit,
			Spent:             impact.Budget.Spent,
			Planned:           impact.Planned,
			ProjectedSpent:    impact.ProjectedSpent,
			ProjectedProgress: impact.ProjectedProgress,
			OverBudget:        impact.OverBudget,
		})
	}

	writeJSONResponse(w, &response)
}

// AccountsResponse is the JSON response structure for the accounts endpoint.
type AccountsResponse struct {
	Accounts []finance.Account `json:"accounts"`
}

// handleAccounts handles GET requests to /api/accounts.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFor(w, r)
	if !ok {
		return
	}
	writeJSONResponse(w, &AccountsResponse{Accounts: snap.Accounts})
}

// UpcomingResponse is the JSON response structure for the upcoming endpoint.
type UpcomingResponse struct {
	Days     int               `json:"days"`
	Payments []UpcomingPayment `json:"payments"`
}

type UpcomingPayment struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Category   string           `json:"category"`
	Amount     decimal.Decimal  `json:"amount"`
	Currency   finance.Currency `json:"currency"`
	Due        string           `json:"due"`
	InDays     int              `json:"inDays"`
	IsRequired bool             `json:"isRequired"`
}

// handleUpcoming handles GET requests to /api/upcoming.
//
// Query parameters:
//   - days: Horizon in days, default 30.
//   - space: Optional filter, "personal" or "business".
func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFor(w, r)
	if !ok {
		return
	}

	days := 30
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid days parameter: "+daysParam, http.StatusBadRequest)
			return
		}
		days = parsed
	}

	today := finance.Today()
	due := planner.Upcoming(snap.PlannedPayments, today, days)

	response := UpcomingResponse{
		Days:     days,
		Payments: make([]UpcomingPayment, 0, len(due)),
	}
	for _, payment := range due {
		next := schedule.NextDue(payment)
		response.Payments = append(response.Payments, UpcomingPayment{
			ID:         payment.ID,
			Title:      payment.Title,
			Category:   payment.Category,
			Amount:     payment.Amount,
			Currency:   payment.Currency,
			Due:        next.String(),
			InDays:     today.DaysUntil(next),
			IsRequired: payment.IsRequired,
		})
	}

	writeJSONResponse(w, &response)
}

// RatesResponse is the JSON response structure for the rates endpoint.
type RatesResponse struct {
	Base  finance.Currency                     `json:"base"`
	Rates map[finance.Currency]decimal.Decimal `json:"rates"`
}

// handleRates handles GET requests to /api/rates.
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, &RatesResponse{
		Base:  s.cfg.BaseCurrency,
		Rates: s.cache.Rates(),
	})
}

// snapshotFor loads the current snapshot and applies the optional space
// query parameter.
func (s *Server) snapshotFor(w http.ResponseWriter, r *http.Request) (*store.Snapshot, bool) {
	snap, err := s.currentSnapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}

	if spaceParam := r.URL.Query().Get("space"); spaceParam != "" {
		space, err := finance.ParseSpace(spaceParam)
		if err != nil {
			http.Error(w, "invalid space: "+spaceParam, http.StatusBadRequest)
			return nil, false
		}
		snap = snap.Filter(space)
	}

	return snap, true
}
