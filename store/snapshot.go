package store

import (
	"context"

	"kopilka/finance"
	"kopilka/telemetry"
)

// Snapshot is a consistent in-memory copy of every record, the shape
// the dashboard and the planner consume.
type Snapshot struct {
	Accounts        []finance.Account
	Transactions    []finance.Transaction
	PlannedPayments []finance.PlannedPayment
	Budgets         []finance.Budget
	Goals           []finance.Goal
	Debts           []finance.Debt
}

// Filter returns a copy narrowed to one space.
func (s *Snapshot) Filter(space finance.Space) *Snapshot {
	return &Snapshot{
		Accounts:        finance.FilterBySpace(s.Accounts, space),
		Transactions:    finance.FilterBySpace(s.Transactions, space),
		PlannedPayments: finance.FilterBySpace(s.PlannedPayments, space),
		Budgets:         finance.FilterBySpace(s.Budgets, space),
		Goals:           finance.FilterBySpace(s.Goals, space),
		Debts:           finance.FilterBySpace(s.Debts, space),
	}
}

// Snapshot loads every table.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	timer := telemetry.FromContext(ctx).Start("store.snapshot")
	defer timer.End()

	var (
		snap Snapshot
		err  error
	)
	if snap.Accounts, err = s.Accounts(ctx); err != nil {
		return nil, err
	}
	if snap.Transactions, err = s.Transactions(ctx); err != nil {
		return nil, err
	}
	if snap.PlannedPayments, err = s.PlannedPayments(ctx); err != nil {
		return nil, err
	}
	if snap.Budgets, err = s.Budgets(ctx); err != nil {
		return nil, err
	}
	if snap.Goals, err = s.Goals(ctx); err != nil {
		return nil, err
	}
	if snap.Debts, err = s.Debts(ctx); err != nil {
		return nil, err
	}
	return &snap, nil
}
