package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kopilka/finance"
	"kopilka/planner"
	"kopilka/telemetry"
)

// ApplyProjection persists a projection result atomically: every
// emitted transaction is inserted, every advanced cursor is saved, and
// linked account balances absorb the expense, all in one database
// transaction. Either the whole batch lands or none of it does, so a
// crash mid-apply can never leave a cursor ahead of its transactions.
//
// A transaction denominated in a currency other than its account's is
// recorded without touching the balance; reconciling those is an
// explicit user action, not something to guess a conversion for.
func (s *Store) ApplyProjection(ctx context.Context, result *planner.Result, log *slog.Logger) error {
	timer := telemetry.FromContext(ctx).Start("store.apply_projection")
	defer timer.End()

	if log == nil {
		log = slog.Default()
	}
	if len(result.Transactions) == 0 && len(result.Payments) == 0 {
		return nil
	}

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin projection transaction: %w", err)
	}
	defer dbtx.Rollback()

	deltas := make(map[string]finance.Account)

	for _, tx := range result.Transactions {
		if err := addTransaction(ctx, dbtx, tx); err != nil {
			return err
		}

		if tx.AccountID == "" {
			continue
		}
		account, ok := deltas[tx.AccountID]
		if !ok {
			account, err = s.Account(ctx, tx.AccountID)
			if err != nil {
				return err
			}
		}
		if err := account.Apply(tx); err != nil {
			var mismatch *finance.CurrencyMismatchError
			if errors.As(err, &mismatch) {
				log.Warn("projected transaction left balance untouched",
					"transaction", tx.ID,
					"account", tx.AccountID,
					"account_currency", mismatch.AccountCurrency,
					"transaction_currency", mismatch.AppliedCurrency)
				deltas[tx.AccountID] = account
				continue
			}
			return err
		}
		deltas[tx.AccountID] = account
	}

	for _, account := range deltas {
		if _, err := dbtx.ExecContext(ctx,
			`UPDATE accounts SET balance = ? WHERE id = ?`,
			account.Balance.String(), account.ID); err != nil {
			return fmt.Errorf("update balance of account %s: %w", account.ID, err)
		}
	}

	for _, payment := range result.Payments {
		if err := savePlannedPayment(ctx, dbtx, payment); err != nil {
			return err
		}
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit projection: %w", err)
	}

	log.Info("projection applied",
		"transactions", len(result.Transactions),
		"payments", len(result.Payments))
	return nil
}
