package store

import (
	"context"
	"database/sql"
	"fmt"

	"kopilka/finance"
)

// Accounts returns every account, ordered by name.
func (s *Store) Accounts(ctx context.Context) ([]finance.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, balance, currency, kind, space FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []finance.Account
	for rows.Next() {
		var (
			a       finance.Account
			balance string
		)
		if err := rows.Scan(&a.ID, &a.Name, &balance, &a.Currency, &a.Kind, &a.Space); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		if a.Balance, err = parseAmount(balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Account returns a single account by id.
func (s *Store) Account(ctx context.Context, id string) (finance.Account, error) {
	var (
		a       finance.Account
		balance string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, balance, currency, kind, space FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &balance, &a.Currency, &a.Kind, &a.Space)
	if err == sql.ErrNoRows {
		return a, fmt.Errorf("account %s not found", id)
	}
	if err != nil {
		return a, fmt.Errorf("query account %s: %w", id, err)
	}
	a.Balance, err = parseAmount(balance)
	return a, err
}

// SaveAccount inserts or updates an account.
func (s *Store) SaveAccount(ctx context.Context, a finance.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, balance, currency, kind, space)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			balance = excluded.balance,
			currency = excluded.currency,
			kind = excluded.kind,
			space = excluded.space`,
		a.ID, a.Name, a.Balance.String(), a.Currency, a.Kind, a.Space)
	if err != nil {
		return fmt.Errorf("save account %s: %w", a.ID, err)
	}
	return nil
}

// Transactions returns every transaction, newest first.
func (s *Store) Transactions(ctx context.Context) ([]finance.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, category, amount, currency, transaction_currency,
		       account_id, date, description, fee, space
		FROM transactions ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []finance.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func scanTransaction(rows *sql.Rows) (finance.Transaction, error) {
	var (
		tx          finance.Transaction
		amount, fee string
		date        string
	)
	if err := rows.Scan(&tx.ID, &tx.Type, &tx.Category, &amount, &tx.Currency,
		&tx.TransactionCurrency, &tx.AccountID, &date, &tx.Description, &fee, &tx.Space); err != nil {
		return tx, fmt.Errorf("scan transaction: %w", err)
	}

	var err error
	if tx.Amount, err = parseAmount(amount); err != nil {
		return tx, err
	}
	if tx.Fee, err = parseAmount(fee); err != nil {
		return tx, err
	}
	parsed, err := parseDate(date)
	if err != nil {
		return tx, err
	}
	if parsed != nil {
		tx.Date = *parsed
	}
	return tx, nil
}

// AddTransaction inserts a new transaction.
func (s *Store) AddTransaction(ctx context.Context, tx finance.Transaction) error {
	return addTransaction(ctx, s.db, tx)
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func addTransaction(ctx context.Context, db execer, tx finance.Transaction) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO transactions (id, type, category, amount, currency,
			transaction_currency, account_id, date, description, fee, space)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Type, tx.Category, tx.Amount.String(), tx.Currency,
		tx.TransactionCurrency, tx.AccountID, tx.Date.String(), tx.Description,
		tx.Fee.String(), tx.Space)
	if err != nil {
		return fmt.Errorf("insert transaction %s: %w", tx.ID, err)
	}
	return nil
}

// PlannedPayments returns every planned payment, soonest anchor first.
func (s *Store) PlannedPayments(ctx context.Context) ([]finance.PlannedPayment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, amount, currency, date, category, account_id,
		       recurring, pattern, last_generated, end_date, is_required, status, space
		FROM planned_payments ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query planned payments: %w", err)
	}
	defer rows.Close()

	var payments []finance.PlannedPayment
	for rows.Next() {
		var (
			p                finance.PlannedPayment
			amount, date     string
			lastGen, endDate sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &amount, &p.Currency,
			&date, &p.Category, &p.AccountID, &p.Recurring,
			&p.Pattern, &lastGen, &endDate, &p.IsRequired,
			&p.Status, &p.Space); err != nil {
			return nil, fmt.Errorf("scan planned payment: %w", err)
		}

		if p.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		anchor, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		if anchor != nil {
			p.Date = *anchor
		}
		if p.LastGenerated, err = parseDate(lastGen.String); err != nil {
			return nil, err
		}
		if p.EndDate, err = parseDate(endDate.String); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// SavePlannedPayment inserts or updates a planned payment template.
func (s *Store) SavePlannedPayment(ctx context.Context, p finance.PlannedPayment) error {
	return savePlannedPayment(ctx, s.db, p)
}

func savePlannedPayment(ctx context.Context, db execer, p finance.PlannedPayment) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO planned_payments (id, title, amount, currency, date, category,
			account_id, recurring, pattern, last_generated, end_date, is_required, status, space)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			amount = excluded.amount,
			currency = excluded.currency,
			date = excluded.date,
			category = excluded.category,
			account_id = excluded.account_id,
			recurring = excluded.recurring,
			pattern = excluded.pattern,
			last_generated = excluded.last_generated,
			end_date = excluded.end_date,
			is_required = excluded.is_required,
			status = excluded.status,
			space = excluded.space`,
		p.ID, p.Title, p.Amount.String(), p.Currency, p.Date.String(), p.Category,
		p.AccountID, p.Recurring, p.Pattern, dateString(p.LastGenerated),
		dateString(p.EndDate), p.IsRequired, p.Status, p.Space)
	if err != nil {
		return fmt.Errorf("save planned payment %s: %w", p.ID, err)
	}
	return nil
}

// DeletePlannedPayment removes a template. Past generated transactions
// are deliberately left in place.
func (s *Store) DeletePlannedPayment(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM planned_payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete planned payment %s: %w", id, err)
	}
	return nil
}

// Budgets returns every budget.
func (s *Store) Budgets(ctx context.Context) ([]finance.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, limit_amount, spent_amount, currency, period, space
		 FROM budgets ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []finance.Budget
	for rows.Next() {
		var (
			b            finance.Budget
			limit, spent string
		)
		if err := rows.Scan(&b.ID, &b.Category, &limit, &spent, &b.Currency, &b.Period, &b.Space); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if b.Limit, err = parseAmount(limit); err != nil {
			return nil, err
		}
		if b.Spent, err = parseAmount(spent); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// SaveBudget inserts or updates a budget.
func (s *Store) SaveBudget(ctx context.Context, b finance.Budget) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, category, limit_amount, spent_amount, currency, period, space)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			category = excluded.category,
			limit_amount = excluded.limit_amount,
			spent_amount = excluded.spent_amount,
			currency = excluded.currency,
			period = excluded.period,
			space = excluded.space`,
		b.ID, b.Category, b.Limit.String(), b.Spent.String(), b.Currency, b.Period, b.Space)
	if err != nil {
		return fmt.Errorf("save budget %s: %w", b.ID, err)
	}
	return nil
}

// Goals returns every savings goal.
func (s *Store) Goals(ctx context.Context) ([]finance.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, current_amount, target_amount, currency, space FROM goals ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var goals []finance.Goal
	for rows.Next() {
		var (
			g               finance.Goal
			current, target string
		)
		if err := rows.Scan(&g.ID, &g.Name, &current, &target, &g.Currency, &g.Space); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.CurrentAmount, err = parseAmount(current); err != nil {
			return nil, err
		}
		if g.TargetAmount, err = parseAmount(target); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// SaveGoal inserts or updates a goal.
func (s *Store) SaveGoal(ctx context.Context, g finance.Goal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, name, current_amount, target_amount, currency, space)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			current_amount = excluded.current_amount,
			target_amount = excluded.target_amount,
			currency = excluded.currency,
			space = excluded.space`,
		g.ID, g.Name, g.CurrentAmount.String(), g.TargetAmount.String(), g.Currency, g.Space)
	if err != nil {
		return fmt.Errorf("save goal %s: %w", g.ID, err)
	}
	return nil
}

// Debts returns every debt.
func (s *Store) Debts(ctx context.Context) ([]finance.Debt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, person, amount, currency, description, due_date, is_paid, space
		 FROM debts ORDER BY person`)
	if err != nil {
		return nil, fmt.Errorf("query debts: %w", err)
	}
	defer rows.Close()

	var debts []finance.Debt
	for rows.Next() {
		var (
			d       finance.Debt
			amount  string
			dueDate sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.Type, &d.Person, &amount, &d.Currency,
			&d.Description, &dueDate, &d.IsPaid, &d.Space); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		if d.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		if d.DueDate, err = parseDate(dueDate.String); err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// SaveDebt inserts or updates a debt.
func (s *Store) SaveDebt(ctx context.Context, d finance.Debt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO debts (id, type, person, amount, currency, description, due_date, is_paid, space)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			type = excluded.type,
			person = excluded.person,
			amount = excluded.amount,
			currency = excluded.currency,
			description = excluded.description,
			due_date = excluded.due_date,
			is_paid = excluded.is_paid,
			space = excluded.space`,
		d.ID, d.Type, d.Person, d.Amount.String(), d.Currency, d.Description,
		dateString(d.DueDate), d.IsPaid, d.Space)
	if err != nil {
		return fmt.Errorf("save debt %s: %w", d.ID, err)
	}
	return nil
}
