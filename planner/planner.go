// Package planner turns recurring payment templates into concrete
// ledger transactions.
//
// Projection is idempotent: each template carries a LastGenerated cursor
// naming the most recent occurrence already emitted, and the engine only
// emits occurrences strictly after it. Running the engine twice with the
// same inputs therefore produces no duplicates.
//
// A malformed template is skipped and reported in the result; it never
// stops projection for the rest of the batch.
package planner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"kopilka/finance"
	"kopilka/schedule"
	"kopilka/telemetry"
)

// Options tunes a projection pass.
type Options struct {
	// FallbackAccountID is assigned to transactions whose template has
	// no linked account.
	FallbackAccountID string

	// NewID generates transaction IDs; defaults to random UUIDs.
	NewID func() string
}

func (o Options) newID() string {
	if o.NewID != nil {
		return o.NewID()
	}
	return uuid.NewString()
}

// Result is the outcome of one projection pass. Transactions are the
// newly emitted ledger entries; Payments holds only the templates whose
// cursor advanced. Both are meant to be persisted together by the
// caller.
type Result struct {
	Transactions []finance.Transaction
	Payments     []finance.PlannedPayment
	Errors       []error
}

// Err returns all per-template failures wrapped together, or nil when
// every template projected cleanly.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &ProjectionErrors{Errors: r.Errors}
}

// InvalidTemplateError reports a template the engine refused to project.
type InvalidTemplateError struct {
	PaymentID string
	Title     string
	Reason    string
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("planned payment %s (%q): %s", e.PaymentID, e.Title, e.Reason)
}

// ProjectionErrors wraps the per-template failures of a projection pass.
type ProjectionErrors struct {
	Errors []error
}

func (e *ProjectionErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d planned payments skipped", len(e.Errors))
}

// Unwrap returns the underlying errors for errors.As chains.
func (e *ProjectionErrors) Unwrap() []error {
	return e.Errors
}

// Project enumerates every due occurrence of every recurring template up
// to and including today and emits one transaction per occurrence.
// Non-recurring payments are never auto-projected; they stay visible as
// upcoming reminders until the user acts on them.
func Project(ctx context.Context, payments []finance.PlannedPayment, today finance.Date, opts Options) *Result {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("planner.project %s", today))
	defer timer.End()

	result := &Result{}

	for _, payment := range payments {
		if !payment.Recurring {
			continue
		}

		if err := validate(payment); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}

		emitted, updated, err := projectOne(payment, today, opts)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		if len(emitted) == 0 {
			continue
		}

		result.Transactions = append(result.Transactions, emitted...)
		result.Payments = append(result.Payments, updated)
	}

	return result
}

// validate rejects templates the engine cannot project safely.
func validate(p finance.PlannedPayment) error {
	if _, err := schedule.ParsePattern(string(p.Pattern)); err != nil {
		return &InvalidTemplateError{PaymentID: p.ID, Title: p.Title, Reason: err.Error()}
	}
	if p.Date.IsZero() {
		return &InvalidTemplateError{PaymentID: p.ID, Title: p.Title, Reason: "missing anchor date"}
	}
	if p.EndDate != nil && p.EndDate.Before(p.Date) {
		return &InvalidTemplateError{
			PaymentID: p.ID,
			Title:     p.Title,
			Reason:    fmt.Sprintf("end date %s is before anchor date %s", p.EndDate, p.Date),
		}
	}
	if p.LastGenerated != nil && p.LastGenerated.Before(p.Date) {
		return &InvalidTemplateError{
			PaymentID: p.ID,
			Title:     p.Title,
			Reason:    fmt.Sprintf("cursor %s is before anchor date %s", p.LastGenerated, p.Date),
		}
	}
	return nil
}

// projectOne walks a single template's occurrences. The cursor starts at
// the stored LastGenerated (or the anchor, which itself is the first
// occurrence) and advances until it passes today or the template's end
// date. Only occurrences strictly after the stored cursor are emitted,
// so the anchor is emitted exactly when no cursor exists yet.
func projectOne(p finance.PlannedPayment, today finance.Date, opts Options) ([]finance.Transaction, finance.PlannedPayment, error) {
	cursor := p.Date
	if p.LastGenerated != nil {
		cursor = *p.LastGenerated
	}

	var (
		emitted     []finance.Transaction
		lastEmitted finance.Date
	)

	for !cursor.After(today) && (p.EndDate == nil || !cursor.After(*p.EndDate)) {
		if p.LastGenerated == nil || cursor.After(*p.LastGenerated) {
			emitted = append(emitted, transactionFor(p, cursor, opts))
			lastEmitted = cursor
		}

		next, err := schedule.NextOccurrence(cursor, p.Pattern)
		if err != nil {
			return nil, p, &InvalidTemplateError{PaymentID: p.ID, Title: p.Title, Reason: err.Error()}
		}
		cursor = next
	}

	if len(emitted) == 0 {
		return nil, p, nil
	}

	// The cursor records the last occurrence actually emitted, not the
	// overshoot the loop stopped on.
	p.LastGenerated = &lastEmitted
	return emitted, p, nil
}

func transactionFor(p finance.PlannedPayment, occurrence finance.Date, opts Options) finance.Transaction {
	accountID := p.AccountID
	if accountID == "" {
		accountID = opts.FallbackAccountID
	}

	return finance.Transaction{
		ID:          opts.newID(),
		Type:        finance.Expense,
		Category:    p.Category,
		Amount:      p.Amount,
		Currency:    p.Currency,
		AccountID:   accountID,
		Date:        occurrence,
		Description: p.Title,
		Space:       p.Space,
	}
}
