package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"tracker/internal/core"
	"tracker/internal/store"
)

// csvHeader is the fixed first line of every export.
const csvHeader = "Category,Amount,Description,Date"

// LedgerService implements the expense, budget and export operations for a
// logged-in account.
type LedgerService struct {
	doc    *core.Document
	store  store.DocumentStore
	logger *slog.Logger

	// now is the clock used to stamp records; tests substitute it.
	now func() time.Time
}

func NewLedgerService(doc *core.Document, st store.DocumentStore, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{doc: doc, store: st, logger: logger, now: time.Now}
}

func (s *LedgerService) account(sess Session) (*core.Account, error) {
	acct, ok := s.doc.Users[sess.UserID]
	if !ok {
		return nil, core.ErrAuthentication
	}
	return acct, nil
}

// AddExpense parses the amount, appends a record and decrements the balance.
// The balance may go negative; overspending is the user's business. On any
// failure no record is added and the balance is untouched.
func (s *LedgerService) AddExpense(ctx context.Context, sess Session, category, amountText, description string) (core.Record, error) {
	acct, err := s.account(sess)
	if err != nil {
		return core.Record{}, err
	}
	amount, err := core.ParseAmount(amountText)
	if err != nil {
		return core.Record{}, fmt.Errorf("%w: amount must be a positive number", core.ErrInvalidAmount)
	}
	if _, ok := acct.Expenses[category]; !ok {
		return core.Record{}, fmt.Errorf("%w: unknown category %q", core.ErrValidation, category)
	}

	rec := core.NewRecord(amount, strings.TrimSpace(description), s.now())
	acct.Expenses[category] = append(acct.Expenses[category], rec)
	acct.Balance = acct.Balance.Sub(amount)
	persist(ctx, s.store, s.logger, s.doc)

	s.logger.Info("Expense added",
		"account", sess.UserID,
		"category", category,
		"amount_cents", amount.Cents,
		"balance_cents", acct.Balance.Cents)
	return rec, nil
}

// DeleteExpense removes the first record in the category matching amount,
// description and timestamp, and restores its amount to the balance. Two
// records created in the same second with identical amount and description
// are indistinguishable; the lowest index wins.
func (s *LedgerService) DeleteExpense(ctx context.Context, sess Session, category string, amount core.Money, description, date string) error {
	acct, err := s.account(sess)
	if err != nil {
		return err
	}

	records := acct.Expenses[category]
	for i, rec := range records {
		if rec.Amount.Cents == amount.Cents && rec.Description == description && rec.Date == date {
			acct.Expenses[category] = append(records[:i], records[i+1:]...)
			acct.Balance = acct.Balance.Add(amount)
			persist(ctx, s.store, s.logger, s.doc)

			s.logger.Info("Expense deleted",
				"account", sess.UserID,
				"category", category,
				"amount_cents", amount.Cents)
			return nil
		}
	}
	return core.ErrNotFound
}

// SetBudget parses and persists a new monthly budget. Already-spent totals
// are not validated against it.
func (s *LedgerService) SetBudget(ctx context.Context, sess Session, amountText string) error {
	acct, err := s.account(sess)
	if err != nil {
		return err
	}
	budget, err := core.ParseBudget(amountText)
	if err != nil {
		return fmt.Errorf("%w: budget must be a non-negative number", core.ErrInvalidAmount)
	}
	acct.MonthlyBudget = budget
	persist(ctx, s.store, s.logger, s.doc)

	s.logger.Info("Budget set", "account", sess.UserID, "budget_cents", budget.Cents)
	return nil
}

// BudgetStatus reports total spend against the monthly budget.
func (s *LedgerService) BudgetStatus(sess Session) (core.BudgetStatus, error) {
	acct, err := s.account(sess)
	if err != nil {
		return core.BudgetStatus{}, err
	}
	return core.NewBudgetStatus(acct.Expenses, acct.MonthlyBudget), nil
}

// Entry is a record paired with its category, for listing and export.
type Entry struct {
	Category string
	core.Record
}

// Entries returns every record across all categories in deterministic
// category order, preserving append order within a category.
func (s *LedgerService) Entries(sess Session) ([]Entry, error) {
	acct, err := s.account(sess)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, cat := range core.CategoryOrder(acct.Expenses) {
		for _, rec := range acct.Expenses[cat] {
			out = append(out, Entry{Category: cat, Record: rec})
		}
	}
	return out, nil
}

// ExportCSV writes all records as CSV. Commas inside descriptions become
// semicolons; there is no other quoting or escaping, matching the legacy
// export byte for byte.
func (s *LedgerService) ExportCSV(sess Session, w io.Writer) error {
	entries, err := s.Entries(sess)
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString(csvHeader + "\n")
	for _, e := range entries {
		desc := strings.ReplaceAll(e.Description, ",", ";")
		b.WriteString(e.Category + "," + e.Amount.String() + "," + desc + "," + e.Date + "\n")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("%w: %v", core.ErrExport, err)
	}
	return nil
}

// ExportCSVFile writes the export to a file at the given path.
func (s *LedgerService) ExportCSVFile(sess Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrExport, err)
	}
	defer f.Close()

	if err := s.ExportCSV(sess, f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrExport, err)
	}
	s.logger.Info("Expenses exported", "account", sess.UserID, "path", path)
	return nil
}
