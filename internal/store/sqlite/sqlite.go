// Package sqlite is an alternative document store backed by SQLite. It keeps
// the whole-document contract of the JSON store: Load reconstructs the full
// document and Save replaces all rows in one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (*core.Document, error) {
	doc := core.NewDocument()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, password, balance_cents, monthly_budget_cents FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, name, password string
			balance, budget    int64
		)
		if err := rows.Scan(&id, &name, &password, &balance, &budget); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		acct := &core.Account{
			Name:          name,
			Password:      password,
			Balance:       core.Money{Cents: balance},
			MonthlyBudget: core.Money{Cents: budget},
		}
		acct.Normalize()
		doc.Users[id] = acct
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	// Insertion id preserves append order within each category.
	expRows, err := s.db.QueryContext(ctx,
		`SELECT account_id, category, amount_cents, description, recorded_at FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer expRows.Close()

	for expRows.Next() {
		var (
			accountID, category, description, recordedAt string
			amount                                       int64
		)
		if err := expRows.Scan(&accountID, &category, &amount, &description, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		acct, ok := doc.Users[accountID]
		if !ok {
			continue
		}
		acct.Expenses[category] = append(acct.Expenses[category], core.Record{
			Amount:      core.Money{Cents: amount},
			Description: description,
			Date:        recordedAt,
		})
	}
	if err := expRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	doc.Normalize()
	return doc, nil
}

func (s *Store) Save(ctx context.Context, doc *core.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}

	for id, acct := range doc.Users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (id, name, password, balance_cents, monthly_budget_cents) VALUES (?, ?, ?, ?, ?)`,
			id, acct.Name, acct.Password, acct.Balance.Cents, acct.MonthlyBudget.Cents); err != nil {
			return fmt.Errorf("insert account %s: %w", id, err)
		}
		for _, cat := range core.CategoryOrder(acct.Expenses) {
			for _, rec := range acct.Expenses[cat] {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO expenses (account_id, category, amount_cents, description, recorded_at) VALUES (?, ?, ?, ?, ?)`,
					id, cat, rec.Amount.Cents, rec.Description, rec.Date); err != nil {
					return fmt.Errorf("insert expense for %s: %w", id, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
