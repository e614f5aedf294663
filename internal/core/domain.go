package core

import (
	"encoding/json"
	"errors"
	"sort"
	"time"
)

// Categories is the fixed set of expense categories, in display order.
// Accounts persisted before a category existed get it migrated in on load.
var Categories = []string{"Rent", "Food", "Bills", "Transportation", "Clothes"}

// DateLayout is the second-granularity timestamp format used by records.
const DateLayout = "2006-01-02 15:04:05"

var (
	ErrValidation       = errors.New("invalid input")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrAuthentication   = errors.New("invalid credentials")
	ErrNotFound         = errors.New("expense not found")
	ErrExport           = errors.New("export failed")
)

type (
	// Record is a single dated monetary outflow. The persisted document
	// carries no record identifiers, so records are matched structurally:
	// cent-exact amount, exact description and exact timestamp within a
	// category, lowest index first.
	Record struct {
		Amount      Money  `json:"amount"`
		Description string `json:"description"`
		Date        string `json:"date"`
	}

	// Account is a registered user with credentials, balance, budget and
	// categorized expense history. Password is an unsalted sha256 hex
	// digest; the document format requires it (see DESIGN.md).
	Account struct {
		Name          string              `json:"name"`
		Password      string              `json:"password"`
		Balance       Money               `json:"balance"`
		MonthlyBudget Money               `json:"monthly_budget"`
		Expenses      map[string][]Record `json:"expenses"`
	}

	// Document is the whole persisted state: account id -> account.
	Document struct {
		Users map[string]*Account `json:"users"`
	}
)

// NewRecord stamps a record with the given time at second granularity.
func NewRecord(amount Money, description string, now time.Time) Record {
	return Record{
		Amount:      amount,
		Description: description,
		Date:        now.Format(DateLayout),
	}
}

// NewAccount creates an account with every predefined category present and
// the monthly budget defaulted to the initial balance.
func NewAccount(name, passwordHash string, balance Money) *Account {
	a := &Account{
		Name:          name,
		Password:      passwordHash,
		Balance:       balance,
		MonthlyBudget: balance,
	}
	a.Normalize()
	return a
}

// NewDocument returns an empty document ready for use.
func NewDocument() *Document {
	return &Document{Users: make(map[string]*Account)}
}

// UnmarshalJSON tolerates field absence in legacy documents: a missing
// balance defaults to zero and a missing monthly_budget to the balance, so
// accounts created before the budget feature inherit their balance.
func (a *Account) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name          string              `json:"name"`
		Password      string              `json:"password"`
		Balance       *Money              `json:"balance"`
		MonthlyBudget *Money              `json:"monthly_budget"`
		Expenses      map[string][]Record `json:"expenses"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Name = raw.Name
	a.Password = raw.Password
	a.Balance = Money{}
	if raw.Balance != nil {
		a.Balance = *raw.Balance
	}
	a.MonthlyBudget = a.Balance
	if raw.MonthlyBudget != nil {
		a.MonthlyBudget = *raw.MonthlyBudget
	}
	a.Expenses = raw.Expenses
	return nil
}

// Normalize ensures the expense map is non-nil and every predefined category
// is present as at least an empty list. Existing data is left untouched.
func (a *Account) Normalize() {
	if a.Expenses == nil {
		a.Expenses = make(map[string][]Record, len(Categories))
	}
	for _, cat := range Categories {
		if _, ok := a.Expenses[cat]; !ok {
			a.Expenses[cat] = []Record{}
		}
	}
}

// Normalize applies account normalization across the whole document.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = make(map[string]*Account)
	}
	for _, a := range d.Users {
		a.Normalize()
	}
}

// CategoryOrder returns category names in deterministic order: the
// predefined set first, then any extras found in the document, sorted.
func CategoryOrder(expenses map[string][]Record) []string {
	out := make([]string, 0, len(expenses))
	seen := make(map[string]bool, len(expenses))
	for _, cat := range Categories {
		if _, ok := expenses[cat]; ok {
			out = append(out, cat)
			seen[cat] = true
		}
	}
	var extras []string
	for cat := range expenses {
		if !seen[cat] {
			extras = append(extras, cat)
		}
	}
	sort.Strings(extras)
	return append(out, extras...)
}
