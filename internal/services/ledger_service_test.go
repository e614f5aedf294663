package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tracker/internal/core"
	"tracker/internal/store/memory"
)

func newLedger(t *testing.T) (*LedgerService, Session, *core.Document) {
	t.Helper()
	doc := core.NewDocument()
	doc.Users["ada"] = core.NewAccount("Ada", HashPassword("pw"), core.Money{Cents: 50000})
	svc := NewLedgerService(doc, memory.New(), nil)
	svc.now = func() time.Time {
		return time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
	}
	return svc, Session{UserID: "ada"}, doc
}

func TestAddExpenseAdjustsBalanceAndSpend(t *testing.T) {
	svc, sess, doc := newLedger(t)
	ctx := context.Background()

	amounts := []string{"100", "24.5", "0.05"}
	for _, a := range amounts {
		if _, err := svc.AddExpense(ctx, sess, "Food", a, "x"); err != nil {
			t.Fatalf("add %s: %v", a, err)
		}
	}

	// 500 - (100 + 24.5 + 0.05)
	if got := doc.Users["ada"].Balance.Cents; got != 50000-12455 {
		t.Fatalf("expected balance %d, got %d", 50000-12455, got)
	}
	st, err := svc.BudgetStatus(sess)
	if err != nil {
		t.Fatal(err)
	}
	if st.Spent.Cents != 12455 {
		t.Fatalf("expected spent 12455, got %d", st.Spent.Cents)
	}
}

func TestAddExpenseBalanceMayGoNegative(t *testing.T) {
	svc, sess, doc := newLedger(t)
	if _, err := svc.AddExpense(context.Background(), sess, "Rent", "600", ""); err != nil {
		t.Fatal(err)
	}
	if got := doc.Users["ada"].Balance.Cents; got != -10000 {
		t.Fatalf("expected -10000, got %d", got)
	}
}

func TestAddExpenseRejectsBadAmounts(t *testing.T) {
	svc, sess, doc := newLedger(t)
	ctx := context.Background()

	for _, bad := range []string{"0", "-5", "abc", ""} {
		_, err := svc.AddExpense(ctx, sess, "Food", bad, "x")
		if !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("%q: expected ErrInvalidAmount, got %v", bad, err)
		}
	}

	// A failed add is a no-op: no record, no balance change.
	acct := doc.Users["ada"]
	if len(acct.Expenses["Food"]) != 0 {
		t.Fatalf("failed adds must not create records: %+v", acct.Expenses["Food"])
	}
	if acct.Balance.Cents != 50000 {
		t.Fatalf("failed adds must not change balance, got %d", acct.Balance.Cents)
	}
}

func TestAddExpenseRejectsUnknownCategory(t *testing.T) {
	svc, sess, _ := newLedger(t)
	_, err := svc.AddExpense(context.Background(), sess, "Yachts", "10", "")
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAddThenDeleteRestoresBalance(t *testing.T) {
	svc, sess, doc := newLedger(t)
	ctx := context.Background()

	rec, err := svc.AddExpense(ctx, sess, "Bills", "33.33", "electricity")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteExpense(ctx, sess, "Bills", rec.Amount, rec.Description, rec.Date); err != nil {
		t.Fatal(err)
	}

	acct := doc.Users["ada"]
	if acct.Balance.Cents != 50000 {
		t.Fatalf("balance not restored: %d", acct.Balance.Cents)
	}
	if len(acct.Expenses["Bills"]) != 0 {
		t.Fatalf("record not removed: %+v", acct.Expenses["Bills"])
	}
}

func TestDeleteRemovesOnlyLowestIndexMatch(t *testing.T) {
	svc, sess, doc := newLedger(t)
	ctx := context.Background()

	// Two indistinguishable records: same amount, description, second.
	first, err := svc.AddExpense(ctx, sess, "Food", "10", "dup")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddExpense(ctx, sess, "Food", "10", "dup"); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteExpense(ctx, sess, "Food", first.Amount, "dup", first.Date); err != nil {
		t.Fatal(err)
	}

	acct := doc.Users["ada"]
	if len(acct.Expenses["Food"]) != 1 {
		t.Fatalf("exactly one duplicate should remain, got %d", len(acct.Expenses["Food"]))
	}
	if acct.Balance.Cents != 50000-1000 {
		t.Fatalf("expected balance %d, got %d", 50000-1000, acct.Balance.Cents)
	}
}

func TestDeleteMissingRecord(t *testing.T) {
	svc, sess, doc := newLedger(t)
	err := svc.DeleteExpense(context.Background(), sess, "Food", core.Money{Cents: 100}, "ghost", "2024-01-01 10:00:00")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if doc.Users["ada"].Balance.Cents != 50000 {
		t.Fatalf("failed delete must not change balance")
	}
}

func TestSetBudget(t *testing.T) {
	svc, sess, doc := newLedger(t)
	ctx := context.Background()

	if err := svc.SetBudget(ctx, sess, "250"); err != nil {
		t.Fatal(err)
	}
	if doc.Users["ada"].MonthlyBudget.Cents != 25000 {
		t.Fatalf("budget not set: %d", doc.Users["ada"].MonthlyBudget.Cents)
	}

	for _, bad := range []string{"-1", "x", ""} {
		if err := svc.SetBudget(ctx, sess, bad); !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("%q: expected ErrInvalidAmount, got %v", bad, err)
		}
	}

	// Zero is a valid budget and any spend over it reports over-budget.
	if err := svc.SetBudget(ctx, sess, "0"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddExpense(ctx, sess, "Food", "1", ""); err != nil {
		t.Fatal(err)
	}
	st, err := svc.BudgetStatus(sess)
	if err != nil {
		t.Fatal(err)
	}
	if !st.OverBudget {
		t.Fatalf("spend over a zero budget should be over budget")
	}
}

func TestExportCSV(t *testing.T) {
	svc, sess, doc := newLedger(t)

	doc.Users["ada"].Expenses["Food"] = []core.Record{{
		Amount:      core.Money{Cents: 1250},
		Description: "a,b",
		Date:        "2024-01-01 10:00:00",
	}}

	var sb strings.Builder
	if err := svc.ExportCSV(sess, &sb); err != nil {
		t.Fatal(err)
	}
	want := "Category,Amount,Description,Date\nFood,12.5,a;b,2024-01-01 10:00:00\n"
	if sb.String() != want {
		t.Fatalf("expected %q, got %q", want, sb.String())
	}
}

func TestExportCSVFileFailure(t *testing.T) {
	svc, sess, _ := newLedger(t)
	err := svc.ExportCSVFile(sess, "/nonexistent-dir/out.csv")
	if !errors.Is(err, core.ErrExport) {
		t.Fatalf("expected ErrExport, got %v", err)
	}
}

// failingStore always refuses to save, to exercise the degrade path.
type failingStore struct{}

func (failingStore) Load(context.Context) (*core.Document, error) {
	return core.NewDocument(), nil
}
func (failingStore) Save(context.Context, *core.Document) error {
	return errors.New("disk full")
}
func (failingStore) Close() error { return nil }

func TestPersistenceFailureDoesNotAbortOperation(t *testing.T) {
	doc := core.NewDocument()
	doc.Users["ada"] = core.NewAccount("Ada", "h", core.Money{Cents: 10000})
	svc := NewLedgerService(doc, failingStore{}, nil)
	sess := Session{UserID: "ada"}

	if _, err := svc.AddExpense(context.Background(), sess, "Food", "10", ""); err != nil {
		t.Fatalf("save failure must not fail the operation: %v", err)
	}
	if doc.Users["ada"].Balance.Cents != 9000 {
		t.Fatalf("in-memory mutation should stand, balance=%d", doc.Users["ada"].Balance.Cents)
	}
}
