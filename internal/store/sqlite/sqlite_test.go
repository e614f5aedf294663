package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"tracker/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestLoadEmptyDatabase(t *testing.T) {
	st := newTestStore(t)
	doc, err := st.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Users) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	doc := core.NewDocument()
	acct := core.NewAccount("Ada", "hash", core.Money{Cents: 50000})
	acct.Expenses["Food"] = append(acct.Expenses["Food"],
		core.Record{Amount: core.Money{Cents: 1250}, Description: "lunch", Date: "2024-01-01 10:00:00"},
		core.Record{Amount: core.Money{Cents: 750}, Description: "", Date: "2024-01-01 12:00:00"},
	)
	doc.Users["ada"] = acct

	if err := st.Save(ctx, doc); err != nil {
		t.Fatal(err)
	}
	loaded, err := st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}

	got := loaded.Users["ada"]
	if got == nil {
		t.Fatalf("account missing after round trip")
	}
	if got.Balance.Cents != 50000 || got.MonthlyBudget.Cents != 50000 || got.Password != "hash" {
		t.Fatalf("account fields disturbed: %+v", got)
	}
	food := got.Expenses["Food"]
	if len(food) != 2 {
		t.Fatalf("expected 2 Food records, got %d", len(food))
	}
	// Append order must survive the round trip.
	if food[0].Description != "lunch" || food[1].Date != "2024-01-01 12:00:00" {
		t.Fatalf("record order disturbed: %+v", food)
	}
	for _, cat := range core.Categories {
		if _, ok := got.Expenses[cat]; !ok {
			t.Fatalf("category %q missing after load", cat)
		}
	}
}

func TestSaveReplacesPreviousState(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	doc := core.NewDocument()
	doc.Users["ada"] = core.NewAccount("Ada", "h", core.Money{Cents: 100})
	if err := st.Save(ctx, doc); err != nil {
		t.Fatal(err)
	}

	// A later save without the account removes it entirely.
	if err := st.Save(ctx, core.NewDocument()); err != nil {
		t.Fatal(err)
	}
	loaded, err := st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Users) != 0 {
		t.Fatalf("stale accounts survived: %+v", loaded.Users)
	}
}
