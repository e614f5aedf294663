package core

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestNewAccountHasAllCategories(t *testing.T) {
	a := NewAccount("Ada", "hash", Money{Cents: 50000})
	if len(a.Expenses) != len(Categories) {
		t.Fatalf("expected %d categories, got %d", len(Categories), len(a.Expenses))
	}
	for _, cat := range Categories {
		records, ok := a.Expenses[cat]
		if !ok || records == nil || len(records) != 0 {
			t.Fatalf("category %q should exist as an empty list", cat)
		}
	}
	if a.MonthlyBudget != a.Balance {
		t.Fatalf("budget should default to balance, got %v vs %v", a.MonthlyBudget, a.Balance)
	}
}

func TestAccountUnmarshalDefaults(t *testing.T) {
	// Legacy account: no balance, no monthly_budget, partial categories.
	raw := `{"name":"Ada","password":"abc","expenses":{"Food":[{"amount":12.5,"description":"a,b","date":"2024-01-01 10:00:00"}]}}`
	var a Account
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatal(err)
	}
	if a.Balance.Cents != 0 {
		t.Fatalf("missing balance should default to 0, got %d", a.Balance.Cents)
	}
	if a.MonthlyBudget.Cents != 0 {
		t.Fatalf("missing budget should default to balance, got %d", a.MonthlyBudget.Cents)
	}

	a.Normalize()
	for _, cat := range Categories {
		if _, ok := a.Expenses[cat]; !ok {
			t.Fatalf("normalize should insert category %q", cat)
		}
	}
	// Existing data must survive migration.
	food := a.Expenses["Food"]
	if len(food) != 1 || food[0].Amount.Cents != 1250 || food[0].Description != "a,b" {
		t.Fatalf("existing Food records disturbed: %+v", food)
	}
}

func TestAccountUnmarshalBudgetInheritsBalance(t *testing.T) {
	raw := `{"name":"Ada","password":"abc","balance":200,"expenses":{}}`
	var a Account
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatal(err)
	}
	if a.MonthlyBudget.Cents != 20000 {
		t.Fatalf("budget should inherit balance, got %d", a.MonthlyBudget.Cents)
	}

	// An explicit zero budget stays zero.
	raw = `{"name":"Ada","password":"abc","balance":200,"monthly_budget":0,"expenses":{}}`
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatal(err)
	}
	if a.MonthlyBudget.Cents != 0 {
		t.Fatalf("explicit zero budget overwritten to %d", a.MonthlyBudget.Cents)
	}
}

func TestNewRecordTimestamp(t *testing.T) {
	now := time.Date(2024, 1, 2, 10, 30, 45, 999, time.Local)
	r := NewRecord(Money{Cents: 100}, "coffee", now)
	if r.Date != "2024-01-02 10:30:45" {
		t.Fatalf("unexpected timestamp %q", r.Date)
	}
}

func TestCategoryOrder(t *testing.T) {
	expenses := map[string][]Record{
		"Zoo":            {},
		"Food":           {},
		"Rent":           {},
		"Transportation": {},
		"Aquarium":       {},
	}
	got := CategoryOrder(expenses)
	want := []string{"Rent", "Food", "Transportation", "Aquarium", "Zoo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
