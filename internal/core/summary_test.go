package core

import "testing"

func TestTotals(t *testing.T) {
	expenses := map[string][]Record{
		"Food":  {{Amount: Money{Cents: 1250}}, {Amount: Money{Cents: 750}}},
		"Rent":  {{Amount: Money{Cents: 50000}}},
		"Bills": {},
	}
	if got := Total(expenses["Food"]); got.Cents != 2000 {
		t.Fatalf("expected 2000, got %d", got.Cents)
	}
	if got := TotalSpent(expenses); got.Cents != 52000 {
		t.Fatalf("expected 52000, got %d", got.Cents)
	}
	byCat := SpentByCategory(expenses)
	if byCat["Rent"].Cents != 50000 || byCat["Bills"].Cents != 0 {
		t.Fatalf("unexpected per-category totals: %v", byCat)
	}
}

func TestBudgetStatus(t *testing.T) {
	expenses := map[string][]Record{
		"Food": {{Amount: Money{Cents: 5000}}},
	}

	st := NewBudgetStatus(expenses, Money{Cents: 10000})
	if st.OverBudget {
		t.Fatalf("50 of 100 should not be over budget")
	}
	if st.Percent != 50 {
		t.Fatalf("expected 50%%, got %v", st.Percent)
	}

	st = NewBudgetStatus(expenses, Money{Cents: 4000})
	if !st.OverBudget {
		t.Fatalf("50 of 40 should be over budget")
	}
}

func TestBudgetStatusZeroBudget(t *testing.T) {
	expenses := map[string][]Record{
		"Food": {{Amount: Money{Cents: 1}}},
	}
	st := NewBudgetStatus(expenses, Money{})
	if !st.OverBudget {
		t.Fatalf("any spend against a zero budget is over budget")
	}
	// Denominator falls back to one unit rather than dividing by zero.
	if st.Percent != 1 {
		t.Fatalf("expected 1%%, got %v", st.Percent)
	}
}
