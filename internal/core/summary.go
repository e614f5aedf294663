package core

// Total sums the amounts of a record list.
func Total(records []Record) Money {
	var sum Money
	for _, r := range records {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// SpentByCategory returns the per-category totals of an expense mapping.
func SpentByCategory(expenses map[string][]Record) map[string]Money {
	out := make(map[string]Money, len(expenses))
	for cat, records := range expenses {
		out[cat] = Total(records)
	}
	return out
}

// TotalSpent sums every record across all categories.
func TotalSpent(expenses map[string][]Record) Money {
	var sum Money
	for _, records := range expenses {
		sum = sum.Add(Total(records))
	}
	return sum
}

// BudgetStatus compares total recorded spend against the monthly budget.
type BudgetStatus struct {
	Spent      Money
	Budget     Money
	OverBudget bool
	// Percent is spend as a share of the budget. A zero budget uses a
	// one-unit denominator so progress indicators never divide by zero.
	Percent float64
}

// NewBudgetStatus computes the budget status for an expense mapping.
func NewBudgetStatus(expenses map[string][]Record, budget Money) BudgetStatus {
	spent := TotalSpent(expenses)
	denom := budget.Rupees()
	if denom <= 0 {
		denom = 1
	}
	return BudgetStatus{
		Spent:      spent,
		Budget:     budget,
		OverBudget: spent.Cents > budget.Cents,
		Percent:    spent.Rupees() / denom * 100,
	}
}
