package chart

import (
	"fmt"
	"os"
	"path/filepath"

	gochart "github.com/wcharczuk/go-chart/v2"

	"tracker/internal/core"
)

// PieRenderer draws per-category totals plus the remaining balance as a pie
// chart PNG named <accountID>_pie.png, overwritten on every render.
type PieRenderer struct {
	// Dir is where chart files are written; empty means the working
	// directory.
	Dir string

	// Size is the square image edge in pixels; zero means 700.
	Size int
}

func (p *PieRenderer) Render(expenses map[string][]core.Record, balance core.Money, accountID string) (string, error) {
	var values []gochart.Value
	var total core.Money
	for _, cat := range core.CategoryOrder(expenses) {
		sum := core.Total(expenses[cat])
		if sum.Positive() {
			values = append(values, gochart.Value{
				Value: sum.Rupees(),
				Label: fmt.Sprintf("%s: ₹%s", cat, sum),
			})
			total = total.Add(sum)
		}
	}
	// The remaining balance joins the pie only while there is something left.
	if balance.Positive() {
		values = append(values, gochart.Value{
			Value: balance.Rupees(),
			Label: "Balance: ₹" + balance.String(),
		})
		total = total.Add(balance)
	}
	if len(values) == 0 {
		return "", ErrNoData
	}

	size := p.Size
	if size <= 0 {
		size = 700
	}
	pie := gochart.PieChart{
		Title:  fmt.Sprintf("Expense & Balance for %s (Total: ₹%s)", accountID, total),
		Width:  size,
		Height: size,
		Values: values,
	}

	path := filepath.Join(p.Dir, accountID+"_pie.png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := pie.Render(gochart.PNG, f); err != nil {
		return "", fmt.Errorf("render pie chart: %w", err)
	}
	return path, nil
}
