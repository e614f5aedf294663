// Package core holds the domain model: money, records, accounts and the
// persisted document shape, plus the aggregate calculations over them.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents. Calculations stay in integer cents; the
// persisted document and the CSV export render plain decimal numbers.
type Money struct {
	Cents int64
}

// parseCents converts a decimal string to cents, rounding half-up on the
// third decimal place. Comma is accepted as the decimal separator. Signs are
// rejected; callers decide whether zero is acceptable.
func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || s == "." || s[0] == '+' || s[0] == '-' {
		return 0, ErrInvalidAmount
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || whole > math.MaxInt64/100 {
		return 0, ErrInvalidAmount
	}
	cents := whole * 100
	if len(fracPart) > 0 {
		cents += int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		cents += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		cents++
	}
	return cents, nil
}

// ParseAmount parses a strictly positive decimal amount. Zero is rejected:
// an expense must move the balance.
func ParseAmount(s string) (Money, error) {
	cents, err := parseCents(s)
	if err != nil {
		return Money{}, err
	}
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// ParseBudget parses a non-negative decimal amount; a zero budget is valid.
func ParseBudget(s string) (Money, error) {
	cents, err := parseCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// Positive reports whether the amount is strictly greater than zero.
func (m Money) Positive() bool { return m.Cents > 0 }

// Rupees returns the value as a float64 for display and chart sizing.
// Use cents for calculations.
func (m Money) Rupees() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the amount with the fewest decimal digits needed:
// 1250 cents -> "12.5", 1200 -> "12", 1234 -> "12.34".
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10)
	switch frac := cents % 100; {
	case frac == 0:
	case frac%10 == 0:
		s += "." + strconv.FormatInt(frac/10, 10)
	default:
		s += "." + strconv.FormatInt(frac/10, 10) + strconv.FormatInt(frac%10, 10)
	}
	if neg {
		s = "-" + s
	}
	return s
}

// MarshalJSON writes a plain decimal number so the document keeps the
// legacy numeric shape.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON reads a plain number, rounding to cent precision. Legacy
// files written with arbitrary float amounts land on the nearest cent.
func (m *Money) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	m.Cents = int64(math.Round(f * 100))
	return nil
}
