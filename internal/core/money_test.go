package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{".", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseBudgetAllowsZero(t *testing.T) {
	got, err := ParseBudget("0")
	if err != nil || got.Cents != 0 {
		t.Fatalf("expected 0 cents, got %d (err=%v)", got.Cents, err)
	}
	if _, err := ParseBudget("-5"); err == nil {
		t.Fatalf("expected error for negative budget")
	}
	if _, err := ParseBudget("nope"); err == nil {
		t.Fatalf("expected error for non-numeric budget")
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1250, "12.5"},
		{1200, "12"},
		{1234, "12.34"},
		{1203, "12.03"},
		{5, "0.05"},
		{0, "0"},
		{-1250, "-12.5"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Money{Cents: 1250})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "12.5" {
		t.Fatalf("expected plain number 12.5, got %s", data)
	}

	var m Money
	if err := json.Unmarshal([]byte("12.505"), &m); err != nil {
		t.Fatal(err)
	}
	if m.Cents != 1251 {
		t.Fatalf("expected rounding to 1251 cents, got %d", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"12"`), &m); err == nil {
		t.Fatalf("expected error for non-numeric JSON")
	}
}
