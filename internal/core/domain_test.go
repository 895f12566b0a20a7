package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Description: "NETFLIX.COM",
		Amount:      decimal.NewFromFloat(15.49),
		Type:        TypeExpense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Description: "   ", Amount: decimal.NewFromInt(1), Type: TypeExpense},
		{Description: "a", Amount: decimal.NewFromInt(-1), Type: TypeExpense},
		{Description: "a", Amount: decimal.NewFromInt(1), Type: "refund"},
	}
	for i, tr := range bads {
		if err := tr.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestValidateMonth(t *testing.T) {
	cases := []struct {
		month int
		ok    bool
	}{
		{0, true}, {1, true}, {12, true},
		{-1, false}, {13, false}, {100, false},
	}
	for _, tc := range cases {
		err := ValidateMonth(tc.month)
		if tc.ok && err != nil {
			t.Fatalf("month %d: expected ok, got %v", tc.month, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("month %d: expected error", tc.month)
		}
	}
}

func TestPeriodRange(t *testing.T) {
	start, end := PeriodRange(2026, 0)
	if start.Year() != 2026 || start.Month() != 1 || start.Day() != 1 {
		t.Fatalf("unexpected year start %v", start)
	}
	if end.Year() != 2027 || end.Month() != 1 {
		t.Fatalf("unexpected year end %v", end)
	}

	start, end = PeriodRange(2026, 12)
	if start.Month() != 12 {
		t.Fatalf("unexpected month start %v", start)
	}
	if end.Year() != 2027 || end.Month() != 1 {
		t.Fatalf("december range must roll into january, got %v", end)
	}
}
