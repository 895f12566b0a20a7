package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"-45.67", "-45.67"},
		{"500.00", "500"},
		{"0.00", "0"},
		{"$1,204.50", "1204.5"},
		{"-19.999", "-19.999"},
		{"", "0"},
		{"n/a", "0"},
		{"12.34.56", "0"},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.in)
		want, _ := decimal.NewFromString(tc.want)
		if !got.Equal(want) {
			t.Fatalf("ParseAmount(%q) = %s, want %s", tc.in, got, want)
		}
	}
}

func TestRoundCents(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"}, // half away from zero
		{"10.004", "10"},
		{"-10.005", "-10.01"},
		{"20.02", "20.02"},
	}
	for _, tc := range cases {
		in, _ := decimal.NewFromString(tc.in)
		want, _ := decimal.NewFromString(tc.want)
		if got := RoundCents(in); !got.Equal(want) {
			t.Fatalf("RoundCents(%s) = %s, want %s", tc.in, got, want)
		}
	}
}
