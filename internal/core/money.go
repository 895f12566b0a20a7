// Package core provides the canonical transaction model and money helpers.
//
// Monetary values are carried as decimal.Decimal throughout the pipeline and
// rounded to cents only at presentation boundaries, never mid-aggregation.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary field from a CSV export. It tolerates a
// currency symbol and thousands separators. Anything unparseable comes back
// as zero so the ingestion sign filter drops the row silently.
//
// Examples:
//
//	ParseAmount("-45.67") -> -45.67
//	ParseAmount("$1,204.50") -> 1204.50
//	ParseAmount("n/a") -> 0
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundCents rounds to two decimal places, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
