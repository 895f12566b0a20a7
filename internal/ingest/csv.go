// Package ingest normalizes heterogeneous bank-card CSV exports into
// candidate transactions.
//
// Card exports encode purchases as negative amounts and payments/credits as
// positive ones. Normalization keeps only the purchases and emits their
// absolute value; rows whose amount fails to parse become zero and fall out
// with the credits. Malformed field values are not errors - only a
// structurally unreadable CSV is.
package ingest

import (
	"encoding/csv"
	"strings"

	"github.com/shopspring/decimal"

	"cardledger/internal/core"
)

// Candidate is a normalized row ready to become a Transaction. The date is
// kept as source text; parsing it is the caller's concern.
type Candidate struct {
	Date        string
	Description string
	Merchant    string
	Category    string
	Amount      decimal.Decimal
}

// ParseError reports a structurally unreadable CSV.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse csv: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Header aliases per logical field, in resolution order. The first alias
// present in the export wins.
var (
	dateAliases        = []string{"Date", "Transaction Date"}
	descriptionAliases = []string{"Description", "Transaction Description"}
	amountAliases      = []string{"Amount", "Debit"}
	merchantAliases    = []string{"Merchant", "Name"}
	categoryAliases    = []string{"Category"}
)

// Normalize parses a CSV export with a header row and returns candidate
// transactions in input order. Empty and header-only input yield no
// candidates and no error.
func Normalize(csvText string) ([]Candidate, error) {
	if strings.TrimSpace(csvText) == "" {
		return nil, nil
	}

	cr := csv.NewReader(strings.NewReader(csvText))
	cr.TrimLeadingSpace = true
	// Exports are frequently ragged; short rows are handled per field.
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if len(records) <= 1 {
		return nil, nil
	}

	header := headerIndex(records[0])

	var out []Candidate
	for _, rec := range records[1:] {
		amount := core.ParseAmount(header.field(rec, amountAliases))
		// Negative = purchase. Zero and positive rows are payments,
		// credits, or garbage; skip them.
		if !amount.IsNegative() {
			continue
		}

		description := header.field(rec, descriptionAliases)
		merchant := header.field(rec, merchantAliases)
		if merchant == "" {
			merchant = description
		}
		category := header.field(rec, categoryAliases)
		if category == "" {
			category = core.CategoryUncategorized
		}

		out = append(out, Candidate{
			Date:        header.field(rec, dateAliases),
			Description: description,
			Merchant:    merchant,
			Category:    category,
			Amount:      amount.Abs(),
		})
	}

	return out, nil
}

// columnIndex maps lowercased header names to their column position.
type columnIndex map[string]int

func headerIndex(headerRow []string) columnIndex {
	idx := make(columnIndex, len(headerRow))
	for i, name := range headerRow {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

func (c columnIndex) field(rec []string, aliases []string) string {
	for _, alias := range aliases {
		if i, ok := c[strings.ToLower(alias)]; ok && i < len(rec) {
			if v := strings.TrimSpace(rec[i]); v != "" {
				return v
			}
		}
	}
	return ""
}
