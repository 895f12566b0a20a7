package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"

	// BatchManual is the sentinel batch ID for manually entered rows.
	BatchManual = "manual"

	// CategoryUncategorized is the default category for rows without one.
	CategoryUncategorized = "Uncategorized"
)

type (
	TransactionType string

	// Transaction is a canonical, persisted financial record. Amount is
	// always a non-negative magnitude; Type encodes expense vs. income.
	Transaction struct {
		ID            int64           `json:"id"`
		Date          time.Time       `json:"date"`
		Description   string          `json:"description"`
		Merchant      string          `json:"merchant"`
		Amount        decimal.Decimal `json:"amount"`
		Category      string          `json:"category"`
		Type          TransactionType `json:"type"`
		UploadBatchID string          `json:"uploadBatchId"`
	}

	// SubscriptionExclusion removes one exact description from subscription
	// classification without altering the stored transaction.
	SubscriptionExclusion struct {
		ID          int64  `json:"id"`
		Description string `json:"description"`
		PatternKey  string `json:"patternKey"`
		Label       string `json:"label"`
	}
)

var (
	ErrInvalidMonth     = errors.New("month must be between 1 and 12")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("type must be expense or income")
	ErrEmptyDescription = errors.New("empty description")
)

func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// ValidateMonth checks an optional month filter. Zero means "no filter".
func ValidateMonth(month int) error {
	if month == 0 {
		return nil
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// PeriodRange returns the half-open [start, end) date range for a year,
// narrowed to a single month when month is 1-12.
func PeriodRange(year, month int) (time.Time, time.Time) {
	if month >= 1 && month <= 12 {
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
