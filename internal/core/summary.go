package core

import "github.com/shopspring/decimal"

// MonthCell is one bucket of a per-month series (1-12).
type MonthCell struct {
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// CategoryTotal is an amount aggregated by category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// MerchantTotal is an amount aggregated by merchant.
type MerchantTotal struct {
	Merchant string          `json:"merchant"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// SubscriptionGroup collects the transactions of one detected subscription.
type SubscriptionGroup struct {
	Key          string          `json:"key"`
	Label        string          `json:"label"`
	Transactions []Transaction   `json:"transactions"`
	Total        decimal.Decimal `json:"total"`
}

// DashboardSummary is the computed dashboard view. It is rebuilt on every
// query and never persisted.
type DashboardSummary struct {
	YearTotal           decimal.Decimal `json:"yearTotal"`
	AvgMonthly          decimal.Decimal `json:"avgMonthly"`
	TransactionCount    int             `json:"transactionCount"`
	MonthsUploaded      int             `json:"monthsUploaded"`
	IncomeTotal         decimal.Decimal `json:"incomeTotal"`
	NetBalance          decimal.Decimal `json:"netBalance"`
	SubscriptionTotal   decimal.Decimal `json:"subscriptionTotal"`
	MonthlyTrend        []MonthCell     `json:"monthlyTrend"`
	MonthlyIncome       []MonthCell     `json:"monthlyIncome"`
	CategoryBreakdown   []CategoryTotal `json:"categoryBreakdown"`
	TopMerchants        []MerchantTotal `json:"topMerchants"`
	LargestTransactions []Transaction   `json:"largestTransactions"`
}
