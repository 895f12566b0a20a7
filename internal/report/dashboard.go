// Package report computes aggregated financial views from transaction sets.
//
// All functions are pure: they never mutate their inputs and hold no state,
// so concurrent callers need no coordination. Sums are accumulated at full
// precision and rounded to cents exactly once, when the output is assembled.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"cardledger/internal/core"
	"cardledger/internal/subs"
)

const topListSize = 10

// bucket accumulates one month of a series at full precision.
type bucket struct {
	month int
	total decimal.Decimal
	count int
}

// Dashboard combines a period scope (headline statistics and drill-downs)
// with a full-year scope (chart series). month narrows the headline scope to
// a single calendar month; zero means the whole year. Chart series always
// cover the full year regardless of the month filter.
func Dashboard(periodRows, yearRows []core.Transaction, month int) (core.DashboardSummary, error) {
	if err := core.ValidateMonth(month); err != nil {
		return core.DashboardSummary{}, err
	}

	trend := monthlyBuckets(yearRows, false)
	income := monthlyBuckets(yearRows, true)

	// Headline statistics narrow to the selected month's cells; the chart
	// series stay full-year.
	periodTrend, periodIncome := trend, income
	if month != 0 {
		periodTrend = filterMonth(trend, month)
		periodIncome = filterMonth(income, month)
	}

	yearTotal := sumBuckets(periodTrend)
	incomeTotal := sumBuckets(periodIncome)

	transactionCount := 0
	for _, b := range periodTrend {
		transactionCount += b.count
	}

	monthsUploaded := len(periodTrend)
	avgMonthly := decimal.Zero
	if monthsUploaded > 0 {
		avgMonthly = yearTotal.Div(decimal.NewFromInt(int64(monthsUploaded)))
	}

	expenses := filterExpenses(periodRows)

	return core.DashboardSummary{
		YearTotal:           core.RoundCents(yearTotal),
		AvgMonthly:          core.RoundCents(avgMonthly),
		TransactionCount:    transactionCount,
		MonthsUploaded:      monthsUploaded,
		IncomeTotal:         core.RoundCents(incomeTotal),
		NetBalance:          core.RoundCents(incomeTotal.Sub(yearTotal)),
		SubscriptionTotal:   core.RoundCents(subscriptionTotal(expenses)),
		MonthlyTrend:        cells(trend),
		MonthlyIncome:       cells(income),
		CategoryBreakdown:   SummarizeCategories(periodRows),
		TopMerchants:        topMerchants(expenses),
		LargestTransactions: largestTransactions(expenses),
	}, nil
}

// SummarizeCategories groups expense rows by category, summing amount and
// count, sorted descending by total.
func SummarizeCategories(rows []core.Transaction) []core.CategoryTotal {
	totals := map[string]*bucket{}
	var order []string
	for _, tx := range filterExpenses(rows) {
		b, ok := totals[tx.Category]
		if !ok {
			b = &bucket{total: decimal.Zero}
			totals[tx.Category] = b
			order = append(order, tx.Category)
		}
		b.total = b.total.Add(tx.Amount)
		b.count++
	}

	out := make([]core.CategoryTotal, 0, len(order))
	for _, cat := range order {
		b := totals[cat]
		out = append(out, core.CategoryTotal{
			Category: cat,
			Total:    core.RoundCents(b.total),
			Count:    b.count,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

func topMerchants(expenses []core.Transaction) []core.MerchantTotal {
	totals := map[string]*bucket{}
	var order []string
	for _, tx := range expenses {
		if tx.Merchant == "" {
			continue
		}
		b, ok := totals[tx.Merchant]
		if !ok {
			b = &bucket{total: decimal.Zero}
			totals[tx.Merchant] = b
			order = append(order, tx.Merchant)
		}
		b.total = b.total.Add(tx.Amount)
		b.count++
	}

	out := make([]core.MerchantTotal, 0, len(order))
	for _, m := range order {
		b := totals[m]
		out = append(out, core.MerchantTotal{
			Merchant: m,
			Total:    core.RoundCents(b.total),
			Count:    b.count,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	if len(out) > topListSize {
		out = out[:topListSize]
	}
	return out
}

func largestTransactions(expenses []core.Transaction) []core.Transaction {
	sorted := make([]core.Transaction, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})
	if len(sorted) > topListSize {
		sorted = sorted[:topListSize]
	}
	return sorted
}

// subscriptionTotal sums expenses matching the full pattern table. User
// exclusions deliberately do not apply here: the headline total shows all
// potential subscriptions while the grouped drill-down view respects
// exclusions. Keep the two behaviors distinct.
func subscriptionTotal(expenses []core.Transaction) decimal.Decimal {
	matcher := subs.Matcher()
	total := decimal.Zero
	for _, tx := range expenses {
		if matcher.MatchString(tx.Description) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

func monthlyBuckets(rows []core.Transaction, income bool) []bucket {
	totals := map[int]*bucket{}
	for _, tx := range rows {
		if (tx.Type == core.TypeIncome) != income {
			continue
		}
		m := int(tx.Date.Month())
		b, ok := totals[m]
		if !ok {
			b = &bucket{month: m, total: decimal.Zero}
			totals[m] = b
		}
		b.total = b.total.Add(tx.Amount)
		b.count++
	}

	out := make([]bucket, 0, len(totals))
	for _, b := range totals {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].month < out[j].month })
	return out
}

func filterMonth(buckets []bucket, month int) []bucket {
	var out []bucket
	for _, b := range buckets {
		if b.month == month {
			out = append(out, b)
		}
	}
	return out
}

func filterExpenses(rows []core.Transaction) []core.Transaction {
	var out []core.Transaction
	for _, tx := range rows {
		if tx.Type == core.TypeExpense {
			out = append(out, tx)
		}
	}
	return out
}

func sumBuckets(buckets []bucket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.total)
	}
	return total
}

func cells(buckets []bucket) []core.MonthCell {
	out := make([]core.MonthCell, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, core.MonthCell{
			Month: b.month,
			Total: core.RoundCents(b.total),
			Count: b.count,
		})
	}
	return out
}
