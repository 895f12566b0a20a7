package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardledger/internal/core"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func expense(month int, amount string, desc string) core.Transaction {
	return transaction(month, amount, desc, core.TypeExpense)
}

func income(month int, amount string, desc string) core.Transaction {
	return transaction(month, amount, desc, core.TypeIncome)
}

func transaction(month int, amount, desc string, typ core.TransactionType) core.Transaction {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		Date:        date(2026, month, 15),
		Description: desc,
		Merchant:    desc,
		Amount:      d,
		Category:    "Shopping",
		Type:        typ,
	}
}

func decEq(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	w, err := decimal.NewFromString(want)
	require.NoError(t, err)
	assert.True(t, w.Equal(got), "want %s, got %s %v", w, got, msgAndArgs)
}

func TestDashboardFullYear(t *testing.T) {
	rows := []core.Transaction{
		expense(1, "100", "GROCERY MART"),
		income(1, "500", "PAYCHECK"),
		expense(2, "50", "HARDWARE STORE"),
	}

	sum, err := Dashboard(rows, rows, 0)
	require.NoError(t, err)

	decEq(t, "150", sum.YearTotal)
	decEq(t, "500", sum.IncomeTotal)
	assert.Equal(t, 2, sum.MonthsUploaded)
	decEq(t, "75", sum.AvgMonthly)
	decEq(t, "350", sum.NetBalance)
	assert.Equal(t, 2, sum.TransactionCount)

	require.Len(t, sum.MonthlyTrend, 2)
	assert.Equal(t, 1, sum.MonthlyTrend[0].Month)
	assert.Equal(t, 2, sum.MonthlyTrend[1].Month)
	require.Len(t, sum.MonthlyIncome, 1)
	assert.Equal(t, 1, sum.MonthlyIncome[0].Month)
	decEq(t, "500", sum.MonthlyIncome[0].Total)
}

func TestDashboardMonthFilter(t *testing.T) {
	yearRows := []core.Transaction{
		expense(1, "100", "GROCERY MART"),
		income(1, "500", "PAYCHECK"),
		expense(2, "50", "HARDWARE STORE"),
	}
	periodRows := []core.Transaction{yearRows[0], yearRows[1]}

	sum, err := Dashboard(periodRows, yearRows, 1)
	require.NoError(t, err)

	decEq(t, "100", sum.YearTotal)
	decEq(t, "500", sum.IncomeTotal)
	assert.Equal(t, 1, sum.MonthsUploaded)
	decEq(t, "100", sum.AvgMonthly)

	// Chart series keep full-year granularity under a month filter.
	require.Len(t, sum.MonthlyTrend, 2)
	assert.Equal(t, 2, sum.MonthlyTrend[1].Month)
	decEq(t, "50", sum.MonthlyTrend[1].Total)
}

func TestDashboardEmptySelectedMonth(t *testing.T) {
	yearRows := []core.Transaction{expense(2, "50", "HARDWARE STORE")}

	sum, err := Dashboard(nil, yearRows, 1)
	require.NoError(t, err)

	assert.Equal(t, 0, sum.MonthsUploaded)
	decEq(t, "0", sum.YearTotal)
	decEq(t, "0", sum.AvgMonthly)
}

func TestDashboardInvalidMonth(t *testing.T) {
	for _, month := range []int{-1, 13, 99} {
		_, err := Dashboard(nil, nil, month)
		require.ErrorIs(t, err, core.ErrInvalidMonth, "month %d", month)
	}
}

func TestDashboardEmptyInput(t *testing.T) {
	sum, err := Dashboard(nil, nil, 0)
	require.NoError(t, err)

	decEq(t, "0", sum.YearTotal)
	decEq(t, "0", sum.NetBalance)
	assert.Equal(t, 0, sum.MonthsUploaded)
	assert.Empty(t, sum.MonthlyTrend)
	assert.Empty(t, sum.CategoryBreakdown)
	assert.Empty(t, sum.TopMerchants)
	assert.Empty(t, sum.LargestTransactions)
}

func TestDashboardRoundsOnceAtAssembly(t *testing.T) {
	rows := []core.Transaction{
		expense(1, "10.005", "STORE A"),
		expense(1, "10.005", "STORE B"),
		expense(1, "0.01", "STORE C"),
	}

	sum, err := Dashboard(rows, rows, 0)
	require.NoError(t, err)

	// 10.005 + 10.005 + 0.01 = 20.02 exactly; rounding each addend first
	// would give 20.03.
	decEq(t, "20.02", sum.YearTotal)
	require.Len(t, sum.MonthlyTrend, 1)
	decEq(t, "20.02", sum.MonthlyTrend[0].Total)

	// Identical inputs give identical outputs on every call.
	again, err := Dashboard(rows, rows, 0)
	require.NoError(t, err)
	assert.Equal(t, sum, again)
}

func TestDashboardCategoryBreakdownSorted(t *testing.T) {
	rows := []core.Transaction{
		expense(1, "10", "A"),
		expense(1, "200", "B"),
		expense(1, "30", "C"),
	}
	rows[0].Category = "Food"
	rows[1].Category = "Travel"
	rows[2].Category = "Food"

	sum, err := Dashboard(rows, rows, 0)
	require.NoError(t, err)

	require.Len(t, sum.CategoryBreakdown, 2)
	assert.Equal(t, "Travel", sum.CategoryBreakdown[0].Category)
	decEq(t, "200", sum.CategoryBreakdown[0].Total)
	assert.Equal(t, "Food", sum.CategoryBreakdown[1].Category)
	decEq(t, "40", sum.CategoryBreakdown[1].Total)
	assert.Equal(t, 2, sum.CategoryBreakdown[1].Count)
}

func TestDashboardTopMerchantsSkipsEmptyKeys(t *testing.T) {
	rows := []core.Transaction{
		expense(1, "100", "GROCERY MART"),
		expense(1, "999", "MYSTERY"),
	}
	rows[1].Merchant = ""

	sum, err := Dashboard(rows, rows, 0)
	require.NoError(t, err)

	require.Len(t, sum.TopMerchants, 1)
	assert.Equal(t, "GROCERY MART", sum.TopMerchants[0].Merchant)
}

func TestDashboardTopListsCapped(t *testing.T) {
	var rows []core.Transaction
	for i := 0; i < 15; i++ {
		tx := expense(1, "10", "STORE")
		tx.Merchant = tx.Merchant + string(rune('A'+i))
		rows = append(rows, tx)
	}

	sum, err := Dashboard(rows, rows, 0)
	require.NoError(t, err)

	assert.Len(t, sum.TopMerchants, 10)
	assert.Len(t, sum.LargestTransactions, 10)
}

func TestDashboardLargestTransactionsSorted(t *testing.T) {
	rows := []core.Transaction{
		expense(1, "5", "SMALL"),
		expense(1, "500", "BIG"),
		expense(1, "50", "MIDSIZE STORE"),
		income(1, "9999", "PAYCHECK"), // income never appears here
	}

	sum, err := Dashboard(rows, rows, 0)
	require.NoError(t, err)

	require.Len(t, sum.LargestTransactions, 3)
	assert.Equal(t, "BIG", sum.LargestTransactions[0].Description)
	assert.Equal(t, "MIDSIZE STORE", sum.LargestTransactions[1].Description)
	assert.Equal(t, "SMALL", sum.LargestTransactions[2].Description)
}

func TestDashboardSubscriptionTotal(t *testing.T) {
	rows := []core.Transaction{
		expense(1, "15.49", "NETFLIX.COM"),
		expense(1, "10.99", "SPOTIFY USA"),
		expense(1, "45.00", "GROCERY MART"),
	}

	sum, err := Dashboard(rows, rows, 0)
	require.NoError(t, err)

	decEq(t, "26.48", sum.SubscriptionTotal)
}

func TestDashboardDoesNotMutateInput(t *testing.T) {
	rows := []core.Transaction{
		expense(1, "5", "SMALL"),
		expense(1, "500", "BIG"),
	}
	_, err := Dashboard(rows, rows, 0)
	require.NoError(t, err)

	assert.Equal(t, "SMALL", rows[0].Description)
	assert.Equal(t, "BIG", rows[1].Description)
}
