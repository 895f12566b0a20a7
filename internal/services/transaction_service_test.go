package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardledger/internal/core"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	txs        []core.Transaction
	exclusions []core.SubscriptionExclusion
	nextID     int64
	findCalls  int
	insertErr  error
}

func (f *fakeStore) InsertTransactions(_ context.Context, txs []core.Transaction) ([]core.Transaction, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		f.nextID++
		t.ID = f.nextID
		f.txs = append(f.txs, t)
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) FindByDateRange(_ context.Context, start, end time.Time, category string) ([]core.Transaction, error) {
	f.findCalls++
	var out []core.Transaction
	for _, t := range f.txs {
		if t.Date.Before(start) || !t.Date.Before(end) {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) FindByBatch(_ context.Context, batchID string) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.txs {
		if t.UploadBatchID == batchID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, id int64) error {
	for i, t := range f.txs {
		if t.ID == id {
			f.txs = append(f.txs[:i], f.txs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) DeleteAllTransactions(context.Context) error {
	f.txs = nil
	return nil
}

func (f *fakeStore) Years(context.Context) ([]int, error) {
	seen := map[int]bool{}
	var out []int
	for _, t := range f.txs {
		if !seen[t.Date.Year()] {
			seen[t.Date.Year()] = true
			out = append(out, t.Date.Year())
		}
	}
	return out, nil
}

func (f *fakeStore) LatestPeriod(context.Context) (int, int, error) {
	var latest time.Time
	for _, t := range f.txs {
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	if latest.IsZero() {
		return 0, 0, nil
	}
	return latest.Year(), int(latest.Month()), nil
}

func (f *fakeStore) ListExclusions(context.Context) ([]core.SubscriptionExclusion, error) {
	return f.exclusions, nil
}

func (f *fakeStore) UpsertExclusion(_ context.Context, description, patternKey, label string) (core.SubscriptionExclusion, error) {
	for i, e := range f.exclusions {
		if e.Description == description {
			f.exclusions[i].PatternKey = patternKey
			f.exclusions[i].Label = label
			return f.exclusions[i], nil
		}
	}
	e := core.SubscriptionExclusion{
		ID:          int64(len(f.exclusions) + 1),
		Description: description,
		PatternKey:  patternKey,
		Label:       label,
	}
	f.exclusions = append(f.exclusions, e)
	return e, nil
}

func (f *fakeStore) DeleteExclusion(_ context.Context, id int64) error {
	for i, e := range f.exclusions {
		if e.ID == id {
			f.exclusions = append(f.exclusions[:i], f.exclusions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) Close() error { return nil }

type fakePublisher struct {
	batchIDs []string
	counts   []int
	err      error
}

func (p *fakePublisher) PublishBatchMirror(_ context.Context, batchID string, rowCount int) error {
	if p.err != nil {
		return p.err
	}
	p.batchIDs = append(p.batchIDs, batchID)
	p.counts = append(p.counts, rowCount)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

const chaseExport = `Transaction Date,Post Date,Description,Category,Type,Amount
01/15/2024,01/16/2024,NETFLIX.COM,Entertainment,Sale,-15.49
01/16/2024,01/17/2024,Payment Thank You,Payment,Payment,500.00
01/20/2024,01/21/2024,COSTCO WHOLESALE,Shopping,Sale,-120.50`

func TestImportCSV(t *testing.T) {
	store := &fakeStore{}
	publisher := &fakePublisher{}
	svc := NewTransactionService(store, publisher)

	inserted, err := svc.ImportCSV(context.Background(), chaseExport)
	require.NoError(t, err)
	require.Len(t, inserted, 2)

	assert.Equal(t, "NETFLIX.COM", inserted[0].Description)
	assert.True(t, inserted[0].Amount.Equal(decimal.RequireFromString("15.49")))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), inserted[0].Date)
	assert.Equal(t, core.TypeExpense, inserted[0].Type)

	// All rows share one fresh batch ID.
	assert.NotEmpty(t, inserted[0].UploadBatchID)
	assert.NotEqual(t, core.BatchManual, inserted[0].UploadBatchID)
	assert.Equal(t, inserted[0].UploadBatchID, inserted[1].UploadBatchID)

	require.Len(t, publisher.batchIDs, 1)
	assert.Equal(t, inserted[0].UploadBatchID, publisher.batchIDs[0])
	assert.Equal(t, []int{2}, publisher.counts)
}

func TestImportCSVEmptyInput(t *testing.T) {
	store := &fakeStore{}
	publisher := &fakePublisher{}
	svc := NewTransactionService(store, publisher)

	inserted, err := svc.ImportCSV(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, inserted)
	assert.Empty(t, publisher.batchIDs)
}

func TestImportCSVWithoutPublisher(t *testing.T) {
	svc := NewTransactionService(&fakeStore{}, nil)

	inserted, err := svc.ImportCSV(context.Background(), chaseExport)
	require.NoError(t, err)
	assert.Len(t, inserted, 2)
}

func TestImportCSVPublishFailureDoesNotFailImport(t *testing.T) {
	svc := NewTransactionService(&fakeStore{}, &fakePublisher{err: errors.New("broker down")})

	inserted, err := svc.ImportCSV(context.Background(), chaseExport)
	require.NoError(t, err)
	assert.Len(t, inserted, 2)
}

func TestImportCSVKeepsRowsWithUnparseableDates(t *testing.T) {
	store := &fakeStore{}
	svc := NewTransactionService(store, nil)

	csvText := "Date,Description,Amount\nnot-a-date,MYSTERY CHARGE,-9.99\n"
	inserted, err := svc.ImportCSV(context.Background(), csvText)
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.True(t, inserted[0].Date.IsZero())
}

func TestAddManualEntry(t *testing.T) {
	store := &fakeStore{}
	svc := NewTransactionService(store, nil)

	tx, err := svc.AddManualEntry(context.Background(), ManualEntry{
		Year:        2024,
		Month:       3,
		Description: "Rent",
		Amount:      decimal.RequireFromString("1200"),
		Type:        core.TypeExpense,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, core.BatchManual, tx.UploadBatchID)
	assert.Equal(t, "Rent", tx.Merchant)
	assert.Equal(t, core.CategoryUncategorized, tx.Category)
	assert.Positive(t, tx.ID)
}

func TestAddManualEntryRejectsBadMonth(t *testing.T) {
	svc := NewTransactionService(&fakeStore{}, nil)

	for _, month := range []int{0, 13, -1} {
		_, err := svc.AddManualEntry(context.Background(), ManualEntry{
			Year:        2024,
			Month:       month,
			Description: "Rent",
			Amount:      decimal.NewFromInt(1),
			Type:        core.TypeExpense,
		})
		assert.ErrorIs(t, err, core.ErrInvalidMonth, "month %d", month)
	}
}

func TestAddManualEntryRejectsInvalidType(t *testing.T) {
	svc := NewTransactionService(&fakeStore{}, nil)

	_, err := svc.AddManualEntry(context.Background(), ManualEntry{
		Year:        2024,
		Month:       1,
		Description: "Rent",
		Amount:      decimal.NewFromInt(1),
		Type:        "transfer",
	})
	assert.ErrorIs(t, err, core.ErrInvalidType)
}

func TestListTransactionsMonthFilter(t *testing.T) {
	store := &fakeStore{}
	svc := NewTransactionService(store, nil)

	_, err := svc.AddManualEntry(context.Background(), ManualEntry{
		Year: 2024, Month: 1, Description: "January", Amount: decimal.NewFromInt(10), Type: core.TypeExpense,
	})
	require.NoError(t, err)
	_, err = svc.AddManualEntry(context.Background(), ManualEntry{
		Year: 2024, Month: 2, Description: "February", Amount: decimal.NewFromInt(20), Type: core.TypeExpense,
	})
	require.NoError(t, err)

	rows, err := svc.ListTransactions(context.Background(), 2024, 2, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "February", rows[0].Description)

	rows, err = svc.ListTransactions(context.Background(), 2024, 0, "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = svc.ListTransactions(context.Background(), 2024, 13, "")
	assert.ErrorIs(t, err, core.ErrInvalidMonth)
}

func TestDashboardCachesUntilWrite(t *testing.T) {
	store := &fakeStore{}
	svc := NewTransactionService(store, nil)

	_, err := svc.AddManualEntry(context.Background(), ManualEntry{
		Year: 2024, Month: 1, Description: "Groceries", Amount: decimal.NewFromInt(100), Type: core.TypeExpense,
	})
	require.NoError(t, err)

	first, err := svc.Dashboard(context.Background(), 2024, 0)
	require.NoError(t, err)
	callsAfterFirst := store.findCalls

	second, err := svc.Dashboard(context.Background(), 2024, 0)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, store.findCalls, "second read should hit the cache")
	assert.Equal(t, first, second)

	// A write invalidates the cached summary.
	_, err = svc.AddManualEntry(context.Background(), ManualEntry{
		Year: 2024, Month: 1, Description: "More groceries", Amount: decimal.NewFromInt(50), Type: core.TypeExpense,
	})
	require.NoError(t, err)

	third, err := svc.Dashboard(context.Background(), 2024, 0)
	require.NoError(t, err)
	assert.Greater(t, store.findCalls, callsAfterFirst)
	assert.True(t, third.YearTotal.Equal(decimal.NewFromInt(150)))
}

func TestDashboardRejectsBadMonth(t *testing.T) {
	svc := NewTransactionService(&fakeStore{}, nil)

	_, err := svc.Dashboard(context.Background(), 2024, 13)
	assert.ErrorIs(t, err, core.ErrInvalidMonth)
}

func TestSubscriptionGroupsAppliesStoredExclusions(t *testing.T) {
	store := &fakeStore{}
	svc := NewTransactionService(store, nil)
	ctx := context.Background()

	_, err := svc.AddManualEntry(ctx, ManualEntry{
		Year: 2024, Month: 1, Description: "NETFLIX.COM", Amount: decimal.RequireFromString("15.49"), Type: core.TypeExpense,
	})
	require.NoError(t, err)
	_, err = svc.AddManualEntry(ctx, ManualEntry{
		Year: 2024, Month: 1, Description: "SPOTIFY USA", Amount: decimal.RequireFromString("9.99"), Type: core.TypeExpense,
	})
	require.NoError(t, err)

	groups, err := svc.SubscriptionGroups(ctx, 2024, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	_, err = svc.UpsertExclusion(ctx, "NETFLIX.COM", "netflix", "Netflix")
	require.NoError(t, err)

	groups, err = svc.SubscriptionGroups(ctx, 2024, 0)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "spotify", groups[0].Key)
}

func TestLatestPeriodAndYears(t *testing.T) {
	store := &fakeStore{}
	svc := NewTransactionService(store, nil)
	ctx := context.Background()

	year, month, err := svc.LatestPeriod(ctx)
	require.NoError(t, err)
	assert.Zero(t, year)
	assert.Zero(t, month)

	_, err = svc.AddManualEntry(ctx, ManualEntry{
		Year: 2023, Month: 11, Description: "Old", Amount: decimal.NewFromInt(1), Type: core.TypeExpense,
	})
	require.NoError(t, err)
	_, err = svc.AddManualEntry(ctx, ManualEntry{
		Year: 2024, Month: 2, Description: "New", Amount: decimal.NewFromInt(2), Type: core.TypeExpense,
	})
	require.NoError(t, err)

	year, month, err = svc.LatestPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 2, month)

	years, err := svc.Years(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2023, 2024}, years)
}

func TestCloseWithNilPublisher(t *testing.T) {
	svc := NewTransactionService(&fakeStore{}, nil)
	assert.NoError(t, svc.Close())
}
