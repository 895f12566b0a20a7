// Package services orchestrates ingestion, reporting and persistence. It is
// the only layer that talks to both the store and the message broker.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"cardledger/internal/cache"
	"cardledger/internal/core"
	"cardledger/internal/ingest"
	"cardledger/internal/report"
)

const (
	dashboardCacheSize = 32
	dashboardCacheTTL  = 5 * time.Minute
)

// Store is the persistence surface the service needs.
type Store interface {
	InsertTransactions(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error)
	FindByDateRange(ctx context.Context, start, end time.Time, category string) ([]core.Transaction, error)
	FindByBatch(ctx context.Context, batchID string) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	DeleteAllTransactions(ctx context.Context) error
	Years(ctx context.Context) ([]int, error)
	LatestPeriod(ctx context.Context) (int, int, error)
	ListExclusions(ctx context.Context) ([]core.SubscriptionExclusion, error)
	UpsertExclusion(ctx context.Context, description, patternKey, label string) (core.SubscriptionExclusion, error)
	DeleteExclusion(ctx context.Context, id int64) error
	Close() error
}

// Publisher emits mirror requests for uploaded batches.
type Publisher interface {
	PublishBatchMirror(ctx context.Context, batchID string, rowCount int) error
	Close() error
}

// ManualEntry is a single hand-entered transaction, dated to the first day
// of its month.
type ManualEntry struct {
	Year        int
	Month       int
	Description string
	Merchant    string
	Category    string
	Amount      decimal.Decimal
	Type        core.TransactionType
}

// TransactionService orchestrates transaction operations across SQLite and
// AMQP. The publisher may be nil; mirroring is then skipped.
type TransactionService struct {
	store      Store
	publisher  Publisher
	dashboards *cache.LRUCache[core.DashboardSummary]
}

func NewTransactionService(store Store, publisher Publisher) *TransactionService {
	return &TransactionService{
		store:      store,
		publisher:  publisher,
		dashboards: cache.NewLRUCache[core.DashboardSummary](dashboardCacheSize, dashboardCacheTTL),
	}
}

// Accepted date layouts in CSV exports, tried in order.
var csvDateLayouts = []string{"01/02/2006", "2006-01-02", "1/2/2006"}

// ImportCSV normalizes a CSV export, stores the purchases as one upload
// batch and schedules the batch for spreadsheet mirroring.
func (s *TransactionService) ImportCSV(ctx context.Context, csvText string) ([]core.Transaction, error) {
	candidates, err := ingest.Normalize(csvText)
	if err != nil {
		return nil, fmt.Errorf("normalize csv: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	batchID := uuid.NewString()
	txs := make([]core.Transaction, 0, len(candidates))
	for _, c := range candidates {
		txs = append(txs, core.Transaction{
			Date:          parseCSVDate(c.Date),
			Description:   c.Description,
			Merchant:      c.Merchant,
			Amount:        c.Amount,
			Category:      c.Category,
			Type:          core.TypeExpense,
			UploadBatchID: batchID,
		})
	}

	inserted, err := s.store.InsertTransactions(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("save batch: %w", err)
	}
	s.dashboards.Purge()

	s.publishMirror(ctx, batchID, len(inserted))

	return inserted, nil
}

// AddManualEntry stores one hand-entered transaction under the manual batch.
func (s *TransactionService) AddManualEntry(ctx context.Context, entry ManualEntry) (core.Transaction, error) {
	if entry.Month < 1 || entry.Month > 12 {
		return core.Transaction{}, core.ErrInvalidMonth
	}

	tx := core.Transaction{
		Date:          time.Date(entry.Year, time.Month(entry.Month), 1, 0, 0, 0, 0, time.UTC),
		Description:   entry.Description,
		Merchant:      entry.Merchant,
		Amount:        entry.Amount,
		Category:      entry.Category,
		Type:          entry.Type,
		UploadBatchID: core.BatchManual,
	}
	if tx.Merchant == "" {
		tx.Merchant = tx.Description
	}
	if tx.Category == "" {
		tx.Category = core.CategoryUncategorized
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	inserted, err := s.store.InsertTransactions(ctx, []core.Transaction{tx})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save manual entry: %w", err)
	}
	s.dashboards.Purge()

	return inserted[0], nil
}

// ListTransactions returns the transactions of a year, optionally narrowed
// to one month and one category. Month zero means the whole year.
func (s *TransactionService) ListTransactions(ctx context.Context, year, month int, category string) ([]core.Transaction, error) {
	if err := core.ValidateMonth(month); err != nil {
		return nil, err
	}
	start, end := core.PeriodRange(year, month)
	return s.store.FindByDateRange(ctx, start, end, category)
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.dashboards.Purge()
	return nil
}

func (s *TransactionService) DeleteAllTransactions(ctx context.Context) error {
	if err := s.store.DeleteAllTransactions(ctx); err != nil {
		return err
	}
	s.dashboards.Purge()
	return nil
}

// CategorySummary aggregates a period's expenses by category.
func (s *TransactionService) CategorySummary(ctx context.Context, year, month int) ([]core.CategoryTotal, error) {
	rows, err := s.ListTransactions(ctx, year, month, "")
	if err != nil {
		return nil, err
	}
	return report.SummarizeCategories(rows), nil
}

// Dashboard computes the summary for a period, serving recent results from
// cache. Month zero summarizes the whole year.
func (s *TransactionService) Dashboard(ctx context.Context, year, month int) (core.DashboardSummary, error) {
	if err := core.ValidateMonth(month); err != nil {
		return core.DashboardSummary{}, err
	}

	key := fmt.Sprintf("%d-%d", year, month)
	if summary, ok := s.dashboards.Get(key); ok {
		return summary, nil
	}

	var periodRows, yearRows []core.Transaction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start, end := core.PeriodRange(year, month)
		rows, err := s.store.FindByDateRange(gctx, start, end, "")
		if err != nil {
			return fmt.Errorf("fetch period rows: %w", err)
		}
		periodRows = rows
		return nil
	})
	g.Go(func() error {
		start, end := core.PeriodRange(year, 0)
		rows, err := s.store.FindByDateRange(gctx, start, end, "")
		if err != nil {
			return fmt.Errorf("fetch year rows: %w", err)
		}
		yearRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.DashboardSummary{}, err
	}

	summary, err := report.Dashboard(periodRows, yearRows, month)
	if err != nil {
		return core.DashboardSummary{}, err
	}

	s.dashboards.Set(key, summary)
	return summary, nil
}

// SubscriptionGroups returns a period's recurring charges grouped by
// service, with stored exclusions applied.
func (s *TransactionService) SubscriptionGroups(ctx context.Context, year, month int) ([]core.SubscriptionGroup, error) {
	if err := core.ValidateMonth(month); err != nil {
		return nil, err
	}

	var (
		rows       []core.Transaction
		exclusions []core.SubscriptionExclusion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start, end := core.PeriodRange(year, month)
		fetched, err := s.store.FindByDateRange(gctx, start, end, "")
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		rows = fetched
		return nil
	})
	g.Go(func() error {
		fetched, err := s.store.ListExclusions(gctx)
		if err != nil {
			return fmt.Errorf("fetch exclusions: %w", err)
		}
		exclusions = fetched
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report.GroupSubscriptions(rows, exclusions), nil
}

func (s *TransactionService) ListExclusions(ctx context.Context) ([]core.SubscriptionExclusion, error) {
	return s.store.ListExclusions(ctx)
}

func (s *TransactionService) UpsertExclusion(ctx context.Context, description, patternKey, label string) (core.SubscriptionExclusion, error) {
	return s.store.UpsertExclusion(ctx, description, patternKey, label)
}

func (s *TransactionService) DeleteExclusion(ctx context.Context, id int64) error {
	return s.store.DeleteExclusion(ctx, id)
}

func (s *TransactionService) Years(ctx context.Context) ([]int, error) {
	return s.store.Years(ctx)
}

func (s *TransactionService) LatestPeriod(ctx context.Context) (int, int, error) {
	return s.store.LatestPeriod(ctx)
}

// Close closes both the store and the AMQP connection.
func (s *TransactionService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}

func (s *TransactionService) publishMirror(ctx context.Context, batchID string, rowCount int) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping mirror message")
		return
	}
	// A failed publish never fails the request; the rows are already saved.
	if err := s.publisher.PublishBatchMirror(ctx, batchID, rowCount); err != nil {
		slog.ErrorContext(ctx, "Failed to publish mirror message",
			"batch_id", batchID, "error", err)
	}
}

// parseCSVDate tries each accepted layout in order. Unparseable dates become
// the zero time; the row is kept.
func parseCSVDate(raw string) time.Time {
	for _, layout := range csvDateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d
		}
	}
	return time.Time{}
}
