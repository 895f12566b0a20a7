// Package storage persists transactions and subscription exclusions in
// SQLite. It is the external-store collaborator of the reporting core: the
// core never talks to it directly, services hand rows across.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"cardledger/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertTransactions stores a batch and returns the records with their
// assigned IDs, in input order.
func (r *Repository) InsertTransactions(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error) {
	if len(txs) == 0 {
		return nil, nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions (date, description, merchant, amount, category, type, upload_batch_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("validate transaction %q: %w", t.Description, err)
		}
		res, err := stmt.ExecContext(ctx,
			t.Date.Format(dateLayout), t.Description, t.Merchant,
			t.Amount.String(), t.Category, string(t.Type), t.UploadBatchID)
		if err != nil {
			return nil, fmt.Errorf("insert transaction: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		t.ID = id
		inserted = append(inserted, t)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transactions saved",
		"count", len(inserted),
		"batch_id", txs[0].UploadBatchID)

	return inserted, nil
}

// FindByDateRange returns transactions with start <= date < end, newest
// first. An empty category matches everything.
func (r *Repository) FindByDateRange(ctx context.Context, start, end time.Time, category string) ([]core.Transaction, error) {
	query := `
		SELECT id, date, description, merchant, amount, category, type, upload_batch_id
		FROM transactions
		WHERE date >= ? AND date < ?`
	args := []any{start.Format(dateLayout), end.Format(dateLayout)}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY date DESC, id DESC`

	return r.queryTransactions(ctx, query, args...)
}

// FindByBatch returns all transactions of one upload batch, newest first.
func (r *Repository) FindByBatch(ctx context.Context, batchID string) ([]core.Transaction, error) {
	return r.queryTransactions(ctx, `
		SELECT id, date, description, merchant, amount, category, type, upload_batch_id
		FROM transactions
		WHERE upload_batch_id = ?
		ORDER BY date DESC, id DESC`, batchID)
}

func (r *Repository) DeleteTransaction(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}

func (r *Repository) DeleteAllTransactions(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("delete all transactions: %w", err)
	}
	return nil
}

// Years returns the distinct years with data, newest first.
func (r *Repository) Years(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT substr(date, 1, 4) AS year
		FROM transactions
		ORDER BY year DESC`)
	if err != nil {
		return nil, fmt.Errorf("query years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		year, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

// LatestPeriod returns the year and month of the newest transaction, or
// zeros when the store is empty.
func (r *Repository) LatestPeriod(ctx context.Context) (int, int, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `
		SELECT date FROM transactions ORDER BY date DESC LIMIT 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("query latest period: %w", err)
	}

	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return 0, 0, fmt.Errorf("parse latest date %q: %w", raw, err)
	}
	return d.Year(), int(d.Month()), nil
}

// ListExclusions returns all exclusions sorted by label.
func (r *Repository) ListExclusions(ctx context.Context) ([]core.SubscriptionExclusion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, pattern_key, label
		FROM subscription_exclusions
		ORDER BY label ASC`)
	if err != nil {
		return nil, fmt.Errorf("query exclusions: %w", err)
	}
	defer rows.Close()

	var out []core.SubscriptionExclusion
	for rows.Next() {
		var e core.SubscriptionExclusion
		if err := rows.Scan(&e.ID, &e.Description, &e.PatternKey, &e.Label); err != nil {
			return nil, fmt.Errorf("scan exclusion: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpsertExclusion creates or updates the exclusion for a description, which
// is unique per row.
func (r *Repository) UpsertExclusion(ctx context.Context, description, patternKey, label string) (core.SubscriptionExclusion, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscription_exclusions (description, pattern_key, label)
		VALUES (?, ?, ?)
		ON CONFLICT(description) DO UPDATE SET pattern_key = excluded.pattern_key, label = excluded.label`,
		description, patternKey, label)
	if err != nil {
		return core.SubscriptionExclusion{}, fmt.Errorf("upsert exclusion: %w", err)
	}

	var e core.SubscriptionExclusion
	err = r.db.QueryRowContext(ctx, `
		SELECT id, description, pattern_key, label
		FROM subscription_exclusions
		WHERE description = ?`, description).
		Scan(&e.ID, &e.Description, &e.PatternKey, &e.Label)
	if err != nil {
		return core.SubscriptionExclusion{}, fmt.Errorf("read back exclusion: %w", err)
	}

	slog.InfoContext(ctx, "Exclusion upserted",
		"id", e.ID,
		"pattern_key", e.PatternKey)

	return e, nil
}

func (r *Repository) DeleteExclusion(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subscription_exclusions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete exclusion %d: %w", id, err)
	}
	return nil
}

func (r *Repository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t         core.Transaction
			rawDate   string
			rawAmount string
			rawType   string
		)
		if err := rows.Scan(&t.ID, &rawDate, &t.Description, &t.Merchant,
			&rawAmount, &t.Category, &rawType, &t.UploadBatchID); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		d, err := time.Parse(dateLayout, rawDate)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", rawDate, err)
		}
		t.Date = d

		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", rawAmount, err)
		}
		t.Amount = amount
		t.Type = core.TransactionType(rawType)

		out = append(out, t)
	}
	return out, rows.Err()
}
