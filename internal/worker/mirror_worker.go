// Package worker mirrors uploaded batches from SQLite to the spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"cardledger/internal/amqp"
	"cardledger/internal/core"
	"cardledger/internal/sheets"
)

// BatchReader is the slice of storage the worker needs.
type BatchReader interface {
	FindByBatch(ctx context.Context, batchID string) ([]core.Transaction, error)
}

// MirrorWorker consumes batch mirror messages and appends the batch rows to
// the spreadsheet.
type MirrorWorker struct {
	storage BatchReader
	writer  sheets.TransactionWriter
}

func NewMirrorWorker(storage BatchReader, writer sheets.TransactionWriter) *MirrorWorker {
	return &MirrorWorker{
		storage: storage,
		writer:  writer,
	}
}

// HandleMirrorMessage processes a single batch mirror message from AMQP.
func (w *MirrorWorker) HandleMirrorMessage(ctx context.Context, msg *amqp.BatchMirrorMessage) error {
	slog.InfoContext(ctx, "Processing mirror message",
		"batch_id", msg.BatchID,
		"row_count", msg.RowCount)

	txs, err := w.storage.FindByBatch(ctx, msg.BatchID)
	if err != nil {
		return fmt.Errorf("get batch from storage: %w", err)
	}
	if len(txs) == 0 {
		// The batch may have been deleted between publish and consume.
		slog.WarnContext(ctx, "Batch has no rows, nothing to mirror",
			"batch_id", msg.BatchID)
		return nil
	}

	if err := w.writer.AppendTransactions(ctx, txs); err != nil {
		return fmt.Errorf("mirror batch to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Successfully mirrored batch",
		"batch_id", msg.BatchID,
		"rows", len(txs))

	return nil
}
