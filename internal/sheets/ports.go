package sheets

import (
	"context"

	"cardledger/internal/core"
)

// TransactionWriter is the outbound port for mirroring transactions to a
// spreadsheet.
type TransactionWriter interface {
	AppendTransactions(ctx context.Context, txs []core.Transaction) error
}
