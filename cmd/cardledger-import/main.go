// Command cardledger-import loads CSV exports into the database from the
// command line, bypassing the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cardledger/internal/config"
	"cardledger/internal/services"
	"cardledger/internal/storage"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "cardledger-import <file.csv> [file.csv...]",
		Short:         "Import bank card CSV exports into cardledger",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = config.Load().SQLiteDBPath
			}

			repo, err := storage.NewRepository(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}

			service := services.NewTransactionService(repo, nil)
			defer service.Close()

			total := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}

				inserted, err := service.ImportCSV(cmd.Context(), string(data))
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}

				batchID := "-"
				if len(inserted) > 0 {
					batchID = inserted[0].UploadBatchID
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: imported %d transactions (batch %s)\n",
					path, len(inserted), batchID)
				total += len(inserted)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "total: %d transactions\n", total)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the SQLite database (defaults to SQLITE_DB_PATH)")

	return cmd
}
