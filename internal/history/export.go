package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/internal/parquet"
)

// ExecuteHistoryExport exports the run history of store to Parquet files
// next to outputFile.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is not enabled. Set --history-backend to export")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total run items: %d\n", status.TableSizes[runItemsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	items, err := store.GetAllRunItems()
	if err != nil {
		return fmt.Errorf("failed to retrieve run items: %w", err)
	}

	if err := contract.EnsureParentDir(outputFile); err != nil {
		return err
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	itemsFile := outputFile + ".run_items.parquet"
	parquetItems := parquet.ConvertRunItemRecords(items)
	if err := parquet.WriteRunItemsParquet(parquetItems, itemsFile); err != nil {
		return fmt.Errorf("failed to write run items: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d run items to: %s\n", len(parquetItems), itemsFile)

	return nil
}
