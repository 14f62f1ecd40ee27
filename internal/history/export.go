package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/internal/parquet"
)

// ExportHistory writes every recorded run and period total to two Parquet files
// next to outputFile.
func ExportHistory(store contract.HistoryStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no ingestion history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total ingestion runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total period totals: %d\n", status.TableSizes[periodTotalsTable])

	runs, err := store.GetAllIngestionRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve ingestion runs: %w", err)
	}
	totals, err := store.GetAllPeriodTotals()
	if err != nil {
		return fmt.Errorf("failed to retrieve period totals: %w", err)
	}

	runsFile := outputFile + ".ingestion_runs.parquet"
	if err := parquet.WriteIngestionRunsParquet(parquet.ConvertIngestionRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write ingestion runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ingestion runs to: %s\n", len(runs), runsFile)

	totalsFile := outputFile + ".period_totals.parquet"
	if err := parquet.WritePeriodTotalsParquet(parquet.ConvertPeriodTotalRecords(totals), totalsFile); err != nil {
		return fmt.Errorf("failed to write period totals: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d period totals to: %s\n", len(totals), totalsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with DuckDB, Pandas (via pyarrow) or Apache Spark.")
	return nil
}

// ExecuteHistoryExport exports the global manager's history.
func ExecuteHistoryExport(outputFile string, w io.Writer) error {
	return ExportHistory(Manager.GetHistoryStore(), outputFile, w)
}
