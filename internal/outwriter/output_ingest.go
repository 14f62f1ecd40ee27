package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/internal/parquet"
	"github.com/huangsam/ragboard/schema"
)

// WriteIngestResults reports what each ingestion loaded.
func WriteIngestResults(results []schema.IngestResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeIngestCSV(w, results)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteFile(parquet.ConvertIngestResults(results), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			for _, r := range results {
				if _, err := fmt.Fprintf(w, "%s%s: %s (%d rows)\n", emojiPrefix(cfg, "📥"), r.Source, r.Message(), r.Rows); err != nil {
					return err
				}
			}
			return nil
		}, "Wrote summary")
	}
}

// writeIngestCSV writes one row per (ingestion, period) pair.
func writeIngestCSV(w io.Writer, results []schema.IngestResult) error {
	header := []string{"run_id", "source", "rows", "year", "pi"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range results {
			for _, key := range r.Periods {
				row := []string{r.RunID, r.Source, strconv.Itoa(r.Rows), key.Year, key.PICycle}
				if err := csvWriter.Write(row); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
		}
		return nil
	})
}
