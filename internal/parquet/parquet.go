// Package parquet provides data structures and functions for exporting ragboard
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/ragboard/core/agg"
	"github.com/huangsam/ragboard/schema"
	"github.com/parquet-go/parquet-go"
)

// IngestionRun represents a single recorded ingestion.
// This struct maps to the ragboard_ingestion_runs database table.
type IngestionRun struct {
	// RunID is the UUID assigned to the ingestion
	RunID string `parquet:"run_id,snappy"`

	// IngestedAt is when the ingestion started (stored as TIMESTAMP with nanosecond precision)
	IngestedAt time.Time `parquet:"ingested_at,snappy"`

	// Source names the file or channel the rows came from
	Source string `parquet:"source,snappy"`

	RowCount    int32 `parquet:"row_count,snappy"`
	PeriodCount int32 `parquet:"period_count,snappy"`
}

// PeriodTotal is one status count for one target of one period written by a run.
// This struct maps to the ragboard_period_totals database table.
type PeriodTotal struct {
	RunID          string `parquet:"run_id,snappy"`
	Year           string `parquet:"year,snappy"`
	PICycle        string `parquet:"pi,snappy"`
	Target         string `parquet:"target,snappy"`
	Status         string `parquet:"status,snappy"`
	ObjectiveCount int32  `parquet:"objective_count,snappy"`
}

// TargetStatus is one row of a rendered period view.
type TargetStatus struct {
	Year           string `parquet:"year,snappy"`
	PICycle        string `parquet:"pi,snappy"`
	Rank           int32  `parquet:"rank,snappy"`
	Target         string `parquet:"target,snappy"`
	Headline       string `parquet:"headline,snappy"`
	Status         string `parquet:"status,snappy"`
	ObjectiveCount int32  `parquet:"objective_count,snappy"`

	// Share is the status count as a rounded percentage of the target's objectives
	Share int32 `parquet:"share,snappy"`
}

// IngestedPeriod is one period loaded by one ingestion.
type IngestedPeriod struct {
	RunID   string `parquet:"run_id,snappy"`
	Source  string `parquet:"source,snappy"`
	Rows    int32  `parquet:"rows,snappy"`
	Year    string `parquet:"year,snappy"`
	PICycle string `parquet:"pi,snappy"`
}

// ListedPeriod is one available (year, PI) pair.
type ListedPeriod struct {
	Year      string `parquet:"year,snappy"`
	PICycle   string `parquet:"pi,snappy"`
	IsDefault bool   `parquet:"is_default"`
}

// WriteTo writes rows to w using the schema inferred from T's struct tags.
func WriteTo[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return WriteTo(file, rows)
}

// ReadFile reads every row of a Parquet file written with WriteFile.
func ReadFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}

// WriteIngestionRunsParquet writes ingestion runs to a Parquet file.
func WriteIngestionRunsParquet(data []IngestionRun, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WritePeriodTotalsParquet writes period totals to a Parquet file.
func WritePeriodTotalsParquet(data []PeriodTotal, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertIngestionRunRecords converts schema.IngestionRunRecord to IngestionRun for Parquet export.
func ConvertIngestionRunRecords(records []schema.IngestionRunRecord) []IngestionRun {
	result := make([]IngestionRun, len(records))
	for i, record := range records {
		result[i] = IngestionRun{
			RunID:       record.RunID,
			IngestedAt:  record.IngestedAt,
			Source:      record.Source,
			RowCount:    record.RowCount,
			PeriodCount: record.PeriodCount,
		}
	}
	return result
}

// ConvertPeriodTotalRecords converts schema.PeriodTotalRecord to PeriodTotal for Parquet export.
func ConvertPeriodTotalRecords(records []schema.PeriodTotalRecord) []PeriodTotal {
	result := make([]PeriodTotal, len(records))
	for i, record := range records {
		result[i] = PeriodTotal(record)
	}
	return result
}

// ConvertPeriodView flattens a view into one row per (target, status), zero counts included
// for the canonical kinds so every target has a complete profile.
func ConvertPeriodView(view schema.PeriodView) []TargetStatus {
	var rows []TargetStatus
	for _, card := range view.Targets {
		for _, kind := range card.Totals.Kinds() {
			n := card.Totals[kind]
			if !kind.IsCanonical() && n == 0 {
				continue
			}
			rows = append(rows, TargetStatus{
				Year:           view.Period.Year,
				PICycle:        view.Period.PICycle,
				Rank:           int32(card.Rank),
				Target:         card.Target,
				Headline:       card.Headline,
				Status:         string(kind),
				ObjectiveCount: int32(n),
				Share:          int32(agg.Pct(n, card.Objectives)),
			})
		}
	}
	return rows
}

// ConvertIngestResults flattens ingestion results into one row per loaded period.
func ConvertIngestResults(results []schema.IngestResult) []IngestedPeriod {
	var rows []IngestedPeriod
	for _, r := range results {
		for _, key := range r.Periods {
			rows = append(rows, IngestedPeriod{
				RunID:   r.RunID,
				Source:  r.Source,
				Rows:    int32(r.Rows),
				Year:    key.Year,
				PICycle: key.PICycle,
			})
		}
	}
	return rows
}

// ConvertPeriodListing flattens a listing into one row per period, years in order.
func ConvertPeriodListing(listing schema.PeriodListing) []ListedPeriod {
	var rows []ListedPeriod
	for _, year := range listing.Years {
		for _, pi := range listing.Cycles[year] {
			rows = append(rows, ListedPeriod{
				Year:      year,
				PICycle:   pi,
				IsDefault: listing.Default == schema.NewPeriodKey(year, pi),
			})
		}
	}
	return rows
}
