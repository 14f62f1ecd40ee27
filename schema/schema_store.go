package schema

import "time"

// IngestionRunRecord represents a row from the ragboard_ingestion_runs table.
type IngestionRunRecord struct {
	RunID       string
	IngestedAt  time.Time
	Source      string
	RowCount    int32
	PeriodCount int32
}

// PeriodTotalRecord represents a row from the ragboard_period_totals table:
// one status count for one target of one period written by one run.
type PeriodTotalRecord struct {
	RunID          string
	Year           string
	PICycle        string
	Target         string
	Status         string
	ObjectiveCount int32
}
