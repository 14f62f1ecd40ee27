// Package contract provides interfaces and shared utilities for ragboard's internal architecture.
package contract

import "github.com/huangsam/ragboard/schema"

// HistoryManager hands out the configured history store.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore records every successful ingestion and its per-period aggregates.
type HistoryStore interface {
	// RecordIngestion stores one run and the totals it produced in a single transaction
	RecordIngestion(run schema.IngestionRunRecord, totals []schema.PeriodTotalRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllIngestionRuns returns every recorded run, oldest first
	GetAllIngestionRuns() ([]schema.IngestionRunRecord, error)

	// GetAllPeriodTotals returns every recorded period total, ordered by run
	GetAllPeriodTotals() ([]schema.PeriodTotalRecord, error)

	// Close closes the underlying connection
	Close() error
}
