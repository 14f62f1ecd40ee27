package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/ragboard/core/agg"
	"github.com/huangsam/ragboard/core/parse"
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/schema"
	"go.uber.org/zap"
)

// FailureMessage is the user-facing text for a failed ingestion.
func FailureMessage(err error) string {
	return "Import failed: " + err.Error()
}

// Board is the shared handle over the current PeriodStore and period selection.
// Ingestions are serialized; readers always see a complete store.
type Board struct {
	ingestMu sync.Mutex // serializes writers

	mu       sync.RWMutex // guards store and selected
	store    *PeriodStore
	selected schema.PeriodKey

	parseOpts []parse.Option
	logger    *zap.Logger
	history   contract.HistoryStore
	now       func() time.Time
	newRunID  func() string
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithBoardLogger sets the logger used for ingestion diagnostics.
func WithBoardLogger(logger *zap.Logger) BoardOption {
	return func(b *Board) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithHistory records every successful ingestion in store.
func WithHistory(store contract.HistoryStore) BoardOption {
	return func(b *Board) {
		b.history = store
	}
}

// WithParseOptions passes options to the parser on every ingestion.
func WithParseOptions(opts ...parse.Option) BoardOption {
	return func(b *Board) {
		b.parseOpts = append(b.parseOpts, opts...)
	}
}

// withClock overrides time and run id generation in tests.
func withClock(now func() time.Time, newRunID func() string) BoardOption {
	return func(b *Board) {
		b.now = now
		b.newRunID = newRunID
	}
}

// NewBoard wraps store. The initial selection is the store's default period.
func NewBoard(store *PeriodStore, opts ...BoardOption) *Board {
	if store == nil {
		store = NewPeriodStore()
	}
	b := &Board{
		store:    store,
		logger:   zap.NewNop(),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.selected, _ = store.DefaultKey()
	return b
}

// Snapshot returns the current store.
func (b *Board) Snapshot() *PeriodStore {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.store
}

// Selected returns the currently selected period.
func (b *Board) Selected() schema.PeriodKey {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selected
}

// Select changes the selected period. A year without PI cycle picks that year's default.
func (b *Board) Select(year, piCycle string) schema.PeriodKey {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := schema.NewPeriodKey(year, piCycle)
	if key.PICycle == "" {
		if def, ok := b.store.DefaultKeyForYear(key.Year); ok {
			key = def
		}
	}
	b.selected = key
	return key
}

// View builds the presentation view for key.
func (b *Board) View(key schema.PeriodKey, sortMode schema.SortMode) schema.PeriodView {
	return agg.BuildView(key, b.Snapshot().Get(key), sortMode)
}

// Ingest parses text, replaces the periods it covers and switches the selection
// to the last of them. A parse error leaves the board untouched. History
// failures are logged and never fail the ingestion.
func (b *Board) Ingest(source, text string) (schema.IngestResult, error) {
	b.ingestMu.Lock()
	defer b.ingestMu.Unlock()

	started := b.now()
	records, err := parse.ParseTable(text, b.parseOpts...)
	if err != nil {
		b.logger.Warn("ingestion rejected", zap.String("source", source), zap.Error(err))
		return schema.IngestResult{}, err
	}

	current := b.Snapshot()
	next, keys := current.Apply(records)
	result := schema.IngestResult{
		RunID:   b.newRunID(),
		Source:  source,
		Rows:    len(records),
		Periods: keys,
	}

	b.mu.Lock()
	b.store = next
	if len(keys) > 0 {
		b.selected = result.Current()
	}
	b.mu.Unlock()

	b.logIngestion(result, records, next, time.Since(started))
	b.recordHistory(result, next, started)
	return result, nil
}

func (b *Board) logIngestion(result schema.IngestResult, records []schema.StatusRecord, store *PeriodStore, elapsed time.Duration) {
	b.logger.Info("ingested",
		zap.String("source", result.Source),
		zap.String("run_id", result.RunID),
		zap.Int("rows", result.Rows),
		zap.Int("periods", len(result.Periods)),
		zap.Duration("elapsed", elapsed),
	)
	for _, key := range result.Periods {
		targets := store.Get(key)
		b.logger.Debug("period replaced",
			zap.String("year", key.Year),
			zap.String("pi", key.PICycle),
			zap.Int("targets", len(targets)),
			zap.Int("objectives", agg.GrandTotal(targets).Sum()),
		)
	}

	warned := make(map[schema.StatusKind]struct{})
	for _, r := range records {
		if r.RAG.IsCanonical() {
			continue
		}
		if _, ok := warned[r.RAG]; ok {
			continue
		}
		warned[r.RAG] = struct{}{}
		b.logger.Warn("unrecognized RAG label kept verbatim",
			zap.String("label", string(r.RAG)),
			zap.String("source", result.Source),
		)
	}
}

func (b *Board) recordHistory(result schema.IngestResult, store *PeriodStore, started time.Time) {
	if b.history == nil {
		return
	}
	run := schema.IngestionRunRecord{
		RunID:       result.RunID,
		IngestedAt:  started,
		Source:      result.Source,
		RowCount:    int32(result.Rows),
		PeriodCount: int32(len(result.Periods)),
	}
	var totals []schema.PeriodTotalRecord
	for _, key := range result.Periods {
		for _, t := range store.Get(key) {
			for _, kind := range t.Totals.Kinds() {
				n := t.Totals[kind]
				if n == 0 {
					continue
				}
				totals = append(totals, schema.PeriodTotalRecord{
					RunID:          result.RunID,
					Year:           key.Year,
					PICycle:        key.PICycle,
					Target:         t.Target,
					Status:         string(kind),
					ObjectiveCount: int32(n),
				})
			}
		}
	}
	if err := b.history.RecordIngestion(run, totals); err != nil {
		b.logger.Warn("history recording failed", zap.String("run_id", result.RunID), zap.Error(err))
	}
}
