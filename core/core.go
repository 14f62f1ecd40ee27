// Package core has the period store, seed loading and ingestion orchestration
// behind every ragboard command.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/ragboard/core/parse"
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/internal/outwriter"
	"github.com/huangsam/ragboard/schema"
)

// ErrNoPeriods is returned when there is nothing to render.
var ErrNoPeriods = errors.New("no periods loaded: pass a data file or drop --no-seed")

// ExecutorFunc defines the function signature for the data-consuming commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// NewBoardFromConfig builds a board over the configured seed, wired to the context
// logger and to the history store of mgr when one is configured.
func NewBoardFromConfig(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) (*Board, error) {
	seed, err := BuildSeed(cfg.NoSeed, cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	opts := []BoardOption{
		WithBoardLogger(LoggerFrom(ctx)),
		WithParseOptions(parse.WithCoerceUnknown(cfg.CoerceUnknown)),
	}
	if mgr != nil {
		if store := mgr.GetHistoryStore(); store != nil {
			opts = append(opts, WithHistory(store))
		}
	}
	return NewBoard(seed, opts...), nil
}

// IngestFile reads one data source ("-" for stdin) into board.
func IngestFile(board *Board, path string, stdin io.Reader) (schema.IngestResult, error) {
	text, err := contract.ReadDataSource(path, stdin)
	if err != nil {
		return schema.IngestResult{}, err
	}
	result, err := board.Ingest(contract.SourceName(path), text)
	if err != nil {
		return schema.IngestResult{}, fmt.Errorf("failed to ingest %s: %w", contract.SourceName(path), err)
	}
	return result, nil
}

// LoadBoard builds a board, ingests every configured data file in order and applies
// the --year/--pi selection.
func LoadBoard(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) (*Board, []schema.IngestResult, error) {
	board, err := NewBoardFromConfig(ctx, cfg, mgr)
	if err != nil {
		return nil, nil, err
	}
	results := make([]schema.IngestResult, 0, len(cfg.DataFiles))
	for _, path := range cfg.DataFiles {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		result, err := IngestFile(board, path, os.Stdin)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, result)
	}
	if cfg.HasSelection() {
		key := cfg.Selection()
		board.Select(key.Year, key.PICycle)
	}
	return board, results, nil
}

// ExecuteShow renders the selected period and prints it using the configured output format.
func ExecuteShow(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	board, _, err := LoadBoard(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	key := board.Selected()
	if key.IsZero() {
		return ErrNoPeriods
	}
	view := board.View(key, cfg.Sort)
	return outwriter.WritePeriodView(view, cfg, !shouldSuppressHeader(ctx))
}

// ExecutePeriods lists the years and PI cycles available after ingestion.
func ExecutePeriods(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	board, _, err := LoadBoard(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WritePeriodListing(board.Snapshot().Listing(), cfg)
}

// ExecuteIngest ingests the data files and prints the import feedback for each.
func ExecuteIngest(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if len(cfg.DataFiles) == 0 {
		return errors.New("ingest requires at least one data file (use - for stdin)")
	}
	_, results, err := LoadBoard(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteIngestResults(results, cfg)
}
