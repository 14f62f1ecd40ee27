package cmd

import (
	"github.com/huangsam/ragboard/core"
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/spf13/cobra"
)

// showCmd renders one period.
var showCmd = &cobra.Command{
	Use:   "show [files...]",
	Short: "Show per-target RAG totals for one period.",
	Long: `Ingest the given data files in order and render one period.

Each file is a tab or comma separated table whose header names the columns
Year, PI, Strategic Target, Objective and RAG (any order, extra columns ignored).
Use "-" to read a table from stdin. Every period a file covers replaces the
same period from the seed or from earlier files.

Each objective is rolled up to a single status first, so an objective listed
on several rows counts once. Targets are ranked by Not on track + At risk.

Examples:
  # Show the built-in baseline
  ragboard show

  # Show the last period of a spreadsheet export
  ragboard show status.tsv

  # Pick a period explicitly
  ragboard show status.tsv --year 2025 --pi PI2

  # Pipe from the clipboard and keep spreadsheet order
  pbpaste | ragboard show - --sort input

  # Table only, for scripts that diff the output
  ragboard show status.tsv --no-header --color no

  # Export the period for a BI tool
  ragboard show status.tsv --output parquet --output-file period.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := rootCtx
		if noHeader, _ := cmd.Flags().GetBool("no-header"); noHeader {
			ctx = core.WithSuppressHeader(ctx)
		}
		if err := core.ExecuteShow(ctx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot show period", err)
		}
	},
}

// periodsCmd lists the loaded periods.
var periodsCmd = &cobra.Command{
	Use:   "periods [files...]",
	Short: "List the years and PI cycles available.",
	Long: `Ingest the given data files and list every year with its PI cycles.

The default selection (latest year, PI3 when present) is marked with "*".

Examples:
  # What does the baseline contain?
  ragboard periods

  # Periods after loading two exports
  ragboard periods q1.tsv q2.tsv --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePeriods(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot list periods", err)
		}
	},
}

// ingestCmd ingests files and reports what changed.
var ingestCmd = &cobra.Command{
	Use:   "ingest <files...>",
	Short: "Ingest data files and report the periods they replaced.",
	Long: `Ingest the given data files in order and print the import feedback for each.

With a history backend configured, every successful ingestion is recorded
together with the per-target totals it produced.

Examples:
  # Record an import in the local history database
  ragboard ingest status.tsv --history-backend sqlite

  # Validate a file in CI
  ragboard ingest status.csv --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteIngest(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot ingest", err)
		}
	},
}
