package cmd

import (
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/internal/watch"
	"github.com/spf13/cobra"
)

// watchCmd re-renders a file's last period whenever it changes.
var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-ingest a data file every time it is saved.",
	Long: `Ingest a data file, render its last period, then do it again each time the file
changes on disk. Bursts of writes are collapsed by --debounce. A file that fails
to parse prints the import error and keeps the previous data.

Stop with Ctrl+C.

Examples:
  # Keep a terminal open next to the spreadsheet export
  ragboard watch status.tsv

  # Slow editors that save in several steps
  ragboard watch status.tsv --debounce 1s`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := watch.ExecuteWatch(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot watch", err)
		}
	},
}
