package cmd

import (
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/internal/tui"
	"github.com/spf13/cobra"
)

// dashboardCmd opens the interactive dashboard.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard [files...]",
	Short: "Browse periods in an interactive dashboard.",
	Long: `Ingest the given data files and open a card view of the selected period.

Keys:
  ←/→ or h/l   previous/next year
  ↑/↓ or k/j   previous/next PI cycle
  s            toggle severity/input order
  q            quit

Examples:
  # Browse the baseline
  ragboard dashboard

  # Open on the last period of an export
  ragboard dashboard status.tsv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := tui.ExecuteDashboard(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot open dashboard", err)
		}
	},
}

// pasteCmd ingests pasted rows.
var pasteCmd = &cobra.Command{
	Use:   "paste",
	Short: "Paste status rows and view the result.",
	Long: `Open a paste form, ingest the rows and switch the dashboard to the last period
they cover. When stdin is not a terminal the rows are read from stdin and the
period is printed instead.

Examples:
  # Paste straight from a spreadsheet
  ragboard paste

  # Non-interactive
  pbpaste | ragboard paste --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := tui.ExecutePaste(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot paste", err)
		}
	},
}
