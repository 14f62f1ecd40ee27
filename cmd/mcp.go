package cmd

import (
	"github.com/huangsam/ragboard/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [files...]",
	Short: "Start the RAG board MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents ingest status rows and
read period views through the ingest_rows, get_period and list_periods tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}
