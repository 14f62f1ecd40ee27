// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"os"

	"github.com/huangsam/ragboard/core"
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// NewMCPServer initializes and configures the RAG board MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(board *core.Board, baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"RAG Board Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		board:   board,
		baseCfg: baseCfg,
	}

	// --- 1. Tool: ingest_rows ---
	s.AddTool(mcp.NewTool("ingest_rows",
		mcp.WithDescription("Ingest tab or comma separated status rows (header: Year, PI, Strategic Target, Objective, RAG). Replaces every period the rows cover."),
		mcp.WithString("text", mcp.Description("The pasted table, header row first."), mcp.Required()),
		mcp.WithString("source", mcp.Description("Label recorded for this ingestion. Defaults to 'mcp'.")),
	), h.handleIngestRows)

	// --- 2. Tool: get_period ---
	s.AddTool(mcp.NewTool("get_period",
		mcp.WithDescription("Get per-target RAG totals, headlines and the pulse for one period."),
		mcp.WithString("year", mcp.Description("Year, e.g. '2025'. Defaults to the current selection.")),
		mcp.WithString("pi", mcp.Description("PI cycle, e.g. 'PI3'. Defaults to the year's default cycle.")),
		mcp.WithString("sort", mcp.Description("Target order. Defaults to 'severity'."), mcp.Enum("severity", "input")),
	), h.handleGetPeriod)

	// --- 3. Tool: list_periods ---
	s.AddTool(mcp.NewTool("list_periods",
		mcp.WithDescription("List the years and PI cycles currently loaded, plus the default selection."),
	), h.handleListPeriods)

	return s
}

// StartMCPServer loads the configured data files and serves the board over stdio.
// Diagnostics go to stderr so stdout stays reserved for the protocol.
func StartMCPServer(ctx context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	board, _, err := core.LoadBoard(ctx, baseCfg, mgr)
	if err != nil {
		return err
	}

	logger := core.LoggerFrom(ctx)
	logger.Info("serving MCP over stdio", zap.Int("periods", board.Snapshot().Len()))

	stdio := server.NewStdioServer(NewMCPServer(board, baseCfg))
	stdio.SetErrorLogger(zap.NewStdLog(logger))
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}
