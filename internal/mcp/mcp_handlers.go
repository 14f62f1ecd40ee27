package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/ragboard/core"
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultSource labels ingestions that arrive without a source argument.
const DefaultSource = "mcp"

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	board   *core.Board
	baseCfg *contract.Config
}

type ingestResponse struct {
	schema.IngestResult
	Message string `json:"message"`
}

func (h *toolHandler) handleIngestRows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	source := request.GetString("source", DefaultSource)

	result, err := h.board.Ingest(source, text)
	if err != nil {
		return mcp.NewToolResultError(core.FailureMessage(err)), nil
	}

	jsonData, _ := json.MarshalIndent(ingestResponse{IngestResult: result, Message: result.Message()}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetPeriod(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	year := stringOrNumber(request, "year")
	pi := request.GetString("pi", "")

	sortMode := schema.SeveritySort
	if h.baseCfg != nil && h.baseCfg.Sort != "" {
		sortMode = h.baseCfg.Sort
	}
	if s := request.GetString("sort", ""); s != "" {
		sortMode = schema.SortMode(strings.ToLower(s))
		if _, ok := schema.ValidSortModes[sortMode]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid sort '%s'. must be severity, input", s)), nil
		}
	}

	key, err := h.resolve(year, pi)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	jsonData, _ := json.MarshalIndent(h.board.View(key, sortMode), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListPeriods(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(h.board.Snapshot().Listing(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// resolve picks the requested period, falling back to the board selection and
// the year's default cycle. Unknown periods are an error rather than an empty view.
func (h *toolHandler) resolve(year, pi string) (schema.PeriodKey, error) {
	store := h.board.Snapshot()
	key := schema.NewPeriodKey(year, pi)
	switch {
	case key.Year == "" && key.PICycle != "":
		return schema.PeriodKey{}, fmt.Errorf("pi requires year")
	case key.Year == "":
		key = h.board.Selected()
	case key.PICycle == "":
		def, ok := store.DefaultKeyForYear(key.Year)
		if !ok {
			return schema.PeriodKey{}, fmt.Errorf("no data for year %s", key.Year)
		}
		key = def
	}
	if !store.Has(key) {
		return schema.PeriodKey{}, fmt.Errorf("no data for %s", key)
	}
	return key, nil
}

// stringOrNumber reads an argument that clients may send as either "2025" or 2025.
func stringOrNumber(request mcp.CallToolRequest, name string) string {
	if s := request.GetString(name, ""); s != "" {
		return s
	}
	if n := request.GetInt(name, 0); n > 0 {
		return strconv.Itoa(n)
	}
	return ""
}
