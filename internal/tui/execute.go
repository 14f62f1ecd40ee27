package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/huangsam/ragboard/core"
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/internal/outwriter"
)

// ErrNotInteractive is returned when the dashboard is started without a terminal.
var ErrNotInteractive = errors.New("the dashboard needs an interactive terminal (try 'ragboard show')")

// ExecuteDashboard loads the configured data files and opens the dashboard.
func ExecuteDashboard(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if !IsInteractive() {
		return ErrNotInteractive
	}
	board, results, err := core.LoadBoard(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	var notice Notice
	if len(results) > 0 {
		notice = NoticeFor(results[len(results)-1], nil)
	}
	return Run(ctx, board, cfg, notice)
}

// ExecutePaste ingests pasted rows. On a terminal it shows the paste form and then the
// dashboard on the ingested period; otherwise it reads stdin and prints the period view.
func ExecutePaste(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	board, err := core.NewBoardFromConfig(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	if !IsInteractive() {
		result, err := core.IngestFile(board, contract.StdinDataSource, os.Stdin)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, result.Message())
		return outwriter.WritePeriodView(board.View(result.Current(), cfg.Sort), cfg, true)
	}

	result, err := Paste(ctx, board)
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return Run(ctx, board, cfg, NoticeFor(result, err))
}
