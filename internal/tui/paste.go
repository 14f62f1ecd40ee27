package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/huangsam/ragboard/core"
	"github.com/huangsam/ragboard/schema"
	"github.com/mattn/go-isatty"
)

// PasteSource names ingestions that came from the paste form.
const PasteSource = "paste"

// ErrEmptyPaste is returned by the paste validator for blank input.
var ErrEmptyPaste = errors.New("paste a header row and at least one data row")

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func validatePaste(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyPaste
	}
	return nil
}

func pasteForm(text *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Paste status rows").
				Description("Tab or comma separated, header first: Year, PI, Strategic Target, Objective, RAG").
				Placeholder("Year\tPI\tStrategic Target\tObjective\tRAG").
				Lines(12).
				CharLimit(0).
				Value(text).
				Validate(validatePaste),
		),
	).WithTheme(ragboardHuhTheme()).WithShowHelp(false)
}

// Paste shows the paste form and ingests what the user submitted into board.
func Paste(ctx context.Context, board *core.Board) (schema.IngestResult, error) {
	var text string
	if err := pasteForm(&text).RunWithContext(ctx); err != nil {
		return schema.IngestResult{}, fmt.Errorf("paste form: %w", err)
	}
	return board.Ingest(PasteSource, text)
}
