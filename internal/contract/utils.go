package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/ragboard/schema"
)

// OtherLabel is shown for statuses outside the canonical six.
const OtherLabel = "Other"

// Color variables for console output.
var (
	NotOnTrackColor = color.New(color.FgRed, color.Bold)  // NotOnTrackColor represents standard danger.
	AtRiskColor     = color.New(color.FgYellow, color.Bold)
	OnTrackColor    = color.New(color.FgGreen)
	DoneColor       = color.New(color.FgCyan)
	OnHoldColor     = color.New(color.FgHiBlack)
	TBDColor        = color.New(color.FgWhite)
	OtherColor      = color.New(color.FgMagenta) // OtherColor flags unrecognized labels.
)

// GetPlainLabel returns the display label for a status kind.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(kind schema.StatusKind) string {
	if kind.IsCanonical() {
		return string(kind)
	}
	return OtherLabel
}

// GetStatusColor returns the console color for a status kind.
func GetStatusColor(kind schema.StatusKind) *color.Color {
	switch kind {
	case schema.NotOnTrackKind:
		return NotOnTrackColor
	case schema.AtRiskKind:
		return AtRiskColor
	case schema.OnTrackKind:
		return OnTrackColor
	case schema.DoneKind:
		return DoneColor
	case schema.OnHoldKind:
		return OnHoldColor
	case schema.TBDKind:
		return TBDColor
	default:
		return OtherColor
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(kind schema.StatusKind) string {
	return GetStatusColor(kind).Sprint(GetPlainLabel(kind))
}

// GetHeadlineColor colors a target headline or period pulse by the worst status it reflects.
func GetHeadlineColor(totals schema.Totals) *color.Color {
	switch {
	case totals[schema.NotOnTrackKind] > 0:
		return NotOnTrackColor
	case totals[schema.AtRiskKind] > 0:
		return AtRiskColor
	default:
		return OnTrackColor
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ReadDataSource returns the contents of a data file, or of stdin for StdinDataSource.
func ReadDataSource(path string, stdin io.Reader) (string, error) {
	if path == StdinDataSource {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// SourceName is the label recorded for a data source.
func SourceName(path string) string {
	if path == StdinDataSource {
		return "stdin"
	}
	return filepath.Base(path)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for ingestion history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ragboard_history.db"
	}
	return filepath.Join(homeDir, ".ragboard_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
