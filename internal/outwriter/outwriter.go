// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/ragboard/internal/contract"
	"golang.org/x/term"
)

// fixedColumnsWidth is the space taken by every table column except Target and Bar.
const fixedColumnsWidth = 96

// getTermWidth returns the width override or the detected terminal width.
func getTermWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetBarWidth calculates the stacked bar width for table output
// based on terminal width.
func GetBarWidth(cfg *contract.Config) int {
	available := getTermWidth(cfg) - fixedColumnsWidth - 20
	return min(max(available, contract.MinBarWidth), contract.DefaultBarWidth)
}

// GetMaxTargetWidth calculates the maximum width for target names in table output.
func GetMaxTargetWidth(cfg *contract.Config) int {
	available := getTermWidth(cfg) - fixedColumnsWidth - GetBarWidth(cfg)
	if available < 16 {
		return 16
	}
	if available > 48 {
		return 48
	}
	return available
}
