package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/huangsam/ragboard/schema"
)

// Palette for the six statuses plus chrome.
var (
	ColorNotOnTrack = lipgloss.Color("#fb4934")
	ColorAtRisk     = lipgloss.Color("#fabd2f")
	ColorOnTrack    = lipgloss.Color("#8ec07c")
	ColorDone       = lipgloss.Color("#83a598")
	ColorOnHold     = lipgloss.Color("#928374")
	ColorTBD        = lipgloss.Color("#bdae93")
	ColorOther      = lipgloss.Color("#d3869b")
	ColorFg         = lipgloss.Color("#ebdbb2")
	ColorDim        = lipgloss.Color("#7c6f64")
	ColorHeader     = lipgloss.Color("#fe8019")
)

var (
	styleTitle  = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	styleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	styleNotice = lipgloss.NewStyle().Foreground(ColorDone)
	styleError  = lipgloss.NewStyle().Foreground(ColorNotOnTrack).Bold(true)
	styleTile   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 1)
	styleCard = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorDim).
			PaddingLeft(1).
			MarginBottom(1)
)

// kindStyle returns the foreground style for a status kind. Unknown labels share one style.
func kindStyle(kind schema.StatusKind) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(kindColor(kind))
}

func kindColor(kind schema.StatusKind) lipgloss.Color {
	switch kind {
	case schema.NotOnTrackKind:
		return ColorNotOnTrack
	case schema.AtRiskKind:
		return ColorAtRisk
	case schema.OnTrackKind:
		return ColorOnTrack
	case schema.DoneKind:
		return ColorDone
	case schema.OnHoldKind:
		return ColorOnHold
	case schema.TBDKind:
		return ColorTBD
	default:
		return ColorOther
	}
}

// attentionStyle colors a headline or pulse by the worst status behind it.
func attentionStyle(totals schema.Totals) lipgloss.Style {
	switch {
	case totals[schema.NotOnTrackKind] > 0:
		return kindStyle(schema.NotOnTrackKind).Bold(true)
	case totals[schema.AtRiskKind] > 0:
		return kindStyle(schema.AtRiskKind).Bold(true)
	default:
		return kindStyle(schema.OnTrackKind)
	}
}

func ragboardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorDim)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorNotOnTrack)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(ColorDim)

	return t
}
