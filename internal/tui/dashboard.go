package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/huangsam/ragboard/core"
	"github.com/huangsam/ragboard/core/agg"
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/internal/outwriter"
	"github.com/huangsam/ragboard/schema"
)

const (
	defaultWidth = 80
	maxBarWidth  = 48
)

// Notice is the import feedback shown under the title.
type Notice struct {
	Text   string
	Failed bool
}

// NoticeFor turns an ingestion outcome into its feedback line.
func NoticeFor(result schema.IngestResult, err error) Notice {
	if err != nil {
		return Notice{Text: core.FailureMessage(err), Failed: true}
	}
	return Notice{Text: result.Message()}
}

// Model is the interactive dashboard over a Board.
type Model struct {
	board    *core.Board
	sortMode schema.SortMode
	keys     keyMap
	help     help.Model
	width    int
	notice   Notice
	quitting bool

	// form is the paste form while it is open, nil otherwise.
	form      *huh.Form
	pasteText *string
}

// NewModel returns a dashboard showing the board's current selection.
func NewModel(board *core.Board, cfg *contract.Config, notice Notice) Model {
	sortMode := schema.SeveritySort
	width := defaultWidth
	if cfg != nil {
		if cfg.Sort != "" {
			sortMode = cfg.Sort
		}
		if cfg.Width > 0 {
			width = cfg.Width
		}
	}
	return Model{
		board:    board,
		sortMode: sortMode,
		keys:     defaultKeyMap(),
		help:     help.New(),
		width:    width,
		notice:   notice,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updatePaste(msg)
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.PrevYear):
			m.stepYear(-1)
		case key.Matches(msg, m.keys.NextYear):
			m.stepYear(1)
		case key.Matches(msg, m.keys.PrevPI):
			m.stepPICycle(-1)
		case key.Matches(msg, m.keys.NextPI):
			m.stepPICycle(1)
		case key.Matches(msg, m.keys.Paste):
			return m.openPaste()
		case key.Matches(msg, m.keys.Sort):
			if m.sortMode == schema.SeveritySort {
				m.sortMode = schema.InputSort
			} else {
				m.sortMode = schema.SeveritySort
			}
		}
	}
	return m, nil
}

// openPaste switches to the paste form.
func (m Model) openPaste() (tea.Model, tea.Cmd) {
	m.pasteText = new(string)
	m.form = pasteForm(m.pasteText).WithWidth(max(m.width-4, 20))
	return m, m.form.Init()
}

// updatePaste drives the paste form. A submitted paste is ingested into the board, which
// switches the selection to the last ingested period; esc or an abort returns unchanged.
func (m Model) updatePaste(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			m.closePaste()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	m.finishPaste()
	return m, cmd
}

// finishPaste ingests a submitted form and closes a finished one.
func (m *Model) finishPaste() {
	switch m.form.State {
	case huh.StateCompleted:
		result, err := m.board.Ingest(PasteSource, *m.pasteText)
		m.notice = NoticeFor(result, err)
		m.closePaste()
	case huh.StateAborted:
		m.closePaste()
	}
}

func (m *Model) closePaste() {
	m.form = nil
	m.pasteText = nil
}

// stepYear moves the year selector and lands on that year's default PI cycle.
func (m *Model) stepYear(delta int) {
	years := m.board.Snapshot().AvailableYears()
	if len(years) == 0 {
		return
	}
	next, ok := step(years, m.board.Selected().Year, delta)
	if !ok {
		return
	}
	m.board.Select(next, "")
}

func (m *Model) stepPICycle(delta int) {
	selected := m.board.Selected()
	cycles := m.board.Snapshot().AvailablePICycles(selected.Year)
	if len(cycles) == 0 {
		return
	}
	next, ok := step(cycles, selected.PICycle, delta)
	if !ok {
		return
	}
	m.board.Select(selected.Year, next)
}

// step returns the neighbour of current in values, clamped to the ends.
// An unknown current value selects the last entry.
func step(values []string, current string, delta int) (string, bool) {
	idx := slices.Index(values, current)
	if idx < 0 {
		return values[len(values)-1], true
	}
	next := min(max(idx+delta, 0), len(values)-1)
	if next == idx {
		return "", false
	}
	return values[next], true
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	selected := m.board.Selected()
	sb.WriteString(styleTitle.Render("RAG Board"))
	sb.WriteString("  ")
	sb.WriteString(m.selectors(selected))
	sb.WriteString("\n")
	if m.form != nil {
		sb.WriteString("\n")
		sb.WriteString(m.form.View())
		sb.WriteString("\n")
		sb.WriteString(styleDim.Render("enter import • esc cancel"))
		return sb.String()
	}
	if m.notice.Text != "" {
		style := styleNotice
		if m.notice.Failed {
			style = styleError
		}
		sb.WriteString(style.Render(m.notice.Text))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if m.board.Snapshot().Len() == 0 {
		sb.WriteString(styleDim.Render("No periods loaded."))
		sb.WriteString("\n\n")
		sb.WriteString(m.help.View(m.keys))
		return sb.String()
	}

	view := m.board.View(selected, m.sortMode)
	sb.WriteString(attentionStyle(view.GrandTotal).Render("Pulse: " + view.Pulse))
	sb.WriteString("\n")
	sb.WriteString(renderTiles(view.Tiles))
	sb.WriteString("\n\n")

	if len(view.Targets) == 0 {
		sb.WriteString(styleDim.Render(fmt.Sprintf("No data for %s.", selected)))
		sb.WriteString("\n\n")
	}
	barWidth := m.barWidth()
	for _, card := range view.Targets {
		sb.WriteString(renderCard(card, barWidth))
		sb.WriteString("\n")
	}

	sb.WriteString(renderLegend())
	sb.WriteString("\n")
	sb.WriteString(styleDim.Render("Sort: " + string(m.sortMode)))
	sb.WriteString("  ")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) selectors(selected schema.PeriodKey) string {
	year, pi := selected.Year, selected.PICycle
	if year == "" {
		year = "-"
	}
	if pi == "" {
		pi = "-"
	}
	return styleDim.Render("Year ‹ ") + styleBold.Render(year) + styleDim.Render(" ›  PI ‹ ") +
		styleBold.Render(pi) + styleDim.Render(" ›")
}

func (m Model) barWidth() int {
	return min(max(m.width-8, contract.MinBarWidth), maxBarWidth)
}

func renderTiles(tiles schema.Tiles) string {
	parts := []string{
		styleTile.Render(kindStyle(schema.NotOnTrackKind).Render(fmt.Sprintf("Not on track %d", tiles.NotOnTrack))),
		styleTile.Render(kindStyle(schema.AtRiskKind).Render(fmt.Sprintf("At risk %d", tiles.AtRisk))),
		styleTile.Render(kindStyle(schema.OnTrackKind).Render(fmt.Sprintf("On track/Done %d", tiles.OnTrackDone))),
		styleTile.Render(kindStyle(schema.OnHoldKind).Render(fmt.Sprintf("On hold/TBD %d", tiles.Neutral))),
	}
	if tiles.Other > 0 {
		parts = append(parts, styleTile.Render(kindStyle("").Render(fmt.Sprintf("%s %d", contract.OtherLabel, tiles.Other))))
	}
	parts = append(parts, styleTile.Render(styleBold.Render(fmt.Sprintf("%d objectives", tiles.Objectives))))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderCard(card schema.TargetCard, barWidth int) string {
	var sb strings.Builder
	sb.WriteString(styleBold.Render(card.Target))
	sb.WriteString(styleDim.Render(fmt.Sprintf("  #%d · %d objectives", card.Rank, card.Objectives)))
	sb.WriteString("\n")
	sb.WriteString(renderBar(card.Totals, barWidth))
	sb.WriteString("  ")
	sb.WriteString(attentionStyle(card.Totals).Render(card.Headline))
	sb.WriteString("\n")

	var counts []string
	for _, kind := range schema.SeverityOrder {
		n := card.Totals[kind]
		if n == 0 {
			continue
		}
		counts = append(counts, kindStyle(kind).Render(fmt.Sprintf("%s %d (%d%%)", kind, n, agg.Pct(n, card.Objectives))))
	}
	if n := card.Totals.Unknown(); n > 0 {
		counts = append(counts, kindStyle("").Render(fmt.Sprintf("%s %d (%d%%)", contract.OtherLabel, n, agg.Pct(n, card.Objectives))))
	}
	sb.WriteString(strings.Join(counts, styleDim.Render(" · ")))
	return styleCard.Render(sb.String())
}

func renderBar(totals schema.Totals, width int) string {
	segments := outwriter.BarSegments(totals, width)
	if segments == nil {
		return styleDim.Render(strings.Repeat("─", width))
	}
	var sb strings.Builder
	for _, seg := range segments {
		if seg.Cells == 0 {
			continue
		}
		sb.WriteString(kindStyle(seg.Kind).Render(strings.Repeat(outwriter.PlainGlyph(seg.Kind), seg.Cells)))
	}
	return sb.String()
}

func renderLegend() string {
	parts := make([]string, 0, len(schema.SeverityOrder)+1)
	for _, kind := range schema.SeverityOrder {
		parts = append(parts, kindStyle(kind).Render(outwriter.PlainGlyph(kind)+" "+string(kind)))
	}
	parts = append(parts, kindStyle("").Render(outwriter.PlainGlyph("")+" "+contract.OtherLabel))
	return strings.Join(parts, "  ")
}

// Run starts the dashboard and blocks until the user quits or ctx is done.
func Run(ctx context.Context, board *core.Board, cfg *contract.Config, notice Notice) error {
	p := tea.NewProgram(NewModel(board, cfg, notice), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
