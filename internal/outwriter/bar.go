package outwriter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/schema"
)

// plainGlyphs tell segments apart when colors are off.
var plainGlyphs = map[schema.StatusKind]string{
	schema.NotOnTrackKind: "█",
	schema.AtRiskKind:     "▓",
	schema.OnTrackKind:    "▒",
	schema.DoneKind:       "░",
	schema.OnHoldKind:     "·",
	schema.TBDKind:        "?",
}

const (
	otherGlyph = "*"
	emptyGlyph = "─"
)

// BarSegment is one colored run of a stacked bar.
type BarSegment struct {
	Kind  schema.StatusKind // empty for the combined unknown labels
	Count int
	Cells int
	frac  int
}

// BarSegments apportions width cells over totals in severity order, unknown
// labels last, using the largest remainder method. Segments with zero cells
// are included so callers can keep a stable layout.
func BarSegments(totals schema.Totals, width int) []BarSegment {
	sum := totals.Sum()
	if width <= 0 || sum == 0 {
		return nil
	}

	segments := make([]BarSegment, 0, len(schema.SeverityOrder)+1)
	for _, kind := range schema.SeverityOrder {
		segments = append(segments, BarSegment{Kind: kind, Count: totals[kind]})
	}
	segments = append(segments, BarSegment{Count: totals.Unknown()})

	used := 0
	for i := range segments {
		scaled := segments[i].Count * width
		segments[i].Cells = scaled / sum
		segments[i].frac = scaled % sum
		used += segments[i].Cells
	}

	order := make([]int, len(segments))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(segments[b].frac, segments[a].frac)
	})
	for _, idx := range order[:width-used] {
		segments[idx].Cells++
	}
	return segments
}

// RenderStackedBar draws totals as a bar of exactly width cells.
func RenderStackedBar(totals schema.Totals, width int, useColors bool) string {
	if width <= 0 {
		return ""
	}
	segments := BarSegments(totals, width)
	if segments == nil {
		return strings.Repeat(emptyGlyph, width)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if seg.Cells == 0 {
			continue
		}
		sb.WriteString(renderSegment(seg, useColors))
	}
	return sb.String()
}

func renderSegment(seg BarSegment, useColors bool) string {
	if useColors {
		return contract.GetStatusColor(seg.Kind).Sprint(strings.Repeat("█", seg.Cells))
	}
	return strings.Repeat(PlainGlyph(seg.Kind), seg.Cells)
}

// PlainGlyph returns the colorless bar glyph for kind.
func PlainGlyph(kind schema.StatusKind) string {
	if g, ok := plainGlyphs[kind]; ok {
		return g
	}
	return otherGlyph
}

// BarLegend explains the glyphs used by RenderStackedBar.
func BarLegend(useColors bool) string {
	kinds := append(slices.Clone(schema.SeverityOrder), "")
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		if useColors {
			parts = append(parts, contract.GetStatusColor(kind).Sprint("█")+" "+contract.GetColorLabel(kind))
			continue
		}
		parts = append(parts, PlainGlyph(kind)+" "+contract.GetPlainLabel(kind))
	}
	return strings.Join(parts, "  ")
}
