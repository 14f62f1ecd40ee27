package agg

import (
	"math"

	"github.com/huangsam/ragboard/core/algo"
	"github.com/huangsam/ragboard/schema"
)

// Headlines for a single target.
const (
	HeadlineAttention = "Attention needed"
	HeadlineMonitor   = "Monitor closely"
	HeadlineOnTrack   = "On track"
)

// Pulse lines for a whole period.
const (
	PulseAttention = "Portfolio attention required"
	PulseMonitor   = "Monitor and unblock quickly"
	PulseOnTrack   = "Tracking to plan"
)

// Pct returns n as a rounded percentage of d, or 0 when d is 0.
func Pct(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}

// Headline summarizes one target's totals.
func Headline(totals schema.Totals) string {
	switch {
	case totals[schema.NotOnTrackKind] > 0:
		return HeadlineAttention
	case totals[schema.AtRiskKind] > 0:
		return HeadlineMonitor
	default:
		return HeadlineOnTrack
	}
}

// Pulse summarizes a period's grand total.
func Pulse(grand schema.Totals) string {
	switch {
	case grand[schema.NotOnTrackKind] > 0:
		return PulseAttention
	case grand[schema.AtRiskKind] > 0:
		return PulseMonitor
	default:
		return PulseOnTrack
	}
}

// BuildTiles derives the header summary counts from a grand total.
func BuildTiles(grand schema.Totals) schema.Tiles {
	return schema.Tiles{
		NotOnTrack:  grand[schema.NotOnTrackKind],
		AtRisk:      grand[schema.AtRiskKind],
		OnTrackDone: grand[schema.OnTrackKind] + grand[schema.DoneKind],
		Neutral:     grand[schema.OnHoldKind] + grand[schema.TBDKind],
		Other:       grand.Unknown(),
		Objectives:  grand.Sum(),
	}
}

// BuildView assembles the presentation view for one period.
func BuildView(key schema.PeriodKey, targets []schema.TargetAggregate, sortMode schema.SortMode) schema.PeriodView {
	ordered := targets
	if sortMode != schema.InputSort {
		ordered = algo.RankTargets(targets)
	}

	grand := GrandTotal(targets)
	cards := make([]schema.TargetCard, 0, len(ordered))
	for i, t := range ordered {
		cards = append(cards, schema.TargetCard{
			Rank:       i + 1,
			Target:     t.Target,
			Objectives: t.Objectives(),
			Totals:     t.Totals,
			Headline:   Headline(t.Totals),
		})
	}

	return schema.PeriodView{
		Period:     key,
		Pulse:      Pulse(grand),
		GrandTotal: grand,
		Tiles:      BuildTiles(grand),
		Targets:    cards,
	}
}
