package algo

import (
	"slices"

	"github.com/huangsam/ragboard/schema"
)

// Severity is the number of objectives under a target that need attention.
func Severity(totals schema.Totals) int {
	return totals[schema.NotOnTrackKind] + totals[schema.AtRiskKind]
}

// RankTargets returns a copy of targets ordered by severity, most severe first.
// Ties keep their input order. The input slice is not modified.
func RankTargets(targets []schema.TargetAggregate) []schema.TargetAggregate {
	ranked := slices.Clone(targets)
	slices.SortStableFunc(ranked, func(a, b schema.TargetAggregate) int {
		return Severity(b.Totals) - Severity(a.Totals)
	})
	return ranked
}
