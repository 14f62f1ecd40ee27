// Package agg turns parsed status records into per-target counts for a period.
package agg

import (
	"strings"

	"github.com/huangsam/ragboard/core/algo"
	"github.com/huangsam/ragboard/schema"
)

type objectiveKey struct {
	target    string
	objective string
}

// FilterPeriod keeps the records for year (exact match) and piCycle (case-insensitive).
// PI cycles compare upper-cased, the same way PeriodKey canonicalizes them.
func FilterPeriod(records []schema.StatusRecord, year, piCycle string) []schema.StatusRecord {
	pi := strings.ToUpper(piCycle)
	var out []schema.StatusRecord
	for _, r := range records {
		if r.Year == year && strings.ToUpper(r.PICycle) == pi {
			out = append(out, r)
		}
	}
	return out
}

// RollupObjectives rolls up the records of one period into one status per
// (target, objective) pair, in order of first appearance.
func RollupObjectives(records []schema.StatusRecord, year, piCycle string) []schema.ObjectiveRollup {
	filtered := FilterPeriod(records, year, piCycle)
	if len(filtered) == 0 {
		return nil
	}

	var order []objectiveKey
	groups := make(map[objectiveKey][]schema.StatusKind)
	for _, r := range filtered {
		key := objectiveKey{target: r.Target, objective: r.Objective}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r.RAG)
	}

	rollups := make([]schema.ObjectiveRollup, 0, len(order))
	for _, key := range order {
		rollups = append(rollups, schema.ObjectiveRollup{
			Target:    key.target,
			Objective: key.objective,
			RAG:       algo.Rollup(groups[key]),
		})
	}
	return rollups
}

// Aggregate counts rolled-up objective statuses per target for one period.
// Targets appear in order of first occurrence; an empty period yields an empty slice.
func Aggregate(records []schema.StatusRecord, year, piCycle string) []schema.TargetAggregate {
	rollups := RollupObjectives(records, year, piCycle)
	if len(rollups) == 0 {
		return []schema.TargetAggregate{}
	}

	var targets []string
	totals := make(map[string]schema.Totals)
	for _, r := range rollups {
		t, ok := totals[r.Target]
		if !ok {
			t = schema.NewTotals()
			totals[r.Target] = t
			targets = append(targets, r.Target)
		}
		t[r.RAG]++
	}

	out := make([]schema.TargetAggregate, 0, len(targets))
	for _, name := range targets {
		out = append(out, schema.TargetAggregate{Target: name, Totals: totals[name]})
	}
	return out
}

// GrandTotal sums totals across targets. Every canonical kind is present.
func GrandTotal(targets []schema.TargetAggregate) schema.Totals {
	total := schema.NewTotals()
	for _, t := range targets {
		total.Add(t.Totals)
	}
	return total
}
