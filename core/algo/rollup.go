// Package algo has the status rollup and ranking rules.
package algo

import (
	"slices"

	"github.com/huangsam/ragboard/schema"
)

// Rollup combines the statuses recorded for one objective into a single status.
//
// On hold and TBD entries are inactive and never mask an active signal. When
// every entry is inactive, On hold beats TBD. Among active entries the worst
// signal wins; all-Done rolls up to Done and any other active mix to On track.
// The result does not depend on input order.
func Rollup(statuses []schema.StatusKind) schema.StatusKind {
	active := make([]schema.StatusKind, 0, len(statuses))
	onHold := false
	for _, s := range statuses {
		if s == schema.OnHoldKind {
			onHold = true
		}
		if s.IsActive() {
			active = append(active, s)
		}
	}

	switch {
	case len(active) == 0 && onHold:
		return schema.OnHoldKind
	case len(active) == 0:
		return schema.TBDKind
	case slices.Contains(active, schema.NotOnTrackKind):
		return schema.NotOnTrackKind
	case slices.Contains(active, schema.AtRiskKind):
		return schema.AtRiskKind
	case allDone(active):
		return schema.DoneKind
	default:
		return schema.OnTrackKind
	}
}

func allDone(statuses []schema.StatusKind) bool {
	for _, s := range statuses {
		if s != schema.DoneKind {
			return false
		}
	}
	return true
}
