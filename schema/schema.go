// Package schema has the models and enums shared by all parts of ragboard.
package schema

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// StatusRecord is one parsed data row: a single RAG reading for an objective in a period.
type StatusRecord struct {
	Year      string     `json:"year"`
	PICycle   string     `json:"pi"`
	Target    string     `json:"target"`
	Objective string     `json:"objective"`
	RAG       StatusKind `json:"rag"`
}

// ObjectiveRollup is the combined status of every record for one (target, objective) pair.
type ObjectiveRollup struct {
	Target    string     `json:"target"`
	Objective string     `json:"objective"`
	RAG       StatusKind `json:"rag"`
}

// Totals counts objectives per status kind.
type Totals map[StatusKind]int

// NewTotals returns totals with every canonical kind present at zero.
func NewTotals() Totals {
	t := make(Totals, len(SeverityOrder))
	for _, k := range SeverityOrder {
		t[k] = 0
	}
	return t
}

// Sum returns the number of objectives counted.
func (t Totals) Sum() int {
	sum := 0
	for _, n := range t {
		sum += n
	}
	return sum
}

// Unknown returns the number of objectives whose status is not canonical.
func (t Totals) Unknown() int {
	n := 0
	for k, v := range t {
		if !k.IsCanonical() {
			n += v
		}
	}
	return n
}

// Kinds returns the kinds present in t: canonical kinds in severity order,
// then unrecognized labels sorted.
func (t Totals) Kinds() []StatusKind {
	kinds := slices.Clone(SeverityOrder)
	var unknown []StatusKind
	for k := range t {
		if !k.IsCanonical() {
			unknown = append(unknown, k)
		}
	}
	slices.Sort(unknown)
	return append(kinds, unknown...)
}

// Add accumulates other into t.
func (t Totals) Add(other Totals) {
	for k, v := range other {
		t[k] += v
	}
}

// Clone returns an independent copy of t.
func (t Totals) Clone() Totals {
	return maps.Clone(t)
}

// TargetAggregate holds per-status objective counts for one strategic target.
type TargetAggregate struct {
	Target string `json:"target"`
	Totals Totals `json:"totals"`
}

// Objectives returns the number of distinct objectives under the target.
func (a TargetAggregate) Objectives() int {
	return a.Totals.Sum()
}

// PeriodKey identifies a (year, PI cycle) period. PI cycles are stored upper-cased
// so that keys built with NewPeriodKey compare case-insensitively.
type PeriodKey struct {
	Year    string `json:"year"`
	PICycle string `json:"pi"`
}

// NewPeriodKey builds a canonical key.
func NewPeriodKey(year, piCycle string) PeriodKey {
	return PeriodKey{
		Year:    strings.TrimSpace(year),
		PICycle: strings.ToUpper(strings.TrimSpace(piCycle)),
	}
}

// String renders the key as "<year> <PI>".
func (k PeriodKey) String() string {
	return fmt.Sprintf("%s %s", k.Year, k.PICycle)
}

// IsZero reports whether k is unset.
func (k PeriodKey) IsZero() bool {
	return k.Year == "" && k.PICycle == ""
}
