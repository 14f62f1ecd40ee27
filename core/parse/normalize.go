// Package parse turns pasted tabular status text into typed records.
package parse

import (
	"strings"

	"github.com/huangsam/ragboard/schema"
)

// synonyms maps lower-cased, trimmed labels to canonical kinds.
var synonyms = map[string]schema.StatusKind{
	"on track":     schema.OnTrackKind,
	"ontrack":      schema.OnTrackKind,
	"at risk":      schema.AtRiskKind,
	"atrisk":       schema.AtRiskKind,
	"not on track": schema.NotOnTrackKind,
	"notontrack":   schema.NotOnTrackKind,
	"done":         schema.DoneKind,
	"on hold":      schema.OnHoldKind,
	"onhold":       schema.OnHoldKind,
	"tbd":          schema.TBDKind,
	"":             schema.TBDKind,
}

// Normalize maps free-form status text to a StatusKind.
// Unrecognized non-empty text is returned unchanged, so callers must be ready
// for a kind outside the canonical six.
func Normalize(raw string) schema.StatusKind {
	if kind, ok := synonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return kind
	}
	return schema.StatusKind(raw)
}

// NormalizeStrict is Normalize with unrecognized text coerced to TBD.
func NormalizeStrict(raw string) schema.StatusKind {
	kind := Normalize(raw)
	if !kind.IsCanonical() {
		return schema.TBDKind
	}
	return kind
}
