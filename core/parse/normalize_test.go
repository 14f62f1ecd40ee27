package parse

import (
	"testing"

	"github.com/huangsam/ragboard/schema"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want schema.StatusKind
	}{
		{"On Track", schema.OnTrackKind},
		{"ontrack", schema.OnTrackKind},
		{"  AT RISK ", schema.AtRiskKind},
		{"atrisk", schema.AtRiskKind},
		{"Not on track", schema.NotOnTrackKind},
		{"NotOnTrack", schema.NotOnTrackKind},
		{"Done", schema.DoneKind},
		{"on hold", schema.OnHoldKind},
		{"OnHold", schema.OnHoldKind},
		{"TBD", schema.TBDKind},
		{"", schema.TBDKind},
		{"   ", schema.TBDKind},
		{"Amber", schema.StatusKind("Amber")},
		{" green ", schema.StatusKind(" green ")},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"On Track", "at risk", "NOTONTRACK", "done", "on hold", "tbd", "", "Amber", " x "}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(string(once)), "input %q", in)
	}
	for _, k := range schema.SeverityOrder {
		assert.Equal(t, k, Normalize(string(k)))
	}
}

func TestNormalizeStrict(t *testing.T) {
	assert.Equal(t, schema.TBDKind, NormalizeStrict("Amber"))
	assert.Equal(t, schema.AtRiskKind, NormalizeStrict("At Risk"))
	assert.Equal(t, schema.TBDKind, NormalizeStrict(""))
}
