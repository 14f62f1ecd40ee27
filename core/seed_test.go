package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/ragboard/core/agg"
	"github.com/huangsam/ragboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	store, err := DefaultSeed()
	require.NoError(t, err)
	require.Equal(t, []schema.PeriodKey{schema.NewPeriodKey("2025", "PI3")}, store.Keys())

	targets := store.Get(schema.NewPeriodKey("2025", "PI3"))
	require.Len(t, targets, 5)
	assert.Equal(t, "24/7 availability", targets[0].Target)
	assert.Equal(t, "Competitive return on investment capital — ROE with market leading C/I", targets[2].Target)

	grand := agg.GrandTotal(targets)
	assert.Equal(t, 47, grand.Sum())
	assert.Equal(t, 13, grand[schema.NotOnTrackKind])
	assert.Equal(t, 19, grand[schema.AtRiskKind])
	assert.Equal(t, 11, grand[schema.OnTrackKind])
	assert.Equal(t, 1, grand[schema.DoneKind])
	assert.Equal(t, 0, grand[schema.OnHoldKind])
	assert.Equal(t, 3, grand[schema.TBDKind])
}

func TestParseSeedNormalizesLabels(t *testing.T) {
	store, err := ParseSeed([]byte(`
periods:
  - year: "2026"
    pi: pi1
    targets:
      - target: Ops
        totals: {on track: 2, On track: 1, Purple: 1}
`))
	require.NoError(t, err)
	targets := store.Get(schema.NewPeriodKey("2026", "PI1"))
	require.Len(t, targets, 1)
	assert.Equal(t, 3, targets[0].Totals[schema.OnTrackKind])
	assert.Equal(t, 1, targets[0].Totals["Purple"])
}

func TestParseSeedInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"malformed", "periods: [", "invalid seed"},
		{"missing pi", "periods:\n  - year: \"2025\"\n", "needs both year and pi"},
		{"duplicate", "periods:\n  - {year: \"2025\", pi: PI1}\n  - {year: \"2025\", pi: pi1}\n", "listed twice"},
		{"unnamed target", "periods:\n  - year: \"2025\"\n    pi: PI1\n    targets:\n      - totals: {Done: 1}\n", "without a name"},
		{"negative", "periods:\n  - year: \"2025\"\n    pi: PI1\n    targets:\n      - {target: X, totals: {Done: -1}}\n", "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildSeed(t *testing.T) {
	store, err := BuildSeed(true, "")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("periods:\n  - {year: \"2030\", pi: PI2}\n"), 0o600))
	store, err = BuildSeed(false, path)
	require.NoError(t, err)
	assert.True(t, store.Has(schema.NewPeriodKey("2030", "PI2")))

	_, err = BuildSeed(false, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read seed file")

	store, err = BuildSeed(false, "")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}
