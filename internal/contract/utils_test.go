package contract

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/ragboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestGetPlainLabel(t *testing.T) {
	for _, k := range schema.SeverityOrder {
		assert.Equal(t, string(k), GetPlainLabel(k))
	}
	assert.Equal(t, OtherLabel, GetPlainLabel(schema.StatusKind("Amber")))
}

func TestGetStatusColor(t *testing.T) {
	assert.Same(t, NotOnTrackColor, GetStatusColor(schema.NotOnTrackKind))
	assert.Same(t, AtRiskColor, GetStatusColor(schema.AtRiskKind))
	assert.Same(t, OtherColor, GetStatusColor(schema.StatusKind("Amber")))
	assert.Contains(t, GetColorLabel(schema.DoneKind), "Done")
}

func TestGetHeadlineColor(t *testing.T) {
	totals := schema.NewTotals()
	assert.Same(t, OnTrackColor, GetHeadlineColor(totals))
	totals[schema.AtRiskKind] = 1
	assert.Same(t, AtRiskColor, GetHeadlineColor(totals))
	totals[schema.NotOnTrackKind] = 1
	assert.Same(t, NotOnTrackColor, GetHeadlineColor(totals))
}

func TestReadDataSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.tsv")
	require.NoError(t, os.WriteFile(path, []byte("year\tpi"), 0o644))

	got, err := ReadDataSource(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "year\tpi", got)

	got, err = ReadDataSource(StdinDataSource, strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	_, err = ReadDataSource(filepath.Join(dir, "missing.tsv"), nil)
	assert.Error(t, err)
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "stdin", SourceName("-"))
	assert.Equal(t, "rows.tsv", SourceName("/tmp/data/rows.tsv"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "Solid r...", TruncateText("Solid risk management", 10))
	assert.Equal(t, "abcdef", TruncateText("abcdef", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestGetHistoryDBFilePath(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetHistoryDBFilePath(), ".ragboard_history.db"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zapcore.InfoLevel, &buf)
	logger.Debug("hidden")
	logger.Info("ingested", zap.String("source", "rows.tsv"))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "ingested")
	assert.Contains(t, out, "rows.tsv")
	assert.Contains(t, out, "INFO")
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	level, err = ParseLogLevel(" ERROR ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, level)

	_, err = ParseLogLevel("loud")
	assert.Error(t, err)
}
