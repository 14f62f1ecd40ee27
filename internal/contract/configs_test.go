package contract

import (
	"testing"
	"time"

	"github.com/huangsam/ragboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output: "text",
		Sort:   "severity",
		Color:  "yes",
		Emoji:  "no",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid minimal config"},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: "invalid output format"},
		{name: "parquet needs file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: "--output-file is required"},
		{name: "invalid sort", mutate: func(in *ConfigRawInput) { in.Sort = "alpha" }, expectError: "invalid sort"},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: "invalid --color value"},
		{name: "invalid emoji", mutate: func(in *ConfigRawInput) { in.Emoji = "2" }, expectError: "invalid --emoji value"},
		{name: "negative width", mutate: func(in *ConfigRawInput) { in.Width = -1 }, expectError: "width must not be negative"},
		{name: "invalid log level", mutate: func(in *ConfigRawInput) { in.LogLevel = "loud" }, expectError: "invalid --log-level value"},
		{name: "invalid debounce", mutate: func(in *ConfigRawInput) { in.Debounce = "soon" }, expectError: "invalid --debounce value"},
		{name: "zero debounce", mutate: func(in *ConfigRawInput) { in.Debounce = "0s" }, expectError: "debounce must be greater than 0"},
		{name: "pi without year", mutate: func(in *ConfigRawInput) { in.PI = "PI2" }, expectError: "--pi requires --year"},
		{name: "seed conflict", mutate: func(in *ConfigRawInput) { in.NoSeed = true; in.SeedFile = "seed.yaml" }, expectError: "cannot be used together"},
		{name: "invalid backend", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "redis" }, expectError: "invalid history backend"},
		{name: "mysql without conn", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "mysql" }, expectError: "history-db-connect is required"},
		{name: "stdin twice", mutate: func(in *ConfigRawInput) { in.DataFiles = []string{"-", "a.tsv", "-"} }, expectError: "can only be read once"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			if tt.mutate != nil {
				tt.mutate(input)
			}
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateFillsConfig(t *testing.T) {
	input := validInput()
	input.Year = " 2025 "
	input.PI = "pi2"
	input.Output = "JSON"
	input.HistoryBackend = "SQLite"
	input.LogLevel = "debug"
	input.Debounce = "1s"
	input.CoerceUnknown = true
	input.DataFiles = []string{"a.tsv", " ", "-"}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "2025", cfg.Year)
	assert.Equal(t, "PI2", cfg.PICycle)
	assert.True(t, cfg.HasSelection())
	assert.Equal(t, schema.NewPeriodKey("2025", "PI2"), cfg.Selection())
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.True(t, cfg.CoerceUnknown)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.UseEmojis)
	assert.Equal(t, []string{"a.tsv", "-"}, cfg.DataFiles)
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.False(t, cfg.HasSelection())
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
	assert.Equal(t, zapcore.WarnLevel, cfg.LogLevel)
	assert.Equal(t, DefaultDebounce, cfg.Debounce)
	assert.Empty(t, cfg.DataFiles)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{schema.SQLiteBackend, "", false},
		{schema.NoneBackend, "", false},
		{schema.MySQLBackend, "user:pass@tcp(localhost:3306)/ragboard", false},
		{schema.MySQLBackend, "user:pass@localhost/ragboard", true},
		{schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{schema.PostgreSQLBackend, "host=localhost port=5432 user=u password=p dbname=ragboard", false},
		{schema.PostgreSQLBackend, "host=localhost", true},
		{schema.PostgreSQLBackend, "dbname=ragboard", true},
		{schema.PostgreSQLBackend, "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend)+"/"+tt.conn, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
