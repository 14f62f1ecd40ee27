package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/ragboard/schema"
	"go.uber.org/zap/zapcore"
)

// Default values for configuration.
const (
	DefaultLogLevel  = "warn"
	DefaultDebounce  = 300 * time.Millisecond
	DefaultBarWidth  = 24
	MinBarWidth      = 8
	StdinDataSource  = "-"
	PreferredPICycle = "PI3"
)

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Year       string // Selected year ("" = default selection)
	PICycle    string // Selected PI cycle, upper-cased ("" = default selection)
	Output     schema.OutputMode
	OutputFile string
	Sort       schema.SortMode
	Width      int // Terminal width override (0 = auto-detect)

	CoerceUnknown bool
	SeedFile      string
	NoSeed        bool

	LogLevel zapcore.Level
	Debounce time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	DataFiles []string

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataFiles []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Year             string `mapstructure:"year"`
	PI               string `mapstructure:"pi"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Sort             string `mapstructure:"sort"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Emoji            string `mapstructure:"emoji"`
	CoerceUnknown    bool   `mapstructure:"coerce-unknown"`
	SeedFile         string `mapstructure:"seed-file"`
	NoSeed           bool   `mapstructure:"no-seed"`
	LogLevel         string `mapstructure:"log-level"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from watchCmd.Flags() ---
	Debounce string `mapstructure:"debounce"`
}

// HasSelection reports whether the user picked a period explicitly.
func (c *Config) HasSelection() bool {
	return c.Year != ""
}

// Selection returns the explicitly chosen period.
func (c *Config) Selection() schema.PeriodKey {
	return schema.NewPeriodKey(c.Year, c.PICycle)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSelection(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return processDataFiles(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all output and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.CoerceUnknown = input.CoerceUnknown
	cfg.SeedFile = strings.TrimSpace(input.SeedFile)
	cfg.NoSeed = input.NoSeed

	if input.Width < 0 {
		return fmt.Errorf("width must not be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required when using parquet output")
	}

	cfg.Sort = schema.SortMode(strings.ToLower(input.Sort))
	if _, ok := schema.ValidSortModes[cfg.Sort]; !ok {
		return fmt.Errorf("invalid sort '%s'. must be severity, input", input.Sort)
	}

	level, err := ParseLogLevel(input.LogLevel)
	if err != nil {
		return err
	}
	cfg.LogLevel = level

	cfg.Debounce = DefaultDebounce
	if input.Debounce != "" {
		d, err := time.ParseDuration(input.Debounce)
		if err != nil {
			return fmt.Errorf("invalid --debounce value: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("debounce must be greater than 0 (received %s)", d)
		}
		cfg.Debounce = d
	}

	if cfg.NoSeed && cfg.SeedFile != "" {
		return fmt.Errorf("--no-seed and --seed-file cannot be used together")
	}

	return nil
}

// processSelection normalizes the explicit period selection.
func processSelection(cfg *Config, input *ConfigRawInput) error {
	key := schema.NewPeriodKey(input.Year, input.PI)
	if key.Year == "" && key.PICycle != "" {
		return fmt.Errorf("--pi requires --year")
	}
	cfg.Year = key.Year
	cfg.PICycle = key.PICycle
	return nil
}

// validateBackendConfig validates the history backend configuration.
// An empty backend disables history.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.HistoryBackend)))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// processDataFiles copies the positional data files, rejecting stdin listed twice.
func processDataFiles(cfg *Config, input *ConfigRawInput) error {
	cfg.DataFiles = nil
	stdin := 0
	for _, f := range input.DataFiles {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if f == StdinDataSource {
			stdin++
		}
		cfg.DataFiles = append(cfg.DataFiles, f)
	}
	if stdin > 1 {
		return fmt.Errorf("stdin (%q) can only be read once", StdinDataSource)
	}
	return nil
}
