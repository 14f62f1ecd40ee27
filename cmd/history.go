package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/internal/history"
	"github.com/huangsam/ragboard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadHistoryConfig reads only the history settings, skipping data-file processing.
func loadHistoryConfig() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(viper.GetString("history-backend"))))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetup loads minimal configuration and opens the history store.
func historySetup() error {
	if err := loadHistoryConfig(); err != nil {
		return err
	}
	if err := history.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetupWrapper loads configuration without opening the store,
// so migrations can run against a fresh database.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return loadHistoryConfig()
}

// sqlitePath returns the SQLite file in use: the connection string or the default path.
func sqlitePath() string {
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return history.GetDBFilePath()
}

// historyCmd focused on ingestion history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup, so they never ingest data files.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the ingestion history",
	Long: `Manage the audit trail of past ingestions.

When a history backend is configured, ragboard records every successful ingestion:
- Run metadata (run id, timestamp, source, row and period counts)
- Per-target status counts for every period the run replaced

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show history statistics
  export  - Export history to Parquet
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Check history status
  ragboard history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  ragboard history export --history-backend sqlite --output-file history`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show the backend, connection state, number of recorded runs, first and last
run times, total rows ingested and table sizes.

Examples:
  RAGBOARD_HISTORY_BACKEND=sqlite ragboard history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := history.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history to Parquet for BI tools and analytics",
	Long: `Export all recorded ingestions to Parquet.

Writes two files next to --output-file:
- <output-file>.ingestion_runs.parquet
- <output-file>.period_totals.parquet

Requires: --output-file parameter

Examples:
  ragboard history export --history-backend sqlite --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.period_totals.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExecuteHistoryExport(cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyClearCmd clears the history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded ingestion history",
	Long: `Delete every recorded run and its period totals.

For SQLite the database file is removed; for MySQL and PostgreSQL the history
tables are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  ragboard history export --history-backend sqlite --output-file backup
  ragboard history clear --history-backend sqlite`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ClearHistory(cfg.HistoryBackend, sqlitePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  ragboard history migrate --history-backend sqlite

  # Migrate to specific version
  ragboard history migrate --history-backend sqlite --target-version 1

  # Rollback everything
  ragboard history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		connStr := cfg.HistoryDBConnect
		if cfg.HistoryBackend == schema.SQLiteBackend {
			connStr = sqlitePath()
		}
		if err := history.Migrate(cfg.HistoryBackend, connStr, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
