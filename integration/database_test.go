//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/ragboard/internal/history"
	"github.com/huangsam/ragboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const statusRows = "Year\tPI\tStrategic Target\tObjective\tRAG\n" +
	"2025\tPI2\tGrowth\tO1\tAt risk\n" +
	"2025\tPI2\tGrowth\tO2\tDone\n" +
	"2025\tPI2\tPeople\tO3\tOn track\n"

// startMySQL starts a MySQL 8 container and returns its DSN.
func startMySQL(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "ragboard",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysqlC.Terminate(ctx) })

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return fmt.Sprintf("root:secret123@tcp(%s:%s)/ragboard?parseTime=true", host, port.Port())
}

// startPostgres starts a PostgreSQL container and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
}

func TestHistoryWithMySQL(t *testing.T) {
	connStr := startMySQL(t)
	t.Run("store", func(t *testing.T) { exerciseStore(t, schema.MySQLBackend, connStr) })
	t.Run("store without parseTime", func(t *testing.T) {
		exerciseStore(t, schema.MySQLBackend, strings.TrimSuffix(connStr, "?parseTime=true"))
	})
	t.Run("cli", func(t *testing.T) { exerciseCLI(t, "mysql", connStr) })
}

func TestHistoryWithPostgres(t *testing.T) {
	connStr := startPostgres(t)
	t.Run("store", func(t *testing.T) { exerciseStore(t, schema.PostgreSQLBackend, connStr) })
	t.Run("cli", func(t *testing.T) { exerciseCLI(t, "postgresql", connStr) })
}

// exerciseStore records runs through the store API and reads them back.
func exerciseStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	require.NoError(t, history.ClearHistory(backend, "", connStr))

	store, err := history.NewHistoryStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	at := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	run := schema.IngestionRunRecord{RunID: "run-1", IngestedAt: at, Source: "q3.tsv", RowCount: 3, PeriodCount: 1}
	totals := []schema.PeriodTotalRecord{
		{RunID: "run-1", Year: "2025", PICycle: "PI2", Target: "Growth", Status: "At risk", ObjectiveCount: 1},
		{RunID: "run-1", Year: "2025", PICycle: "PI2", Target: "Growth", Status: "Done", ObjectiveCount: 1},
		{RunID: "run-1", Year: "2025", PICycle: "PI2", Target: "People", Status: "On track", ObjectiveCount: 1},
	}
	require.NoError(t, store.RecordIngestion(run, totals))

	runs, err := store.GetAllIngestionRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.True(t, at.Equal(runs[0].IngestedAt), "got %s", runs[0].IngestedAt)

	got, err := store.GetAllPeriodTotals()
	require.NoError(t, err)
	assert.ElementsMatch(t, totals, got)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, 3, status.TotalRows)
}

// exerciseCLI drives the binary against the same database through environment variables.
func exerciseCLI(t *testing.T, backend, connStr string) {
	env := map[string]string{
		"RAGBOARD_HISTORY_BACKEND":    backend,
		"RAGBOARD_HISTORY_DB_CONNECT": connStr,
	}

	_, err := runRagboard(t, env, "history", "clear")
	require.NoError(t, err)

	_, err = runRagboard(t, env, "history", "migrate")
	require.NoError(t, err)

	data := filepath.Join(t.TempDir(), "status.tsv")
	require.NoError(t, os.WriteFile(data, []byte(statusRows), 0o644))
	stdout, err := runRagboard(t, env, "ingest", data)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Loaded 1 period(s). Switched to 2025 PI2.")

	stdout, err = runRagboard(t, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, backend)

	out := filepath.Join(t.TempDir(), "history")
	_, err = runRagboard(t, env, "history", "export", "--output-file", out)
	require.NoError(t, err)
	assert.FileExists(t, out+".ingestion_runs.parquet")
	assert.FileExists(t, out+".period_totals.parquet")
}
