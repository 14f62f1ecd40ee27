package history

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/ragboard/internal/parquet"
	"github.com/huangsam/ragboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) (*HistoryStoreImpl, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	impl, ok := store.(*HistoryStoreImpl)
	require.True(t, ok)
	return impl, dbPath
}

func sampleRun(id string, at time.Time) (schema.IngestionRunRecord, []schema.PeriodTotalRecord) {
	run := schema.IngestionRunRecord{RunID: id, IngestedAt: at, Source: "q3.tsv", RowCount: 4, PeriodCount: 1}
	totals := []schema.PeriodTotalRecord{
		{RunID: id, Year: "2025", PICycle: "PI3", Target: "Growth", Status: "At risk", ObjectiveCount: 2},
		{RunID: id, Year: "2025", PICycle: "PI3", Target: "Growth", Status: "On track", ObjectiveCount: 1},
		{RunID: id, Year: "2025", PICycle: "PI3", Target: "People", Status: "Amber", ObjectiveCount: 1},
	}
	return run, totals
}

func TestNoneBackendStore(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	run, totals := sampleRun("a", time.Now())
	require.NoError(t, store.RecordIngestion(run, totals))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	runs, err := store.GetAllIngestionRuns()
	require.NoError(t, err)
	assert.Nil(t, runs)
	require.NoError(t, store.Close())
}

func TestUnsupportedBackend(t *testing.T) {
	_, err := NewHistoryStore("oracle", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestSQLiteRecordAndRead(t *testing.T) {
	store, _ := newSQLiteStore(t)
	first := time.Date(2025, 7, 1, 9, 0, 0, 123456789, time.UTC)
	second := first.Add(2 * time.Hour)

	run, totals := sampleRun("run-b", second)
	require.NoError(t, store.RecordIngestion(run, totals))
	run, totals = sampleRun("run-a", first)
	run.RowCount = 6
	require.NoError(t, store.RecordIngestion(run, totals[:1]))

	runs, err := store.GetAllIngestionRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// oldest first, regardless of insertion order
	assert.Equal(t, "run-a", runs[0].RunID)
	assert.True(t, runs[0].IngestedAt.Equal(first))
	assert.Equal(t, int32(6), runs[0].RowCount)
	assert.Equal(t, "q3.tsv", runs[1].Source)

	all, err := store.GetAllPeriodTotals()
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "run-a", all[0].RunID)
	assert.Equal(t, "Amber", all[3].Status)
	assert.Equal(t, "People", all[3].Target)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, 10, status.TotalRows)
	assert.Equal(t, "run-b", status.LastRunID)
	assert.True(t, status.LastRunTime.Equal(second))
	assert.True(t, status.OldestRunTime.Equal(first))
	assert.Equal(t, map[string]int64{ingestionRunsTable: 2, periodTotalsTable: 4}, status.TableSizes)
}

func TestSQLiteRecordIsAtomic(t *testing.T) {
	store, _ := newSQLiteStore(t)
	run, totals := sampleRun("dup", time.Now())
	// the duplicate primary key fails the second insert, so nothing is kept
	totals = append(totals, totals[0])
	require.Error(t, store.RecordIngestion(run, totals))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[periodTotalsTable])
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	store, dbPath := newSQLiteStore(t)
	run, totals := sampleRun("keep", time.Now())
	require.NoError(t, store.RecordIngestion(run, totals))
	require.NoError(t, store.Close())

	reopened, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	status, err := reopened.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
}

func TestClearHistorySQLite(t *testing.T) {
	_, dbPath := newSQLiteStore(t)
	require.FileExists(t, dbPath)

	require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	_, err := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// clearing twice is fine
	require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	require.Error(t, ClearHistory(schema.SQLiteBackend, "", ""))
	require.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	require.Error(t, ClearHistory("oracle", "", ""))
}

func TestMigrateSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	var out bytes.Buffer

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1, &out))
	assert.Contains(t, out.String(), "Successfully migrated from version 0 to version 2")

	out.Reset()
	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1, &out))
	assert.Contains(t, out.String(), "already at the latest version")

	out.Reset()
	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 1, &out))
	assert.Contains(t, out.String(), "to version 1")

	out.Reset()
	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 0, &out))
	assert.Contains(t, out.String(), "rolled back from version 1 to version 0")

	// the store recreates its tables on open after a full rollback
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.Error(t, Migrate(schema.NoneBackend, "", -1, &out))
}

func TestPrintHistoryStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintHistoryStatus(&buf, schema.HistoryStatus{Backend: "none"})
	assert.Equal(t, "History Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintHistoryStatus(&buf, schema.HistoryStatus{
		Backend:    "sqlite",
		Connected:  true,
		TotalRuns:  1,
		LastRunID:  "abc",
		TotalRows:  7,
		TableSizes: map[string]int64{periodTotalsTable: 3, ingestionRunsTable: 1},
	})
	out := buf.String()
	assert.Contains(t, out, "Last Run ID: abc")
	assert.Contains(t, out, "Total Rows Ingested: 7")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(ingestionRunsTable)), bytes.Index(buf.Bytes(), []byte(periodTotalsTable)))
}

func TestExportHistory(t *testing.T) {
	store, _ := newSQLiteStore(t)
	run, totals := sampleRun("exp", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, store.RecordIngestion(run, totals))

	outputFile := filepath.Join(t.TempDir(), "history")
	var out bytes.Buffer
	require.NoError(t, ExportHistory(store, outputFile, &out))
	assert.Contains(t, out.String(), "Exported 1 ingestion runs")
	assert.Contains(t, out.String(), "Exported 3 period totals")

	runs, err := parquet.ReadFile[parquet.IngestionRun](outputFile + ".ingestion_runs.parquet")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "exp", runs[0].RunID)

	rows, err := parquet.ReadFile[parquet.PeriodTotal](outputFile + ".period_totals.parquet")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExportHistoryErrors(t *testing.T) {
	var out bytes.Buffer
	require.Error(t, ExportHistory(&MockHistoryStore{}, "", &out))
	require.Error(t, ExportHistory(nil, "x", &out))

	empty := &MockHistoryStore{}
	empty.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite", Connected: true}, nil)
	err := ExportHistory(empty, "x", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ingestion history")

	broken := &MockHistoryStore{}
	broken.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("boom"))
	err = ExportHistory(broken, "x", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	broken.AssertExpectations(t)
}

func TestPlaceholdersAndQuoting(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(3, schema.MySQLBackend))
	assert.Equal(t, "$1, $2", placeholders(2, schema.PostgreSQLBackend))
	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.PostgreSQLBackend))
	assert.Equal(t, "sqlite", driverFor(schema.SQLiteBackend))
	assert.Equal(t, "pgx", driverFor(schema.PostgreSQLBackend))
}

func TestDBTimeScan(t *testing.T) {
	var d dbTime
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	require.NoError(t, d.Scan(now))
	assert.True(t, d.Equal(now))
	require.NoError(t, d.Scan([]byte("2024-05-06T07:08:09.000000000Z")))
	assert.True(t, d.Equal(now))
	// MySQL DATETIME(6) text without parseTime=true
	require.NoError(t, d.Scan([]byte("2024-05-06 07:08:09.000000")))
	assert.True(t, d.Equal(now))
	require.NoError(t, d.Scan("2024-05-06 07:08:09"))
	assert.True(t, d.Equal(now))
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	require.Error(t, d.Scan(42))
	require.Error(t, d.Scan("yesterday"))
}

func TestManagerInitAndClose(t *testing.T) {
	require.NoError(t, InitStores(schema.NoneBackend, ""))
	store := Manager.GetHistoryStore()
	require.NotNil(t, store)
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	CloseStores()
}
