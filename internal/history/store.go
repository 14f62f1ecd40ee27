package history

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// sqliteTimeFormat is fixed-width so stored timestamps sort lexically.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore opens the history database for the backend and makes sure its tables exist.
// NoneBackend yields a store that records nothing.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err = sql.Open(driverFor(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open(driverFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname?parseTime=true", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open(driverFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		return &HistoryStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables runs every up migration for the backend. Each one is
// written with IF NOT EXISTS, so this is safe on an already-migrated database.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	dir := path.Join("migrations", migrationDir(backend))
	ups, err := fs.Glob(migrationsFS, dir+"/*.up.sql")
	if err != nil {
		return err
	}
	slices.Sort(ups)
	for _, name := range ups {
		query, err := migrationsFS.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := db.Exec(string(query)); err != nil {
			return fmt.Errorf("failed to apply %s: %w", path.Base(name), err)
		}
	}
	return nil
}

// RecordIngestion stores one run and its totals in a single transaction.
func (hs *HistoryStoreImpl) RecordIngestion(run schema.IngestionRunRecord, totals []schema.PeriodTotalRecord) (err error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	runQuery := fmt.Sprintf(`INSERT INTO %s (run_id, ingested_at, source, row_count, period_count) VALUES (%s)`,
		quoteTableName(ingestionRunsTable, hs.backend), placeholders(5, hs.backend))
	if _, err = tx.Exec(runQuery, run.RunID, formatTime(run.IngestedAt, hs.backend), run.Source, run.RowCount, run.PeriodCount); err != nil {
		return fmt.Errorf("failed to insert ingestion run: %w", err)
	}

	totalQuery := fmt.Sprintf(`INSERT INTO %s (run_id, year, pi, target, status, objective_count) VALUES (%s)`,
		quoteTableName(periodTotalsTable, hs.backend), placeholders(6, hs.backend))
	stmt, err := tx.Prepare(totalQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare period total insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range totals {
		if _, err = stmt.Exec(t.RunID, t.Year, t.PICycle, t.Target, t.Status, t.ObjectiveCount); err != nil {
			return fmt.Errorf("failed to insert period total: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ingestion run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(ingestionRunsTable, hs.backend)
	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COALESCE(SUM(row_count), 0) FROM %s", runsTable))
	if err := row.Scan(&status.TotalRuns, &status.TotalRows); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var last dbTime
		lastQuery := fmt.Sprintf("SELECT run_id, ingested_at FROM %s ORDER BY ingested_at DESC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = last.Time

		var oldest dbTime
		oldestQuery := fmt.Sprintf("SELECT ingested_at FROM %s ORDER BY ingested_at ASC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(oldestQuery).Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest.Time
	}

	for _, table := range historyTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllIngestionRuns retrieves every run, oldest first.
func (hs *HistoryStoreImpl) GetAllIngestionRuns() ([]schema.IngestionRunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, ingested_at, source, row_count, period_count FROM %s ORDER BY ingested_at, run_id",
		quoteTableName(ingestionRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.IngestionRunRecord
	for rows.Next() {
		var record schema.IngestionRunRecord
		var at dbTime
		if err := rows.Scan(&record.RunID, &at, &record.Source, &record.RowCount, &record.PeriodCount); err != nil {
			return nil, fmt.Errorf("failed to scan ingestion run: %w", err)
		}
		record.IngestedAt = at.Time
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingestion runs: %w", err)
	}
	return results, nil
}

// GetAllPeriodTotals retrieves every recorded period total.
func (hs *HistoryStoreImpl) GetAllPeriodTotals() ([]schema.PeriodTotalRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, year, pi, target, status, objective_count
    FROM %s ORDER BY run_id, year, pi, target, status`, quoteTableName(periodTotalsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query period totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PeriodTotalRecord
	for rows.Next() {
		var record schema.PeriodTotalRecord
		if err := rows.Scan(&record.RunID, &record.Year, &record.PICycle, &record.Target, &record.Status, &record.ObjectiveCount); err != nil {
			return nil, fmt.Errorf("failed to scan period total: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period totals: %w", err)
	}
	return results, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(sqliteTimeFormat)
	}
	return t
}

// dbTime scans both native timestamps and the SQLite text encoding.
type dbTime struct {
	time.Time
}

// Scan implements sql.Scanner.
func (d *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case nil:
		d.Time = time.Time{}
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
	return nil
}

// textTimeLayouts are tried in order: the SQLite encoding, then MySQL DATETIME text
// as returned by a DSN without parseTime=true. DATETIME values are written in UTC.
var textTimeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999"}

func (d *dbTime) parse(s string) error {
	var err error
	for _, layout := range textTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("failed to parse timestamp %q: %w", s, err)
}
