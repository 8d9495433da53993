package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for run history.
const (
	runsTable     = "opsreport_runs"
	runItemsTable = "opsreport_run_items"

	// migrationsTable holds the golang-migrate version.
	migrationsTable = "opsreport_schema_migrations"
)

// StoreImpl implements the HistoryStore interface.
type StoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.HistoryStore = &StoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &StoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file location is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &StoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// openDB opens a connection pool for the backend without verifying it.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err := sql.Open(driverName(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend:
		dsn, err := mysql.ParseDSN(connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse MySQL connection string: %w", err)
		}
		// Run timestamps are scanned into time.Time
		dsn.ParseTime = true
		db, err := sql.Open(driverName(backend), dsn.FormatDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		return db, nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open(driverName(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported history backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

func driverName(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "mysql"
	case schema.PostgreSQLBackend:
		return "pgx"
	default:
		return "sqlite"
	}
}

// createTables applies the embedded up migrations, which are idempotent.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	dir, err := migrationDir(backend)
	if err != nil {
		return err
	}
	matches, err := fs.Glob(migrationsFS, dir+"/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(matches)
	for _, name := range matches {
		query, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if _, err := db.Exec(string(query)); err != nil {
			return fmt.Errorf("failed to apply %s: %w", name, err)
		}
	}
	return nil
}

// ph returns the n-th (1-based) bind placeholder for the backend.
func (s *StoreImpl) ph(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// phList returns n comma-separated placeholders.
func (s *StoreImpl) phList(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = s.ph(i + 1)
	}
	return strings.Join(parts, ", ")
}

func (s *StoreImpl) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// BeginRun creates a new run and returns its unique ID.
func (s *StoreImpl) BeginRun(pipeline schema.Pipeline, runUUID string, startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if s.disabled() {
		return 0, nil
	}

	// Serialize config params to JSON
	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	table := quoteTableName(runsTable, s.backend)
	query := fmt.Sprintf(`INSERT INTO %s (run_uuid, pipeline, start_time, config_params) VALUES (%s)`, table, s.phList(4))
	args := []any{runUUID, string(pipeline), formatTime(startTime, s.backend), string(configJSON)}

	var runID int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		err = s.db.QueryRow(query+" RETURNING run_id", args...).Scan(&runID)
	default: // SQLite and MySQL
		var result sql.Result
		result, err = s.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// RecordItems stores the evaluated items of a run in a single transaction.
func (s *StoreImpl) RecordItems(runID int64, items []schema.RunItem) error {
	if s.disabled() || len(items) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	table := quoteTableName(runItemsTable, s.backend)
	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s (run_id, item_seq, item_name, status, detail) VALUES (%s)`, table, s.phList(5)))
	if err != nil {
		return fmt.Errorf("failed to prepare run item insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, item := range items {
		var detail *string
		if item.Detail != "" {
			detail = &item.Detail
		}
		if _, err := stmt.Exec(runID, i, item.Name, item.Status, detail); err != nil {
			return fmt.Errorf("failed to insert run item %q: %w", item.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run items: %w", err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (s *StoreImpl) EndRun(runID int64, endTime time.Time, metrics schema.RunMetrics) error {
	// Skip for NoneBackend
	if s.disabled() {
		return nil
	}

	// First, get the start_time to calculate duration
	table := quoteTableName(runsTable, s.backend)
	row := s.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, table, s.ph(1)), runID)
	startTime, err := scanTime(row, s.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	// A NULL score keeps aborted runs out of LastScore
	var score any = metrics.Score
	if metrics.Aborted {
		score = nil
	}

	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, score = %s, passed = %s, total_items = %s, failed_items = %s WHERE run_id = %s`,
		table, s.ph(1), s.ph(2), s.ph(3), s.ph(4), s.ph(5), s.ph(6), s.ph(7))
	_, err = s.db.Exec(query,
		formatTime(endTime, s.backend), durationMs, score, metrics.Passed,
		metrics.TotalItems, metrics.FailedItems, runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// LastScore returns the score of the latest completed run of a pipeline before beforeRunID.
// A beforeRunID of 0 considers every run.
func (s *StoreImpl) LastScore(pipeline schema.Pipeline, beforeRunID int64) (float64, bool, error) {
	if s.disabled() {
		return 0, false, nil
	}

	table := quoteTableName(runsTable, s.backend)
	query := fmt.Sprintf(`SELECT score FROM %s WHERE pipeline = %s AND end_time IS NOT NULL AND score IS NOT NULL`, table, s.ph(1))
	args := []any{string(pipeline)}
	if beforeRunID > 0 {
		query += fmt.Sprintf(" AND run_id < %s", s.ph(2))
		args = append(args, beforeRunID)
	}
	query += " ORDER BY run_id DESC LIMIT 1"

	var score float64
	if err := s.db.QueryRow(query, args...).Scan(&score); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get last score: %w", err)
	}
	return score, true, nil
}

// Close closes the underlying connection.
func (s *StoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (s *StoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:     string(s.backend),
		Connected:   s.db != nil,
		RunsPerPipe: make(map[schema.Pipeline]int),
		TableSizes:  make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	runs := quoteTableName(runsTable, s.backend)
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Get last run info
		row := s.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}
		row = s.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		lastRunTime, err := scanTime(row, s.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		// Get oldest run time
		row = s.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs))
		oldestRunTime, err := scanTime(row, s.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		// Runs per pipeline
		rows, err := s.db.Query(fmt.Sprintf("SELECT pipeline, COUNT(*) FROM %s GROUP BY pipeline", runs))
		if err != nil {
			return status, fmt.Errorf("failed to count runs per pipeline: %w", err)
		}
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			var pipeline string
			var count int
			if err := rows.Scan(&pipeline, &count); err != nil {
				return status, fmt.Errorf("failed to scan pipeline count: %w", err)
			}
			status.RunsPerPipe[schema.Pipeline(pipeline)] = count
		}
		if err := rows.Err(); err != nil {
			return status, fmt.Errorf("error iterating pipeline counts: %w", err)
		}
	}

	// Get table sizes
	for _, table := range []string{runsTable, runItemsTable} {
		var count int64
		row := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (s *StoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, pipeline, start_time, end_time, run_duration_ms,
    score, passed, total_items, failed_items, config_params FROM %s ORDER BY run_id`, quoteTableName(runsTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		switch s.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.RunUUID, &record.Pipeline, &startTimeStr, &endTimeStr,
				&record.RunDurationMs, &record.Score, &record.Passed, &record.TotalItems, &record.FailedItems,
				&record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.RunUUID, &record.Pipeline, &record.StartTime, &record.EndTime,
				&record.RunDurationMs, &record.Score, &record.Passed, &record.TotalItems, &record.FailedItems,
				&record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllRunItems retrieves all run items from the store.
func (s *StoreImpl) GetAllRunItems() ([]schema.RunItemRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, item_seq, item_name, status, detail FROM %s ORDER BY run_id, item_seq`,
		quoteTableName(runItemsTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query run items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunItemRecord
	for rows.Next() {
		var record schema.RunItemRecord
		if err := rows.Scan(&record.RunID, &record.ItemSeq, &record.ItemName, &record.Status, &record.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan run item: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run items: %w", err)
	}
	return results, nil
}

// scanTime reads a single time column, handling the SQLite text representation.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	if backend == schema.SQLiteBackend {
		var raw string
		if err := row.Scan(&raw); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, raw)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}
