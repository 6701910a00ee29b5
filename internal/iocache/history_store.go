package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/schema"
)

// Table names for census run tracking.
const (
	censusRunsTable       = "census_runs"
	censusRepoTotalsTable = "census_repo_totals"
)

// sqlHistoryStore records census runs and per-repository totals.
// Run IDs are generated by the application so that the table layout stays
// identical across all three backends. Timestamps are stored as unix seconds.
// A nil db means tracking is disabled and every operation is a no-op.
type sqlHistoryStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &sqlHistoryStore{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return &sqlHistoryStore{backend: backend}, nil
	}

	db, err := openBackendDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot reach %s database, check that the server is running and the credentials are valid: %w", backend, err)
	}

	store := &sqlHistoryStore{db: db, backend: backend}
	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return store, nil
}

// param returns the i-th (1-based) query parameter in the backend's syntax.
func (hs *sqlHistoryStore) param(i int) string {
	if hs.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

func (hs *sqlHistoryStore) runsTable() string {
	return quoteTableName(censusRunsTable, hs.backend)
}

func (hs *sqlHistoryStore) totalsTable() string {
	return quoteTableName(censusRepoTotalsTable, hs.backend)
}

// createTables creates the census tracking tables. The DDL below must stay in
// sync with the embedded migration files.
func (hs *sqlHistoryStore) createTables() error {
	// repo_name is VARCHAR so MySQL can key on it.
	ddls := map[string]string{
		censusRunsTable: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			run_id BIGINT PRIMARY KEY,
			started_at BIGINT NOT NULL,
			ended_at BIGINT,
			total_repos INT,
			total_lines BIGINT,
			total_chars BIGINT,
			config_params TEXT
		)`, hs.runsTable()),
		censusRepoTotalsTable: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			run_id BIGINT NOT NULL,
			repo_name VARCHAR(255) NOT NULL,
			total_lines BIGINT NOT NULL,
			total_chars BIGINT NOT NULL,
			PRIMARY KEY (run_id, repo_name)
		)`, hs.totalsTable()),
	}

	for name, ddl := range ddls {
		if _, err := hs.db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
	}
	return nil
}

// BeginRun creates a new census run and returns its unique ID.
func (hs *sqlHistoryStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	runID := startTime.UnixNano()
	query := fmt.Sprintf(`INSERT INTO %s (run_id, started_at, config_params) VALUES (%s, %s, %s)`,
		hs.runsTable(), hs.param(1), hs.param(2), hs.param(3))
	if _, err := hs.db.Exec(query, runID, startTime.Unix(), string(configJSON)); err != nil {
		return 0, fmt.Errorf("failed to insert census run: %w", err)
	}
	return runID, nil
}

// EndRun updates the census run with completion data.
func (hs *sqlHistoryStore) EndRun(runID int64, endTime time.Time, totalRepos, totalLines, totalChars int) error {
	if hs.db == nil {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET ended_at = %s, total_repos = %s, total_lines = %s, total_chars = %s WHERE run_id = %s`,
		hs.runsTable(), hs.param(1), hs.param(2), hs.param(3), hs.param(4), hs.param(5))
	if _, err := hs.db.Exec(query, endTime.Unix(), totalRepos, totalLines, totalChars, runID); err != nil {
		return fmt.Errorf("failed to update census run: %w", err)
	}
	return nil
}

// RecordRepoTotals stores one repository's totals for a run.
func (hs *sqlHistoryStore) RecordRepoTotals(runID int64, repoName string, lines, chars int) error {
	if hs.db == nil {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, repo_name, total_lines, total_chars) VALUES (%s, %s, %s, %s)`,
		hs.totalsTable(), hs.param(1), hs.param(2), hs.param(3), hs.param(4))
	if _, err := hs.db.Exec(query, runID, repoName, lines, chars); err != nil {
		return fmt.Errorf("failed to insert repo totals: %w", err)
	}
	return nil
}

// GetAllRuns retrieves all census runs from the store, oldest first.
func (hs *sqlHistoryStore) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, started_at, ended_at, total_repos, total_lines, total_chars, config_params FROM %s ORDER BY run_id", hs.runsTable())
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query census runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var startedAt int64
		var endedAt *int64
		var totalRepos, totalLines, totalChars sql.NullInt64
		if err := rows.Scan(&record.RunID, &startedAt, &endedAt, &totalRepos, &totalLines, &totalChars, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan census run: %w", err)
		}
		record.StartTime = time.Unix(startedAt, 0)
		if endedAt != nil {
			endTime := time.Unix(*endedAt, 0)
			record.EndTime = &endTime
		}
		record.TotalRepos = int32(totalRepos.Int64)
		record.TotalLines = totalLines.Int64
		record.TotalChars = totalChars.Int64
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating census runs: %w", err)
	}
	return results, nil
}

// GetAllRepoTotals retrieves all per-repository totals, ordered by run and name.
func (hs *sqlHistoryStore) GetAllRepoTotals() ([]schema.RepoTotalRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, repo_name, total_lines, total_chars FROM %s ORDER BY run_id, repo_name", hs.totalsTable())
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query repo totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RepoTotalRecord
	for rows.Next() {
		var record schema.RepoTotalRecord
		if err := rows.Scan(&record.RunID, &record.RepoName, &record.TotalLines, &record.TotalChars); err != nil {
			return nil, fmt.Errorf("failed to scan repo totals: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating repo totals: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (hs *sqlHistoryStore) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns run counts, run age bounds, and table row counts.
func (hs *sqlHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.db == nil {
		return status, nil
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", hs.runsTable())
	if err := hs.db.QueryRow(countQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastQuery := fmt.Sprintf("SELECT run_id, started_at FROM %s ORDER BY run_id DESC LIMIT 1", hs.runsTable())
		var lastStartedAt int64
		if err := hs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &lastStartedAt); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = time.Unix(lastStartedAt, 0)

		oldestQuery := fmt.Sprintf("SELECT started_at FROM %s ORDER BY run_id ASC LIMIT 1", hs.runsTable())
		var oldestStartedAt int64
		if err := hs.db.QueryRow(oldestQuery).Scan(&oldestStartedAt); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = time.Unix(oldestStartedAt, 0)
	}

	for _, table := range []string{censusRunsTable, censusRepoTotalsTable} {
		sizeQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		var count int64
		if err := hs.db.QueryRow(sizeQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}
