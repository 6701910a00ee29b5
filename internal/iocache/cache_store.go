package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// sqlCacheStore persists scan results in a single key/value table.
// A nil db means caching is disabled and every operation is a no-op.
type sqlCacheStore struct {
	db      *sql.DB
	table   string
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.CacheStore = &sqlCacheStore{} // Compile-time check

// NewCacheStore initializes and returns a new CacheStore based on the backend type.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}
	if backend == schema.NoneBackend {
		return &sqlCacheStore{table: tableName, backend: backend}, nil
	}

	db, err := openBackendDB(backend, connStr, GetDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot reach %s database, check that the server is running and connection parameters are valid: %w", backend, err)
	}

	store := &sqlCacheStore{db: db, table: tableName, backend: backend, connStr: connStr}
	if _, err := db.Exec(store.createTableQuery()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot create cache table %s: %w", tableName, err)
	}
	return store, nil
}

func (s *sqlCacheStore) quotedTable() string {
	return quoteTableName(s.table, s.backend)
}

// createTableQuery builds the DDL for the cache table. Only the column types
// differ between dialects; the shape is identical everywhere.
func (s *sqlCacheStore) createTableQuery() string {
	keyType, valueType, tsType := "TEXT", "BLOB", "INTEGER"
	switch s.backend {
	case schema.MySQLBackend:
		keyType, tsType = "VARCHAR(255)", "BIGINT"
	case schema.PostgreSQLBackend:
		valueType, tsType = "BYTEA", "BIGINT"
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		cache_key %s PRIMARY KEY,
		cache_value %s NOT NULL,
		cache_version INTEGER NOT NULL,
		cache_timestamp %s NOT NULL
	)`, s.quotedTable(), keyType, valueType, tsType)
}

// Get retrieves a value with its version and unix timestamp by key.
func (s *sqlCacheStore) Get(key string) ([]byte, int, int64, error) {
	if s.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	query := fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s`,
		s.quotedTable(), placeholderFor(s.backend))

	var value []byte
	var version int
	var ts int64
	if err := s.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (s *sqlCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	if s.db == nil {
		return nil
	}

	var query string
	switch s.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`,
			s.quotedTable())
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`,
			s.quotedTable())
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)`,
			s.quotedTable())
	}

	_, err := s.db.Exec(query, key, value, version, timestamp)
	return err
}

// Close closes the underlying DB connection.
func (s *sqlCacheStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus reports entry counts, entry age bounds, and approximate table size.
func (s *sqlCacheStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.db == nil {
		return status, nil
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.quotedTable())
	if err := s.db.QueryRow(countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to count cache entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var oldestTs, lastTs int64
	boundsQuery := fmt.Sprintf("SELECT MIN(cache_timestamp), MAX(cache_timestamp) FROM %s", s.quotedTable())
	if err := s.db.QueryRow(boundsQuery).Scan(&oldestTs, &lastTs); err != nil {
		return status, fmt.Errorf("failed to read cache entry age bounds: %w", err)
	}
	status.OldestEntryTime = time.Unix(oldestTs, 0)
	status.LastEntryTime = time.Unix(lastTs, 0)

	status.TableSizeBytes = s.approximateSize(status.TotalEntries)
	return status, nil
}

// approximateSize asks each backend for its best table size estimate and falls
// back to a count-based guess when the backend cannot answer.
func (s *sqlCacheStore) approximateSize(entries int) int64 {
	fallback := int64(entries) * 1000

	switch s.backend {
	case schema.SQLiteBackend:
		var size int64
		query := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := s.db.QueryRow(query).Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		dsn, err := mysql.ParseDSN(s.connStr)
		if err != nil || dsn.DBName == "" {
			return fallback
		}
		var size int64
		query := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := s.db.QueryRow(query, dsn.DBName, s.table).Scan(&size); err != nil {
			return fallback
		}
		return size

	case schema.PostgreSQLBackend:
		var size int64
		if err := s.db.QueryRow("SELECT pg_total_relation_size($1)", s.table).Scan(&size); err != nil {
			return fallback
		}
		return size

	default:
		return fallback
	}
}
