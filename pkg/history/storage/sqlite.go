package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ion-lang/ionc/pkg/history"
)

// SQLiteConfig configures the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns bounds the connection pool.
	MaxOpenConns int

	// MaxIdleConns bounds idle pooled connections.
	MaxIdleConns int

	// WALMode enables write-ahead logging.
	WALMode bool

	// BusyTimeout is how long a locked database blocks a writer.
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/history.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements history.Storage on a SQLite database using the
// pure-Go driver.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the database at the
// configured path and initializes the schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "history.storage.sqlite")

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("history storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return history.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return history.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return history.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return history.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return history.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return history.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *history.Record) error {
	targets, err := json.Marshal(record.Targets)
	if err != nil {
		return history.NewStorageError("sqlite", "store", err)
	}
	perTarget, err := json.Marshal(record.PerTarget)
	if err != nil {
		return history.NewStorageError("sqlite", "store", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO history (
    id, invocation_id, time,
    source_name, source_hash, source_bytes,
    targets, per_target,
    overall_success, duration_ns
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.InvocationID, record.Time,
		record.SourceName, record.SourceHash, record.SourceBytes,
		string(targets), string(perTarget),
		record.OverallSuccess, record.Duration.Nanoseconds(),
	)
	if err != nil {
		return history.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// buildWhere translates query filters into a WHERE clause with args. The
// target filter matches against the JSON targets array.
func buildWhere(query *history.Query) (string, []any) {
	if query == nil {
		return "", nil
	}
	var conds []string
	var args []any

	if query.StartTime != nil {
		conds = append(conds, "time >= ?")
		args = append(args, *query.StartTime)
	}
	if query.EndTime != nil {
		conds = append(conds, "time <= ?")
		args = append(args, *query.EndTime)
	}
	if query.SourceName != "" {
		conds = append(conds, "source_name = ?")
		args = append(args, query.SourceName)
	}
	if query.Target != "" {
		conds = append(conds, "targets LIKE ?")
		args = append(args, `%"`+query.Target+`"%`)
	}
	if query.Success != nil {
		conds = append(conds, "overall_success = ?")
		args = append(args, *query.Success)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Query retrieves matching records, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	where, args := buildWhere(query)

	q := "SELECT id, invocation_id, time, source_name, source_hash, source_bytes, targets, per_target, overall_success, duration_ns FROM history" +
		where + " ORDER BY time DESC"
	if query != nil && query.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", query.Limit)
		if query.Offset > 0 {
			q += fmt.Sprintf(" OFFSET %d", query.Offset)
		}
	} else if query != nil && query.Offset > 0 {
		q += fmt.Sprintf(" LIMIT -1 OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	var records []*history.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, history.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}
	if records == nil {
		records = []*history.Record{}
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (*history.Record, error) {
	var rec history.Record
	var targets, perTarget string
	var durationNs int64

	if err := rows.Scan(
		&rec.ID, &rec.InvocationID, &rec.Time,
		&rec.SourceName, &rec.SourceHash, &rec.SourceBytes,
		&targets, &perTarget,
		&rec.OverallSuccess, &durationNs,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(targets), &rec.Targets); err != nil {
		return nil, fmt.Errorf("malformed targets column: %w", err)
	}
	if err := json.Unmarshal([]byte(perTarget), &rec.PerTarget); err != nil {
		return nil, fmt.Errorf("malformed per_target column: %w", err)
	}
	rec.Duration = time.Duration(durationNs)
	return &rec, nil
}

// Count returns the number of matching records.
func (s *SQLiteStorage) Count(ctx context.Context, query *history.Query) (int64, error) {
	where, args := buildWhere(query)

	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history"+where, args...).Scan(&n)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "count", err)
	}
	return n, nil
}

// Delete removes matching records and returns how many were removed.
func (s *SQLiteStorage) Delete(ctx context.Context, query *history.Query) (int64, error) {
	where, args := buildWhere(query)

	res, err := s.db.ExecContext(ctx, "DELETE FROM history"+where, args...)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
