package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history database schema.
// Per-target outcomes are stored as a JSON blob: they are read back whole,
// never filtered on individually.
const Schema = `
CREATE TABLE IF NOT EXISTS history (
    id TEXT PRIMARY KEY,
    invocation_id TEXT NOT NULL,
    time TIMESTAMP NOT NULL,

    source_name TEXT NOT NULL,
    source_hash TEXT NOT NULL,
    source_bytes INTEGER NOT NULL,

    targets TEXT NOT NULL,
    per_target TEXT NOT NULL,

    overall_success BOOLEAN NOT NULL,
    duration_ns INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_time ON history(time);
CREATE INDEX IF NOT EXISTS idx_history_source_name ON history(source_name);
CREATE INDEX IF NOT EXISTS idx_history_overall_success ON history(overall_success);
`

// InsertSchemaVersion inserts the schema version into the schema_version
// table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
