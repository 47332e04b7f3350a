// Package sqlite provides the registry's persistence layer: an append-only
// event journal and point-in-time state snapshots, both stored in a single
// SQLite database file.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS journal (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL,
	payload TEXT NOT NULL,
	recorded_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_event_type ON journal(event_type);

CREATE TABLE IF NOT EXISTS snapshot_collectibles (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	price INTEGER,
	attribute TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshot_owner ON snapshot_collectibles(owner);

CREATE TABLE IF NOT EXISTS snapshot_meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// DB wraps the SQLite connection and owns its lifecycle. Repositories share
// the one connection; callers close the DB, never the repositories.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if necessary) the database at path, applies the
// schema, and configures the connection. The parent directory is created
// with 0700 permissions if it does not exist.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The journal is written from event subscribers while snapshots are read
	// at startup; WAL keeps readers from blocking the writer.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// NewMemoryDB opens an in-memory database with the schema applied. Used by
// tests and the ephemeral serve mode.
func NewMemoryDB() (*DB, error) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &DB{conn: conn, path: ":memory:"}, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Journal returns the journal repository backed by this database.
func (d *DB) Journal() *JournalRepository {
	return newJournalRepository(d.conn)
}

// Snapshot returns the snapshot repository backed by this database.
func (d *DB) Snapshot() *SnapshotRepository {
	return newSnapshotRepository(d.conn)
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}
