// Package db opens and migrates the SQLite audit index.
package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// filePragmas apply to every pooled connection. The index is shared by
// short CLI runs and a long-running server, so writers wait on locks
// instead of failing with SQLITE_BUSY.
var filePragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
}

// OpenDB opens the index at path, creating parent directories, and applies
// migrations. MemoryPath yields a single-connection database so every
// statement sees the same data.
func OpenDB(path string) (*sql.DB, error) {
	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
		dsn = path + "?" + url.Values{"_pragma": filePragmas}.Encode()
	}

	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening index %s: %w", path, err)
	}
	if path == MemoryPath {
		database.SetMaxOpenConns(1)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("connecting to index %s: %w", path, err)
	}
	if err := Migrate(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating index %s: %w", path, err)
	}
	return database, nil
}
