// Package storage persists extracted structure to a SQLite symbol index.
// One database holds the files, symbols, parameters and imports of a project
// plus a record of the scan runs that produced them.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
	file_path TEXT PRIMARY KEY,
	language TEXT NOT NULL,
	file_hash TEXT NOT NULL,
	success INTEGER NOT NULL,
	has_syntax_errors INTEGER NOT NULL DEFAULT 0,
	error_text TEXT NOT NULL DEFAULT '',
	scan_run_id TEXT NOT NULL,
	indexed_at TEXT NOT NULL
)`

const createSymbolsTable = `
CREATE TABLE IF NOT EXISTS symbols (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_path TEXT NOT NULL REFERENCES files(file_path) ON DELETE CASCADE,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	visibility TEXT NOT NULL,
	line_start INTEGER NOT NULL,
	line_end INTEGER NOT NULL,
	col_start INTEGER NOT NULL DEFAULT 0,
	col_end INTEGER NOT NULL DEFAULT 0,
	signature TEXT NOT NULL DEFAULT '',
	return_type TEXT NOT NULL DEFAULT '',
	parent_name TEXT NOT NULL DEFAULT '',
	docstring TEXT NOT NULL DEFAULT '',
	modifiers TEXT NOT NULL DEFAULT '',
	generic_params TEXT NOT NULL DEFAULT ''
)`

const createParametersTable = `
CREATE TABLE IF NOT EXISTS symbol_parameters (
	symbol_id INTEGER NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT '',
	default_value TEXT NOT NULL DEFAULT '',
	is_variadic INTEGER NOT NULL DEFAULT 0,
	is_optional INTEGER NOT NULL DEFAULT 0,
	is_receiver INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (symbol_id, position)
)`

const createImportsTable = `
CREATE TABLE IF NOT EXISTS imports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_path TEXT NOT NULL REFERENCES files(file_path) ON DELETE CASCADE,
	module TEXT NOT NULL,
	symbols TEXT NOT NULL DEFAULT '',
	line INTEGER NOT NULL,
	alias TEXT NOT NULL DEFAULT '',
	is_relative INTEGER NOT NULL DEFAULT 0,
	is_wildcard INTEGER NOT NULL DEFAULT 0
)`

const createScanRunsTable = `
CREATE TABLE IF NOT EXISTS scan_runs (
	id TEXT PRIMARY KEY,
	root_dir TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL DEFAULT '',
	files_total INTEGER NOT NULL DEFAULT 0,
	files_failed INTEGER NOT NULL DEFAULT 0
)`

func schemaIndexes() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_path)`,
		`CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name)`,
		`CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_imports_file ON imports(file_path)`,
		`CREATE INDEX IF NOT EXISTS idx_imports_module ON imports(module)`,
		`CREATE INDEX IF NOT EXISTS idx_files_run ON files(scan_run_id)`,
	}
}

// Open opens (creating if needed) the symbol index at the given path and
// ensures the schema exists.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateSchema creates all tables and indexes for the symbol index.
// Uses a transaction for atomicity - all schema creation succeeds or fails
// together. Safe to call on an existing database.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"scan_runs", createScanRunsTable},
		{"files", createFilesTable},
		{"symbols", createSymbolsTable},
		{"symbol_parameters", createParametersTable},
		{"imports", createImportsTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range schemaIndexes() {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}
