package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/structmap/structmap/internal/model"
)

// Writer handles writing parse results to the symbol index.
type Writer struct {
	db *sql.DB
}

// NewWriter creates a Writer instance.
// DB must have schema already created via CreateSchema().
func NewWriter(db *sql.DB) *Writer {
	return &Writer{db: db}
}

// BeginRun records the start of a scan run and returns its id.
func (w *Writer) BeginRun(rootDir string) (string, error) {
	id := uuid.NewString()
	_, err := sq.Insert("scan_runs").
		Columns("id", "root_dir", "started_at").
		Values(id, rootDir, time.Now().UTC().Format(time.RFC3339)).
		RunWith(w.db).
		Exec()
	if err != nil {
		return "", fmt.Errorf("failed to record scan run: %w", err)
	}
	return id, nil
}

// FinishRun stamps a scan run with its end time and counters.
func (w *Writer) FinishRun(runID string, filesTotal, filesFailed int) error {
	_, err := sq.Update("scan_runs").
		Set("finished_at", time.Now().UTC().Format(time.RFC3339)).
		Set("files_total", filesTotal).
		Set("files_failed", filesFailed).
		Where(sq.Eq{"id": runID}).
		RunWith(w.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to finish scan run %s: %w", runID, err)
	}
	return nil
}

// WriteResult stores one parse result, replacing any previous data for the
// same file. The file row, its symbols, parameters and imports are written in
// a single transaction.
func (w *Writer) WriteResult(runID, fileHash string, result *model.ParseResult) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	// Replacing the file row cascades into symbols and imports.
	if _, err := tx.Exec(`DELETE FROM files WHERE file_path = ?`, result.FilePath); err != nil {
		return fmt.Errorf("failed to clear previous data for %s: %w", result.FilePath, err)
	}

	_, err = sq.Insert("files").
		Columns("file_path", "language", "file_hash", "success", "has_syntax_errors", "error_text", "scan_run_id", "indexed_at").
		Values(
			result.FilePath,
			result.Language,
			fileHash,
			result.Success,
			result.HasSyntaxErrors,
			strings.Join(result.Errors, "\n"),
			runID,
			time.Now().UTC().Format(time.RFC3339),
		).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to write file row for %s: %w", result.FilePath, err)
	}

	for i := range result.Symbols {
		if err := writeSymbol(tx, result.FilePath, &result.Symbols[i]); err != nil {
			return err
		}
	}
	for _, imp := range result.Imports {
		_, err := sq.Insert("imports").
			Columns("file_path", "module", "symbols", "line", "alias", "is_relative", "is_wildcard").
			Values(result.FilePath, imp.Module, strings.Join(imp.Symbols, ","), imp.Line, imp.Alias, imp.IsRelative, imp.IsWildcard).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to write import %s for %s: %w", imp.Module, result.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result for %s: %w", result.FilePath, err)
	}
	return nil
}

func writeSymbol(tx *sql.Tx, filePath string, sym *model.SymbolInfo) error {
	res, err := sq.Insert("symbols").
		Columns("file_path", "name", "kind", "visibility", "line_start", "line_end", "col_start", "col_end", "signature", "return_type", "parent_name", "docstring", "modifiers", "generic_params").
		Values(
			filePath,
			sym.Name,
			string(sym.Kind),
			string(sym.Visibility),
			sym.LineStart,
			sym.LineEnd,
			sym.ColStart,
			sym.ColEnd,
			sym.Signature,
			sym.ReturnType,
			sym.ParentName,
			sym.Docstring,
			strings.Join(sym.Modifiers, " "),
			strings.Join(sym.GenericParams, ","),
		).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to write symbol %s in %s: %w", sym.Name, filePath, err)
	}

	symbolID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read symbol id: %w", err)
	}
	for pos, p := range sym.Parameters {
		_, err := sq.Insert("symbol_parameters").
			Columns("symbol_id", "position", "name", "type", "default_value", "is_variadic", "is_optional", "is_receiver").
			Values(symbolID, pos, p.Name, p.Type, p.DefaultValue, p.IsVariadic, p.IsOptional, p.IsReceiver).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to write parameter %s of %s: %w", p.Name, sym.Name, err)
		}
	}
	return nil
}

// DeleteFile removes a file and its dependent rows from the index, for
// watch-mode removals.
func (w *Writer) DeleteFile(filePath string) error {
	if _, err := w.db.Exec(`DELETE FROM files WHERE file_path = ?`, filePath); err != nil {
		return fmt.Errorf("failed to delete %s from index: %w", filePath, err)
	}
	return nil
}
