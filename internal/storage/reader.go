package storage

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/structmap/structmap/internal/model"
)

// Reader queries the symbol index.
type Reader struct {
	db *sql.DB
}

func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// FileRecord is the stored per-file parse outcome.
type FileRecord struct {
	FilePath        string
	Language        string
	FileHash        string
	Success         bool
	HasSyntaxErrors bool
	IndexedAt       string
}

// File returns the stored record for one path, or sql.ErrNoRows.
func (r *Reader) File(filePath string) (*FileRecord, error) {
	row := sq.Select("file_path", "language", "file_hash", "success", "has_syntax_errors", "indexed_at").
		From("files").
		Where(sq.Eq{"file_path": filePath}).
		RunWith(r.db).
		QueryRow()

	rec := &FileRecord{}
	err := row.Scan(&rec.FilePath, &rec.Language, &rec.FileHash, &rec.Success, &rec.HasSyntaxErrors, &rec.IndexedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// SymbolsForFile returns the stored symbols of one file in line order,
// parameters included.
func (r *Reader) SymbolsForFile(filePath string) ([]model.SymbolInfo, error) {
	rows, err := sq.Select("id", "name", "kind", "visibility", "line_start", "line_end", "col_start", "col_end", "signature", "return_type", "parent_name", "docstring", "modifiers", "generic_params").
		From("symbols").
		Where(sq.Eq{"file_path": filePath}).
		OrderBy("line_start", "id").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols for %s: %w", filePath, err)
	}
	defer rows.Close()

	var symbols []model.SymbolInfo
	var ids []int64
	for rows.Next() {
		var id int64
		var sym model.SymbolInfo
		var kind, visibility, modifiers, genericParams string
		if err := rows.Scan(&id, &sym.Name, &kind, &visibility, &sym.LineStart, &sym.LineEnd,
			&sym.ColStart, &sym.ColEnd, &sym.Signature, &sym.ReturnType, &sym.ParentName,
			&sym.Docstring, &modifiers, &genericParams); err != nil {
			return nil, fmt.Errorf("failed to scan symbol row: %w", err)
		}
		sym.Kind = model.SymbolKind(kind)
		sym.Visibility = model.Visibility(visibility)
		if modifiers != "" {
			sym.Modifiers = strings.Fields(modifiers)
		}
		if genericParams != "" {
			sym.GenericParams = strings.Split(genericParams, ",")
		}
		symbols = append(symbols, sym)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		params, err := r.parameters(id)
		if err != nil {
			return nil, err
		}
		symbols[i].Parameters = params
	}
	return symbols, nil
}

func (r *Reader) parameters(symbolID int64) ([]model.ParameterInfo, error) {
	rows, err := sq.Select("name", "type", "default_value", "is_variadic", "is_optional", "is_receiver").
		From("symbol_parameters").
		Where(sq.Eq{"symbol_id": symbolID}).
		OrderBy("position").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query parameters: %w", err)
	}
	defer rows.Close()

	var params []model.ParameterInfo
	for rows.Next() {
		var p model.ParameterInfo
		if err := rows.Scan(&p.Name, &p.Type, &p.DefaultValue, &p.IsVariadic, &p.IsOptional, &p.IsReceiver); err != nil {
			return nil, fmt.Errorf("failed to scan parameter row: %w", err)
		}
		params = append(params, p)
	}
	return params, rows.Err()
}

// ImportsForFile returns the stored imports of one file in line order.
func (r *Reader) ImportsForFile(filePath string) ([]model.ImportInfo, error) {
	rows, err := sq.Select("module", "symbols", "line", "alias", "is_relative", "is_wildcard").
		From("imports").
		Where(sq.Eq{"file_path": filePath}).
		OrderBy("line", "id").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query imports for %s: %w", filePath, err)
	}
	defer rows.Close()

	var imports []model.ImportInfo
	for rows.Next() {
		var imp model.ImportInfo
		var symbols string
		if err := rows.Scan(&imp.Module, &symbols, &imp.Line, &imp.Alias, &imp.IsRelative, &imp.IsWildcard); err != nil {
			return nil, fmt.Errorf("failed to scan import row: %w", err)
		}
		imp.Symbols = []string{}
		if symbols != "" {
			imp.Symbols = strings.Split(symbols, ",")
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

// SymbolHit is one search result row.
type SymbolHit struct {
	FilePath string
	Symbol   model.SymbolInfo
}

// FindSymbols searches symbols by name pattern (SQL LIKE, % wildcards), with
// optional kind and visibility filters. Empty filters match everything.
func (r *Reader) FindSymbols(namePattern string, kind model.SymbolKind, visibility model.Visibility, limit int) ([]SymbolHit, error) {
	query := sq.Select("file_path", "name", "kind", "visibility", "line_start", "line_end", "signature", "parent_name").
		From("symbols").
		OrderBy("file_path", "line_start")
	if namePattern != "" {
		query = query.Where(sq.Like{"name": namePattern})
	}
	if kind != "" {
		query = query.Where(sq.Eq{"kind": string(kind)})
	}
	if visibility != "" {
		query = query.Where(sq.Eq{"visibility": string(visibility)})
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	rows, err := query.RunWith(r.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to search symbols: %w", err)
	}
	defer rows.Close()

	var hits []SymbolHit
	for rows.Next() {
		var hit SymbolHit
		var k, v string
		if err := rows.Scan(&hit.FilePath, &hit.Symbol.Name, &k, &v,
			&hit.Symbol.LineStart, &hit.Symbol.LineEnd, &hit.Symbol.Signature, &hit.Symbol.ParentName); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		hit.Symbol.Kind = model.SymbolKind(k)
		hit.Symbol.Visibility = model.Visibility(v)
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// Stats summarizes the index contents.
type Stats struct {
	Files   int
	Symbols int
	Imports int
}

func (r *Reader) Stats() (*Stats, error) {
	stats := &Stats{}
	for _, c := range []struct {
		table string
		dest  *int
	}{
		{"files", &stats.Files},
		{"symbols", &stats.Symbols},
		{"imports", &stats.Imports},
	} {
		row := r.db.QueryRow("SELECT COUNT(*) FROM " + c.table)
		if err := row.Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}
	return stats, nil
}
