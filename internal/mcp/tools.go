package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/structmap/structmap/internal/model"
	"github.com/structmap/structmap/internal/parse"
)

// AddParseTool registers the structmap_parse tool with an MCP server.
// This function is composable - it can be combined with other tool registrations.
func AddParseTool(s *server.MCPServer, srv *Server) {
	tool := mcp.NewTool(
		"structmap_parse",
		mcp.WithDescription("Parse a single source file and return its full structural extraction: symbols (classes, methods, functions, types) with visibility, line ranges, signatures and docstrings, plus import statements. Supports Go, Rust, Java, Kotlin, TypeScript, JavaScript, Ruby, C#, PHP and Python."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the source file, absolute or relative to the project root")),
	)

	s.AddTool(tool, createParseHandler(srv))
}

func createParseHandler(srv *Server) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, errResult := requiredPath(request, srv.rootDir)
		if errResult != nil {
			return errResult, nil
		}

		result, err := srv.parser.ParseFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("parse failed: %w", err)
		}

		return jsonResult(result)
	}
}

// outlineResponse is the structmap_outline payload.
type outlineResponse struct {
	FilePath  string             `json:"file_path"`
	Language  string             `json:"language"`
	FromIndex bool               `json:"from_index"`
	Symbols   []model.SymbolInfo `json:"symbols"`
	Imports   []model.ImportInfo `json:"imports"`
}

// AddOutlineTool registers the structmap_outline tool with an MCP server.
// Answers come from the persisted index when the file is present there,
// falling back to a fresh parse otherwise.
func AddOutlineTool(s *server.MCPServer, srv *Server) {
	tool := mcp.NewTool(
		"structmap_outline",
		mcp.WithDescription("Return the symbol outline of a source file: every class, method, function and type with its visibility, line range and signature, plus imports. Uses the persisted index when available, otherwise parses the file on demand."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the source file, absolute or relative to the project root")),
	)

	s.AddTool(tool, createOutlineHandler(srv))
}

func createOutlineHandler(srv *Server) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, errResult := requiredPath(request, srv.rootDir)
		if errResult != nil {
			return errResult, nil
		}

		if resp, ok := srv.outlineFromIndex(path); ok {
			return jsonResult(resp)
		}

		result, err := srv.parser.ParseFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("parse failed: %w", err)
		}
		if !result.Success {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse %s: %v", path, result.Errors)), nil
		}

		return jsonResult(&outlineResponse{
			FilePath: path,
			Language: result.Language,
			Symbols:  result.Symbols,
			Imports:  result.Imports,
		})
	}
}

// outlineFromIndex answers an outline request from the database. Returns
// false when no index is open or the file has not been indexed.
func (s *Server) outlineFromIndex(path string) (*outlineResponse, bool) {
	if s.reader == nil {
		return nil, false
	}
	rel := indexKey(s.rootDir, path)
	record, err := s.reader.File(rel)
	if err != nil || !record.Success {
		return nil, false
	}
	symbols, err := s.reader.SymbolsForFile(rel)
	if err != nil {
		return nil, false
	}
	imports, err := s.reader.ImportsForFile(rel)
	if err != nil {
		return nil, false
	}
	return &outlineResponse{
		FilePath:  path,
		Language:  record.Language,
		FromIndex: true,
		Symbols:   symbols,
		Imports:   imports,
	}, true
}

// findResponse is the structmap_find payload.
type findResponse struct {
	Query   string      `json:"query"`
	Total   int         `json:"total"`
	Results []findMatch `json:"results"`
}

type findMatch struct {
	FilePath string           `json:"file_path"`
	Symbol   model.SymbolInfo `json:"symbol"`
}

// AddFindTool registers the structmap_find tool with an MCP server.
// Requires an open index; registered only when one is available.
func AddFindTool(s *server.MCPServer, srv *Server) {
	tool := mcp.NewTool(
		"structmap_find",
		mcp.WithDescription("Search indexed symbols by name across the whole project. Supports SQL LIKE wildcards (% and _) and optional kind and visibility filters. Returns matching symbols with their file paths and line ranges."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Symbol name pattern, e.g. 'Parse%' or '%Handler'")),
		mcp.WithString("kind",
			mcp.Description("Filter by symbol kind: class, interface, struct, enum, method, function, module, type_alias")),
		mcp.WithString("visibility",
			mcp.Description("Filter by visibility: public, private, protected, internal, package")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 50)")),
	)

	s.AddTool(tool, createFindHandler(srv))
}

func createFindHandler(srv *Server) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		name, ok := argsMap["name"].(string)
		if !ok || name == "" {
			return mcp.NewToolResultError("name parameter is required"), nil
		}

		var kind model.SymbolKind
		if k, ok := argsMap["kind"].(string); ok {
			kind = model.SymbolKind(k)
		}
		var visibility model.Visibility
		if v, ok := argsMap["visibility"].(string); ok {
			visibility = model.Visibility(v)
		}
		limit := 50
		if l, ok := argsMap["limit"].(float64); ok && l > 0 {
			limit = int(l)
		}

		hits, err := srv.reader.FindSymbols(name, kind, visibility, limit)
		if err != nil {
			return nil, fmt.Errorf("symbol search failed: %w", err)
		}

		resp := &findResponse{Query: name, Total: len(hits), Results: make([]findMatch, 0, len(hits))}
		for _, hit := range hits {
			resp.Results = append(resp.Results, findMatch{FilePath: hit.FilePath, Symbol: hit.Symbol})
		}
		return jsonResult(resp)
	}
}

// AddLanguagesTool registers the structmap_languages tool with an MCP server.
func AddLanguagesTool(s *server.MCPServer) {
	tool := mcp.NewTool(
		"structmap_languages",
		mcp.WithDescription("List the languages the structural extractor supports."),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(map[string][]string{"languages": parse.NewParser().SupportedLanguages()})
	})
}

// requiredPath extracts the path argument and resolves it against rootDir.
func requiredPath(request mcp.CallToolRequest, rootDir string) (string, *mcp.CallToolResult) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", mcp.NewToolResultError("invalid arguments format")
	}
	path, ok := argsMap["path"].(string)
	if !ok || path == "" {
		return "", mcp.NewToolResultError("path parameter is required")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}
	return path, nil
}

// indexKey converts an absolute path back to the root-relative form the
// index stores.
func indexKey(rootDir, path string) string {
	rel, err := filepath.Rel(rootDir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// jsonResult marshals a response as a JSON text result (mcp-go convention).
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
