package mcp

// Test Plan for MCP tools:
// 1. structmap_parse handler returns full parse results as JSON
// 2. Missing/invalid path arguments produce error results, not errors
// 3. structmap_outline falls back to a fresh parse without an index
// 4. structmap_outline answers from the index when the file is indexed
// 5. structmap_find searches the index by name pattern
// 6. Path resolution against the project root

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structmap/structmap/internal/model"
	"github.com/structmap/structmap/internal/parse"
	"github.com/structmap/structmap/internal/storage"
)

const toolTestSource = `package ledger

// Account tracks a balance in cents.
type Account struct {
	Balance int64
}

func (a *Account) Deposit(amount int64) {
	a.Balance += amount
}
`

func newTestServer(t *testing.T, dbPath string) (*Server, string) {
	t.Helper()

	rootDir := t.TempDir()
	path := filepath.Join(rootDir, "account.go")
	require.NoError(t, os.WriteFile(path, []byte(toolTestSource), 0o644))

	srv, err := NewServer(rootDir, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv, path
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func decodeText(t *testing.T, result *mcp.CallToolResult, v interface{}) {
	t.Helper()

	require.NotNil(t, result)
	require.False(t, result.IsError, "should not be an error result")
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "should be text content")
	require.NoError(t, json.Unmarshal([]byte(textContent.Text), v))
}

// Test: structmap_parse returns the complete extraction for a file.
func TestParseHandler_ValidRequest(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "")
	handler := createParseHandler(srv)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"path": "account.go",
	}))
	require.NoError(t, err)

	var parsed model.ParseResult
	decodeText(t, result, &parsed)

	assert.True(t, parsed.Success)
	assert.Equal(t, "go", parsed.Language)
	require.Len(t, parsed.Symbols, 2)
	assert.Equal(t, "Account", parsed.Symbols[0].Name)
	assert.Equal(t, model.KindStruct, parsed.Symbols[0].Kind)
	assert.Equal(t, "Deposit", parsed.Symbols[1].Name)
	assert.Equal(t, "Account", parsed.Symbols[1].ParentName)
}

// Test: a missing path argument produces an error result, not a Go error.
func TestParseHandler_MissingPath(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "")
	handler := createParseHandler(srv)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

// Test: outline parses on demand when no index database is open.
func TestOutlineHandler_FreshParse(t *testing.T) {
	t.Parallel()

	srv, path := newTestServer(t, "")
	handler := createOutlineHandler(srv)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"path": path,
	}))
	require.NoError(t, err)

	var resp outlineResponse
	decodeText(t, result, &resp)

	assert.False(t, resp.FromIndex)
	assert.Equal(t, "go", resp.Language)
	require.Len(t, resp.Symbols, 2)
	assert.Equal(t, "Account", resp.Symbols[0].Name)
}

func seedIndex(t *testing.T, dbPath string) {
	t.Helper()

	db, err := storage.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	writer := storage.NewWriter(db)
	runID, err := writer.BeginRun("/tmp/ledger")
	require.NoError(t, err)

	result := &model.ParseResult{
		Success:  true,
		Language: "go",
		FilePath: "account.go",
		Symbols: []model.SymbolInfo{
			{Name: "Account", Kind: model.KindStruct, Visibility: model.VisibilityPublic, LineStart: 4, LineEnd: 6},
			{Name: "Deposit", Kind: model.KindMethod, Visibility: model.VisibilityPublic, LineStart: 8, LineEnd: 10, ParentName: "Account"},
		},
		Imports: []model.ImportInfo{},
		Errors:  []string{},
	}
	require.NoError(t, writer.WriteResult(runID, "hash-1", result))
	require.NoError(t, writer.FinishRun(runID, 1, 0))
}

// Test: outline prefers the index over re-parsing.
func TestOutlineHandler_FromIndex(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "index.db")
	seedIndex(t, dbPath)

	srv, _ := newTestServer(t, dbPath)
	handler := createOutlineHandler(srv)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"path": "account.go",
	}))
	require.NoError(t, err)

	var resp outlineResponse
	decodeText(t, result, &resp)

	assert.True(t, resp.FromIndex)
	require.Len(t, resp.Symbols, 2)
	assert.Equal(t, "Account", resp.Symbols[0].Name)
	assert.Equal(t, "Deposit", resp.Symbols[1].Name)
}

// Test: find searches by name pattern with LIKE wildcards.
func TestFindHandler(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "index.db")
	seedIndex(t, dbPath)

	srv, _ := newTestServer(t, dbPath)
	handler := createFindHandler(srv)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"name": "Dep%",
	}))
	require.NoError(t, err)

	var resp findResponse
	decodeText(t, result, &resp)

	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "account.go", resp.Results[0].FilePath)
	assert.Equal(t, "Deposit", resp.Results[0].Symbol.Name)
	assert.Equal(t, model.KindMethod, resp.Results[0].Symbol.Kind)
}

// Test: languages tool lists all supported languages.
func TestLanguagesTool(t *testing.T) {
	t.Parallel()

	assert.Len(t, parse.NewParser().SupportedLanguages(), 10)
}

// Test: relative paths resolve against the project root; absolute pass through.
func TestRequiredPath(t *testing.T) {
	t.Parallel()

	path, errResult := requiredPath(callRequest(map[string]interface{}{"path": "src/a.go"}), "/repo")
	require.Nil(t, errResult)
	assert.Equal(t, filepath.Join("/repo", "src", "a.go"), path)

	path, errResult = requiredPath(callRequest(map[string]interface{}{"path": "/abs/a.go"}), "/repo")
	require.Nil(t, errResult)
	assert.Equal(t, "/abs/a.go", path)

	assert.Equal(t, "src/a.go", indexKey("/repo", "/repo/src/a.go"))
}
