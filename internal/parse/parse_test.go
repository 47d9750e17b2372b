package parse

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structmap/structmap/internal/model"
)

// Test Plan for Parser:
// - Detect languages from file extensions, case-insensitively
// - Fail with success=false for unknown extensions
// - Tolerate syntax errors: success=true with has_syntax_errors set
// - Produce identical results for repeated parses of the same content
// - Handle empty files without failing
// - Report io failures from ParseFile without a Go error
// - Stay safe under concurrent use of one Parser

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"main.go":       "go",
		"lib.rs":        "rust",
		"App.java":      "java",
		"Main.kt":       "kotlin",
		"build.KTS":     "kotlin",
		"index.ts":      "typescript",
		"view.tsx":      "typescript",
		"app.js":        "javascript",
		"widget.jsx":    "javascript",
		"user.rb":       "ruby",
		"Program.cs":    "csharp",
		"index.php":     "php",
		"service.py":    "python",
		"a/b/c/deep.go": "go",
	}
	for path, want := range cases {
		got, err := DetectLanguage(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

func TestDetectLanguage_Unknown(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"readme.txt", "Makefile", "noext", "image.png"} {
		_, err := DetectLanguage(path)
		require.Error(t, err, path)
		assert.ErrorIs(t, err, ErrUnknownLanguage)
	}
}

// Test: unknown extensions produce a failed result, not a Go error
func TestParse_UnknownExtension(t *testing.T) {
	t.Parallel()

	result, err := NewParser().Parse(context.Background(), "notes.txt", []byte("hello"))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.Success)
	assert.Equal(t, "unknown", result.Language)
	assert.NotEmpty(t, result.Errors)
	assert.Empty(t, result.Symbols)
	assert.Empty(t, result.Imports)
}

// Test: a file with syntax errors still yields the recoverable symbols
func TestParse_SyntaxErrorTolerance(t *testing.T) {
	t.Parallel()

	source := `package broken

func Valid() {}

func Broken( {
`
	result := parseSource(t, "broken.go", source)

	assert.True(t, result.HasSyntaxErrors)
	assert.True(t, result.Success)
	requireSymbol(t, result.Symbols, "Valid")
}

// Test: parsing the same content twice yields identical results
func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	source := `package sample

import "fmt"

type Widget struct{}

func (w *Widget) Render(depth int) string { return fmt.Sprint(depth) }
`
	parser := NewParser()
	ctx := context.Background()

	first, err := parser.Parse(ctx, "widget.go", []byte(source))
	require.NoError(t, err)
	second, err := parser.Parse(ctx, "widget.go", []byte(source))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_EmptyFile(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "empty.py", "")

	assert.True(t, result.Success)
	assert.False(t, result.HasSyntaxErrors)
	assert.Empty(t, result.Symbols)
	assert.Empty(t, result.Imports)
}

func TestParseFile_MissingFile(t *testing.T) {
	t.Parallel()

	result, err := NewParser().ParseFile(context.Background(), "/nonexistent/nope.go")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.Success)
	assert.Equal(t, "go", result.Language)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "io failure")
}

func TestParseFile_ReadsContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "greet.rb")
	require.NoError(t, os.WriteFile(path, []byte("def greet(name)\n  name\nend\n"), 0o644))

	result, err := NewParser().ParseFile(context.Background(), path)
	require.NoError(t, err)
	require.True(t, result.Success)

	sym := requireSymbol(t, result.Symbols, "greet")
	assert.Equal(t, model.KindFunction, sym.Kind)
	assert.Equal(t, path, result.FilePath)
}

func TestParse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser().Parse(ctx, "main.go", []byte("package main"))
	assert.ErrorIs(t, err, context.Canceled)
}

// Test: one Parser instance handles concurrent parses across languages
func TestParse_Concurrent(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"a.go": "package a\n\nfunc A() {}\n",
		"b.py": "def b():\n    pass\n",
		"c.rb": "def c\nend\n",
		"d.ts": "export function d(): void {}\n",
	}
	parser := NewParser()

	done := make(chan error, len(files)*8)
	for i := 0; i < 8; i++ {
		for path, source := range files {
			go func(path, source string) {
				result, err := parser.Parse(context.Background(), path, []byte(source))
				if err == nil && !result.Success {
					err = assert.AnError
				}
				done <- err
			}(path, source)
		}
	}
	for i := 0; i < len(files)*8; i++ {
		require.NoError(t, <-done)
	}
}

func TestSupportedLanguages(t *testing.T) {
	t.Parallel()

	langs := NewParser().SupportedLanguages()
	assert.Len(t, langs, 10)
	assert.Contains(t, langs, "go")
	assert.Contains(t, langs, "kotlin")
	assert.Contains(t, langs, "csharp")
}
