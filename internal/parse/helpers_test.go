package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structmap/structmap/internal/model"
)

// parseSource parses inline source content and fails the test on a
// non-successful result.
func parseSource(t *testing.T, path, source string) *model.ParseResult {
	t.Helper()

	result, err := NewParser().Parse(context.Background(), path, []byte(source))
	require.NoError(t, err)
	require.NotNil(t, result)
	require.True(t, result.Success, "errors: %v", result.Errors)
	return result
}

func findSymbol(symbols []model.SymbolInfo, name string) *model.SymbolInfo {
	for i := range symbols {
		if symbols[i].Name == name {
			return &symbols[i]
		}
	}
	return nil
}

func filterKind(symbols []model.SymbolInfo, kind model.SymbolKind) []model.SymbolInfo {
	var out []model.SymbolInfo
	for _, s := range symbols {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func findImport(imports []model.ImportInfo, module string) *model.ImportInfo {
	for i := range imports {
		if imports[i].Module == module {
			return &imports[i]
		}
	}
	return nil
}

func requireSymbol(t *testing.T, symbols []model.SymbolInfo, name string) *model.SymbolInfo {
	t.Helper()

	sym := findSymbol(symbols, name)
	require.NotNil(t, sym, "symbol %q not found", name)
	return sym
}
