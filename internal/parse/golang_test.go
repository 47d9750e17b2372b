package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structmap/structmap/internal/model"
)

// Test Plan for Go extraction:
// - Structs, interfaces and type aliases with the right kinds
// - Visibility from identifier casing (exported vs package)
// - Methods carry their receiver and parent type
// - Variadic and grouped parameters
// - Imports with aliases and dot imports

const testGoFile = `package store

import (
	"context"
	"fmt"
	sq "github.com/Masterminds/squirrel"
	. "strings"
)

// Store persists widgets.
type Store struct{}

// Reader reads widgets back out.
type Reader interface {
	Get(ctx context.Context, id string) (string, error)
}

type ID = string

type counter struct{}

// Put writes a widget under the given id.
func (s *Store) Put(ctx context.Context, id string, payload []byte) error {
	return nil
}

func Render(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func helper(a, b int) int { return a + b }

var _ = sq.Select
var _ = TrimSpace
`

func TestGo_Types(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "store.go", testGoFile)

	store := requireSymbol(t, result.Symbols, "Store")
	assert.Equal(t, model.KindStruct, store.Kind)
	assert.Equal(t, model.VisibilityPublic, store.Visibility)
	assert.Equal(t, "Store persists widgets.", store.Docstring)

	reader := requireSymbol(t, result.Symbols, "Reader")
	assert.Equal(t, model.KindInterface, reader.Kind)

	alias := requireSymbol(t, result.Symbols, "ID")
	assert.Equal(t, model.KindTypeAlias, alias.Kind)

	count := requireSymbol(t, result.Symbols, "counter")
	assert.Equal(t, model.VisibilityPackage, count.Visibility)
}

func TestGo_Methods(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "store.go", testGoFile)

	put := requireSymbol(t, result.Symbols, "Put")
	assert.Equal(t, model.KindMethod, put.Kind)
	assert.Equal(t, "Store", put.ParentName)
	assert.Equal(t, model.VisibilityPublic, put.Visibility)

	require.NotEmpty(t, put.Parameters)
	assert.True(t, put.Parameters[0].IsReceiver)
	assert.Equal(t, "Put(ctx: context.Context, id: string, payload: []byte) -> error", put.Signature)

	render := requireSymbol(t, result.Symbols, "Render")
	assert.Equal(t, model.KindFunction, render.Kind)
	last := render.Parameters[len(render.Parameters)-1]
	assert.True(t, last.IsVariadic)
	assert.Equal(t, "args", last.Name)

	helper := requireSymbol(t, result.Symbols, "helper")
	assert.Equal(t, model.VisibilityPackage, helper.Visibility)
	require.Len(t, helper.Parameters, 2)
	assert.Equal(t, "int", helper.Parameters[0].Type)
	assert.Equal(t, "int", helper.Parameters[1].Type)
}

func TestGo_Imports(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "store.go", testGoFile)
	require.Len(t, result.Imports, 4)

	squirrel := findImport(result.Imports, "github.com/Masterminds/squirrel")
	require.NotNil(t, squirrel)
	assert.Equal(t, "sq", squirrel.Alias)

	str := findImport(result.Imports, "strings")
	require.NotNil(t, str)
	assert.True(t, str.IsWildcard)

	ctx := findImport(result.Imports, "context")
	require.NotNil(t, ctx)
	assert.Empty(t, ctx.Alias)
	assert.False(t, ctx.IsWildcard)
}
