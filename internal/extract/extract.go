// Package extract converts tree-sitter query matches into the canonical
// structural model. Each supported language supplies its three query strings
// (types, callables, imports) and the conversion rules from a match to a
// model.SymbolInfo or model.ImportInfo; everything the languages share
// (visibility keyword tables, docstring lookup, parent-type walk, signature
// formatting) lives in the embedded base.
package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/structmap/structmap/internal/model"
)

// Extractor is implemented once per supported language. Queries must bind a
// `name` capture (or `module` for imports) and tag the matched construct with
// a `definition.<tag>` (or `import`) capture so the conversion can resolve
// which query alternative fired.
type Extractor interface {
	// Language returns the language identifier ("go", "rust", ...).
	Language() string

	// ClassQuery matches type-like constructs (classes, structs, traits,
	// enums, modules, type aliases).
	ClassQuery() string

	// MethodQuery matches callable-like constructs (functions, methods).
	MethodQuery() string

	// ImportQuery matches import-like statements.
	ImportQuery() string

	// SymbolFromMatch converts one query match into a symbol. It returns
	// nil when the match lacks a required capture; a nil result is a benign
	// non-match, never an error. The actual kind is resolved from the
	// definition tag that fired, not from expected.
	SymbolFromMatch(m *Match, source []byte, expected model.SymbolKind) *model.SymbolInfo

	// ImportFromMatch converts one import query match, or nil when the
	// match has no module capture.
	ImportFromMatch(m *Match, source []byte) *model.ImportInfo
}

// definitionPrefix tags the construct capture of each query alternative.
const definitionPrefix = "definition."

// kindByTag resolves a definition capture suffix to a symbol kind. Tags not
// listed here ("type", language-specific shapes) are resolved by the owning
// extractor from the matched node itself.
var kindByTag = map[string]model.SymbolKind{
	"class":      model.KindClass,
	"interface":  model.KindInterface,
	"trait":      model.KindTrait,
	"struct":     model.KindStruct,
	"enum":       model.KindEnum,
	"method":     model.KindMethod,
	"function":   model.KindFunction,
	"module":     model.KindModule,
	"type_alias": model.KindTypeAlias,
	"constant":   model.KindConstant,
}

// definition returns the construct node and tag suffix of the alternative
// that fired, or nil when the match carries no definition capture.
func (m *Match) definition() (node *sitter.Node, tag string) {
	for _, c := range m.Captures {
		if strings.HasPrefix(c.Name, definitionPrefix) {
			return c.Node, strings.TrimPrefix(c.Name, definitionPrefix)
		}
	}
	return nil, ""
}
