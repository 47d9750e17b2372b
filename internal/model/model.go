// Package model defines the canonical, language-independent representation of
// source-code structure produced by the extraction engine. These types are the
// stable contract consumed by downstream tooling (interface extraction,
// dependency-rule enforcement, refactor planning): field renames and enum
// value removals are breaking changes.
package model

// SymbolKind classifies an extracted symbol. The set is closed and stable
// across releases.
type SymbolKind string

const (
	KindClass     SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindTrait     SymbolKind = "trait"
	KindStruct    SymbolKind = "struct"
	KindEnum      SymbolKind = "enum"
	KindMethod    SymbolKind = "method"
	KindFunction  SymbolKind = "function"
	KindField     SymbolKind = "field"
	KindProperty  SymbolKind = "property"
	KindConstant  SymbolKind = "constant"
	KindImport    SymbolKind = "import"
	KindModule    SymbolKind = "module"
	KindPackage   SymbolKind = "package"
	KindTypeAlias SymbolKind = "type_alias"
)

// IsTypeLike reports whether the kind declares a type that can enclose
// members (used by the parent-type ancestor walk).
func (k SymbolKind) IsTypeLike() bool {
	switch k {
	case KindClass, KindInterface, KindTrait, KindStruct, KindEnum, KindModule:
		return true
	default:
		return false
	}
}

// Visibility is the normalized access level of a symbol. The set is closed
// and stable across releases.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityInternal  Visibility = "internal"
	// VisibilityPackage is package-private: scoped to the declaring
	// module/package/file group rather than the declaring type.
	VisibilityPackage Visibility = "package"
)

// ParameterInfo describes a single declared parameter, in declaration order.
type ParameterInfo struct {
	Name string `json:"name"`
	// Type is the parameter's type annotation as written in source, passed
	// through as an opaque string. Empty when the language omits it.
	Type string `json:"type,omitempty"`
	// DefaultValue is the source fragment of the default expression, if any.
	DefaultValue string `json:"default_value,omitempty"`
	IsVariadic   bool   `json:"is_variadic,omitempty"`
	// IsOptional is true when a default exists or the language marks the
	// parameter optional (e.g. TypeScript's `?`).
	IsOptional bool `json:"is_optional,omitempty"`
	// IsReceiver marks the implicit self/this parameter (Rust's `&self`,
	// Ruby/Python `self` conventions). Receivers are excluded from ordinary
	// parameter counting by consumers unless explicitly requested.
	IsReceiver bool `json:"is_receiver,omitempty"`
}

// SymbolInfo is one extracted declaration. Lines are 1-indexed inclusive,
// columns are 0-indexed. Values are constructed once per query match and
// never mutated afterwards.
type SymbolInfo struct {
	Name       string     `json:"name"`
	Kind       SymbolKind `json:"kind"`
	Visibility Visibility `json:"visibility"`
	LineStart  int        `json:"line_start"`
	LineEnd    int        `json:"line_end"`
	ColStart   int        `json:"column_start"`
	ColEnd     int        `json:"column_end"`
	// Signature is derived purely from Name, Parameters and ReturnType for
	// METHOD/FUNCTION kinds; it is never stored independently of them.
	Signature  string          `json:"signature,omitempty"`
	ReturnType string          `json:"return_type,omitempty"`
	Parameters []ParameterInfo `json:"parameters,omitempty"`
	// Modifiers are free-form tokens as written in source ("static",
	// "async", "abstract", ...), in source order.
	Modifiers []string `json:"modifiers,omitempty"`
	// ParentName is the name of the nearest enclosing type, if any.
	ParentName string `json:"parent_name,omitempty"`
	Docstring  string `json:"docstring,omitempty"`
	// GenericParams are the declared type parameter names, in order.
	GenericParams []string `json:"generic_params,omitempty"`
}

// ImportInfo is one extracted import-like statement.
type ImportInfo struct {
	// Module is the imported module/path string with quotes stripped.
	Module string `json:"module"`
	// Symbols lists the individually imported names; empty means the whole
	// module is imported.
	Symbols []string `json:"symbols,omitempty"`
	// Line is the 1-indexed line of the import statement.
	Line       int    `json:"line"`
	IsRelative bool   `json:"is_relative,omitempty"`
	Alias      string `json:"alias,omitempty"`
	IsWildcard bool   `json:"is_wildcard,omitempty"`
}

// ParseResult aggregates everything extracted from one source file. A result
// owns its symbols and imports exclusively; nothing is shared or mutated
// after construction.
type ParseResult struct {
	Success bool         `json:"success"`
	Symbols []SymbolInfo `json:"symbols"`
	Imports []ImportInfo `json:"imports"`
	// Errors holds human-readable failure messages identifying the failing
	// stage and language. Empty on success.
	Errors   []string `json:"errors"`
	Language string   `json:"language"`
	// HasSyntaxErrors is true when the syntax tree contained recoverable
	// error nodes but extraction still proceeded. It never implies failure:
	// partial structural information is still useful to callers.
	HasSyntaxErrors bool   `json:"has_syntax_errors"`
	FilePath        string `json:"file_path,omitempty"`
}

// Failure builds a failed result for the given language with the supplied
// error messages.
func Failure(language, filePath string, errs ...string) *ParseResult {
	return &ParseResult{
		Success:  false,
		Symbols:  []SymbolInfo{},
		Imports:  []ImportInfo{},
		Errors:   errs,
		Language: language,
		FilePath: filePath,
	}
}
