package extract

import (
	"github.com/structmap/structmap/internal/model"
)

// javascriptExtractor extracts JavaScript declarations. With no visibility
// syntax in the language, the leading-underscore naming convention is the
// only private signal, plus ES2022 `#name` members.
type javascriptExtractor struct {
	base
}

func newJavaScriptExtractor() *javascriptExtractor {
	return &javascriptExtractor{base{tsLangConfig("javascript")}}
}

func (e *javascriptExtractor) ClassQuery() string {
	return `(class_declaration name: (identifier) @name) @definition.class`
}

func (e *javascriptExtractor) MethodQuery() string {
	return `
		(function_declaration name: (identifier) @name) @definition.function
		(generator_function_declaration name: (identifier) @name) @definition.function
		(method_definition name: (property_identifier) @name) @definition.method
		(method_definition name: (private_property_identifier) @name) @definition.method
		(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @definition.arrow
		(lexical_declaration (variable_declarator name: (identifier) @name value: (function_expression))) @definition.arrow
	`
}

func (e *javascriptExtractor) ImportQuery() string {
	return `(import_statement source: (string) @module) @definition.import`
}

func (e *javascriptExtractor) SymbolFromMatch(m *Match, source []byte, expected model.SymbolKind) *model.SymbolInfo {
	return tsSymbolFromMatch(&e.base, m, source)
}

func (e *javascriptExtractor) ImportFromMatch(m *Match, source []byte) *model.ImportInfo {
	return tsImportFromMatch(m, source)
}
