package parse

import (
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_kotlin "github.com/fwcd/tree-sitter-kotlin/bindings/go"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// grammarKey is the internal grammar identity. It differs from the canonical
// language identifier only for dialect grammars (tsx shares the typescript
// extractor but needs its own grammar).
type grammarKey string

type languageEntry struct {
	// language is the canonical identifier reported in results and used to
	// look up the extractor.
	language string
	raw      func() unsafe.Pointer
}

// extensionGrammars maps a lowercased file extension to the grammar that
// parses it.
var extensionGrammars = map[string]grammarKey{
	".go":   "go",
	".rs":   "rust",
	".java": "java",
	".kt":   "kotlin",
	".kts":  "kotlin",
	".ts":   "typescript",
	".mts":  "typescript",
	".cts":  "typescript",
	".tsx":  "tsx",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".rb":   "ruby",
	".rake": "ruby",
	".cs":   "csharp",
	".php":  "php",
	".py":   "python",
	".pyi":  "python",
}

var grammarEntries = map[grammarKey]languageEntry{
	"go":         {language: "go", raw: tree_sitter_go.Language},
	"rust":       {language: "rust", raw: tree_sitter_rust.Language},
	"java":       {language: "java", raw: tree_sitter_java.Language},
	"kotlin":     {language: "kotlin", raw: tree_sitter_kotlin.Language},
	"typescript": {language: "typescript", raw: tree_sitter_typescript.LanguageTypescript},
	"tsx":        {language: "typescript", raw: tree_sitter_typescript.LanguageTSX},
	"javascript": {language: "javascript", raw: tree_sitter_javascript.Language},
	"ruby":       {language: "ruby", raw: tree_sitter_ruby.Language},
	"csharp":     {language: "csharp", raw: tree_sitter_c_sharp.Language},
	"php":        {language: "php", raw: tree_sitter_php.LanguagePHP},
	"python":     {language: "python", raw: tree_sitter_python.Language},
}

// detectGrammar resolves a file path to its grammar key by extension.
func detectGrammar(path string) (grammarKey, error) {
	ext := strings.ToLower(filepath.Ext(path))
	key, ok := extensionGrammars[ext]
	if !ok {
		return "", fmt.Errorf("%w: no grammar for extension %q", ErrUnknownLanguage, ext)
	}
	return key, nil
}

// DetectLanguage resolves a file path to its canonical language identifier,
// or ErrUnknownLanguage when the extension is not recognized.
func DetectLanguage(path string) (string, error) {
	key, err := detectGrammar(path)
	if err != nil {
		return "", err
	}
	return grammarEntries[key].language, nil
}

// newLanguage instantiates the tree-sitter language for a grammar key.
func newLanguage(key grammarKey) (*sitter.Language, error) {
	entry, ok := grammarEntries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, key)
	}
	lang := sitter.NewLanguage(entry.raw())
	if lang == nil {
		return nil, fmt.Errorf("%w: grammar %q failed to load", ErrUnavailableCapability, key)
	}
	return lang, nil
}
