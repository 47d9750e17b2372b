// Package parse orchestrates structural extraction: it detects a file's
// language, parses it with the matching tree-sitter grammar, runs the
// language's class/method/import queries and assembles a model.ParseResult.
// Grammars, compiled queries and extractors are built lazily and cached for
// the lifetime of the Parser.
package parse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/structmap/structmap/internal/extract"
	"github.com/structmap/structmap/internal/model"
)

var (
	// ErrUnknownLanguage means no grammar is registered for the file's
	// extension.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrUnavailableCapability means the language is known but its grammar
	// or extractor could not be instantiated.
	ErrUnavailableCapability = errors.New("language capability unavailable")
	// ErrParseFailure means the grammar rejected the input outright. Files
	// with recoverable syntax errors do not produce this; they parse with
	// error nodes instead.
	ErrParseFailure = errors.New("parse failure")
)

// compiledQuery caches one query compilation outcome. A compile error is
// cached too so a broken pattern is not recompiled on every file.
type compiledQuery struct {
	query *sitter.Query
	err   error
}

type querySet struct {
	classes compiledQuery
	methods compiledQuery
	imports compiledQuery
}

// Parser is the concurrency-safe extraction engine. The zero value is not
// usable; construct with NewParser.
type Parser struct {
	mu         sync.Mutex
	languages  map[grammarKey]*sitter.Language
	queries    map[grammarKey]*querySet
	extractors map[string]extract.Extractor
}

func NewParser() *Parser {
	return &Parser{
		languages:  make(map[grammarKey]*sitter.Language),
		queries:    make(map[grammarKey]*querySet),
		extractors: make(map[string]extract.Extractor),
	}
}

// SupportedLanguages lists the canonical identifiers of every language this
// parser can extract from.
func (p *Parser) SupportedLanguages() []string {
	return extract.Languages()
}

// ParseFile reads and parses one file from disk.
func (p *Parser) ParseFile(ctx context.Context, path string) (*model.ParseResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		language := "unknown"
		if l, derr := DetectLanguage(path); derr == nil {
			language = l
		}
		return model.Failure(language, path, fmt.Sprintf("io failure: %v", err)), nil
	}
	return p.Parse(ctx, path, content)
}

// Parse extracts the structural model of one source file. The returned result
// is never nil: detection, capability and parse failures are reported through
// Success=false with an explanatory message, and a failing query for one
// symbol kind degrades only that kind while the rest of the result stands.
// The error return is reserved for context cancellation.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*model.ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := detectGrammar(path)
	if err != nil {
		return model.Failure("unknown", path, err.Error()), nil
	}
	language := grammarEntries[key].language

	lang, extractor, err := p.capability(key)
	if err != nil {
		return model.Failure(language, path, err.Error()), nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return model.Failure(language, path,
			fmt.Sprintf("%v: %v", ErrUnavailableCapability, err)), nil
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return model.Failure(language, path, ErrParseFailure.Error()), nil
	}
	defer tree.Close()
	root := tree.RootNode()

	result := &model.ParseResult{
		Success:         true,
		Symbols:         []model.SymbolInfo{},
		Imports:         []model.ImportInfo{},
		Errors:          []string{},
		Language:        language,
		HasSyntaxErrors: root.HasError(),
		FilePath:        path,
	}

	queries := p.queriesFor(key, lang, extractor)

	p.collectSymbols(result, queries.classes, "classes", root, content, extractor, model.KindClass)
	p.collectSymbols(result, queries.methods, "methods", root, content, extractor, model.KindMethod)
	p.collectImports(result, queries.imports, root, content, extractor)

	return result, nil
}

// collectSymbols runs one compiled symbol query and appends its conversions.
// A compile failure degrades this kind only: the error is recorded and the
// result stays successful.
func (p *Parser) collectSymbols(result *model.ParseResult, cq compiledQuery, kind string, root *sitter.Node, content []byte, extractor extract.Extractor, expected model.SymbolKind) {
	if cq.err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("query failure (%s): %v", kind, cq.err))
		return
	}
	for _, m := range extract.ExecQuery(cq.query, root, content) {
		if sym := extractor.SymbolFromMatch(m, content, expected); sym != nil {
			result.Symbols = append(result.Symbols, *sym)
		}
	}
}

func (p *Parser) collectImports(result *model.ParseResult, cq compiledQuery, root *sitter.Node, content []byte, extractor extract.Extractor) {
	if cq.err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("query failure (imports): %v", cq.err))
		return
	}
	for _, m := range extract.ExecQuery(cq.query, root, content) {
		if imp := extractor.ImportFromMatch(m, content); imp != nil {
			result.Imports = append(result.Imports, *imp)
		}
	}
}

// capability resolves the grammar and extractor for a key, caching both.
func (p *Parser) capability(key grammarKey) (*sitter.Language, extract.Extractor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	language := grammarEntries[key].language
	extractor, ok := p.extractors[language]
	if !ok {
		extractor, ok = extract.ForLanguage(language)
		if !ok {
			return nil, nil, fmt.Errorf("%w: no extractor for %q", ErrUnavailableCapability, language)
		}
		p.extractors[language] = extractor
	}

	lang, ok := p.languages[key]
	if !ok {
		var err error
		lang, err = newLanguage(key)
		if err != nil {
			return nil, nil, err
		}
		p.languages[key] = lang
	}
	return lang, extractor, nil
}

// queriesFor compiles and caches the language's three queries against its
// grammar. Dialect grammars (tsx) get their own compilation even though the
// query strings are shared.
func (p *Parser) queriesFor(key grammarKey, lang *sitter.Language, extractor extract.Extractor) *querySet {
	p.mu.Lock()
	defer p.mu.Unlock()

	if qs, ok := p.queries[key]; ok {
		return qs
	}
	qs := &querySet{
		classes: compileQuery(lang, extractor.ClassQuery()),
		methods: compileQuery(lang, extractor.MethodQuery()),
		imports: compileQuery(lang, extractor.ImportQuery()),
	}
	p.queries[key] = qs
	return qs
}

func compileQuery(lang *sitter.Language, pattern string) compiledQuery {
	query, qerr := sitter.NewQuery(lang, pattern)
	if qerr != nil {
		return compiledQuery{err: fmt.Errorf("compile: %s", qerr.Message)}
	}
	return compiledQuery{query: query}
}
