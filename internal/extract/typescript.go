package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/structmap/structmap/internal/model"
)

// typescriptExtractor extracts TypeScript declarations. Visibility comes from
// the accessibility modifier node alone; with none present everything is
// public. ES2022 `#name` members are treated as private.
type typescriptExtractor struct {
	base
}

func newTypeScriptExtractor() *typescriptExtractor {
	return &typescriptExtractor{base{tsLangConfig("typescript")}}
}

// tsLangConfig is shared between the TypeScript and JavaScript extractors;
// the grammars descend from the same node vocabulary.
func tsLangConfig(name string) langConfig {
	return langConfig{
		name: name,
		visibilityKeywords: map[string]model.Visibility{
			"public":    model.VisibilityPublic,
			"private":   model.VisibilityPrivate,
			"protected": model.VisibilityProtected,
		},
		typeKinds: map[string]model.SymbolKind{
			"class_declaration":          model.KindClass,
			"abstract_class_declaration": model.KindClass,
			"interface_declaration":      model.KindInterface,
			"enum_declaration":           model.KindEnum,
			"internal_module":            model.KindModule,
			"class":                      model.KindClass,
		},
		commentKinds: map[string]bool{"comment": true},
		modifierKinds: map[string]bool{
			"accessibility_modifier": true,
			"override_modifier":      true,
			"static":                 true,
			"async":                  true,
			"abstract":               true,
			"readonly":               true,
			"get":                    true,
			"set":                    true,
		},
		genericListKinds: map[string]bool{"type_parameters": true},
		docWrapperKinds: map[string]bool{
			"export_statement": true,
		},
	}
}

func (e *typescriptExtractor) ClassQuery() string {
	return `
		(class_declaration name: (type_identifier) @name) @definition.class
		(abstract_class_declaration name: (type_identifier) @name) @definition.class
		(interface_declaration name: (type_identifier) @name) @definition.interface
		(enum_declaration name: (identifier) @name) @definition.enum
		(type_alias_declaration name: (type_identifier) @name) @definition.type_alias
		(internal_module name: (identifier) @name) @definition.module
	`
}

func (e *typescriptExtractor) MethodQuery() string {
	return `
		(function_declaration name: (identifier) @name) @definition.function
		(function_signature name: (identifier) @name) @definition.function
		(method_definition name: (property_identifier) @name) @definition.method
		(method_definition name: (private_property_identifier) @name) @definition.method
		(method_signature name: (property_identifier) @name) @definition.method
		(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @definition.arrow
	`
}

func (e *typescriptExtractor) ImportQuery() string {
	return `(import_statement source: (string) @module) @definition.import`
}

func (e *typescriptExtractor) SymbolFromMatch(m *Match, source []byte, expected model.SymbolKind) *model.SymbolInfo {
	return tsSymbolFromMatch(&e.base, m, source)
}

func (e *typescriptExtractor) ImportFromMatch(m *Match, source []byte) *model.ImportInfo {
	return tsImportFromMatch(m, source)
}

// tsSymbolFromMatch is the conversion shared by the TypeScript and
// JavaScript extractors.
func tsSymbolFromMatch(b *base, m *Match, source []byte) *model.SymbolInfo {
	def, tag := m.definition()
	nameNode := m.First("name")
	if def == nil || nameNode == nil {
		return nil
	}
	name := nodeText(nameNode, source)

	modifiers := b.modifierTokens(def, source)
	sym := &model.SymbolInfo{
		Name:          name,
		Modifiers:     modifiers,
		ParentName:    b.findParentType(def, source),
		Docstring:     b.findDocstring(def, source),
		GenericParams: b.genericParams(def, source),
	}
	sym.Visibility = tsVisibility(b, b.cfg.name, name, nameNode, modifiers)
	b.position(sym, def)

	callable := def
	switch tag {
	case "class":
		sym.Kind = model.KindClass
		return sym
	case "interface":
		sym.Kind = model.KindInterface
		return sym
	case "enum":
		sym.Kind = model.KindEnum
		return sym
	case "type_alias":
		sym.Kind = model.KindTypeAlias
		return sym
	case "module":
		sym.Kind = model.KindModule
		return sym
	case "function":
		sym.Kind = model.KindFunction
	case "method":
		sym.Kind = model.KindMethod
	case "arrow":
		// `const f = (...) => ...` declares a function in all but syntax.
		sym.Kind = model.KindFunction
		callable = firstDescendantByType(def, "arrow_function", "function_expression")
		if callable == nil {
			return nil
		}
	default:
		return nil
	}

	sym.Parameters = tsParameters(callable.ChildByFieldName("parameters"), source)
	if ret := callable.ChildByFieldName("return_type"); ret != nil {
		if typ := ret.NamedChild(0); typ != nil {
			sym.ReturnType = nodeText(typ, source)
		}
	}
	sym.Signature = BuildSignature(sym.Name, sym.Parameters, sym.ReturnType)
	return sym
}

func tsImportFromMatch(m *Match, source []byte) *model.ImportInfo {
	moduleNode := m.First("module")
	def, _ := m.definition()
	if moduleNode == nil || def == nil {
		return nil
	}

	imp := &model.ImportInfo{
		Module:  strings.Trim(nodeText(moduleNode, source), `"'`),
		Symbols: []string{},
		Line:    int(def.StartPosition().Row) + 1,
	}
	imp.IsRelative = strings.HasPrefix(imp.Module, ".")

	if clause := findChildByType(def, "import_clause"); clause != nil {
		for _, part := range namedChildren(clause) {
			switch part.Kind() {
			case "identifier":
				// Default import binds the module's default export.
				imp.Alias = nodeText(part, source)
			case "namespace_import":
				imp.IsWildcard = true
				if id := firstDescendantByType(part, "identifier"); id != nil {
					imp.Alias = nodeText(id, source)
				}
			case "named_imports":
				for _, spec := range namedChildren(part) {
					if spec.Kind() != "import_specifier" {
						continue
					}
					if name := spec.ChildByFieldName("name"); name != nil {
						imp.Symbols = append(imp.Symbols, nodeText(name, source))
					}
				}
			}
		}
	}
	return imp
}

// tsParameters handles required/optional/rest parameters with type
// annotations and default values; a `this` parameter becomes the receiver.
func tsParameters(list *sitter.Node, source []byte) []model.ParameterInfo {
	var params []model.ParameterInfo
	for _, p := range namedChildren(list) {
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
			param := model.ParameterInfo{
				IsOptional: p.Kind() == "optional_parameter",
			}
			pattern := p.ChildByFieldName("pattern")
			if pattern == nil {
				continue
			}
			switch pattern.Kind() {
			case "rest_pattern":
				param.IsVariadic = true
				if id := firstDescendantByType(pattern, "identifier"); id != nil {
					param.Name = nodeText(id, source)
				}
			case "this":
				param.Name = "this"
				param.IsReceiver = true
			default:
				param.Name = nodeText(pattern, source)
			}
			if ann := p.ChildByFieldName("type"); ann != nil {
				if typ := ann.NamedChild(0); typ != nil {
					param.Type = nodeText(typ, source)
				}
			}
			if value := p.ChildByFieldName("value"); value != nil {
				param.DefaultValue = nodeText(value, source)
				param.IsOptional = true
			}
			if param.Name == "" {
				continue
			}
			params = append(params, param)
		case "identifier":
			// Plain JavaScript-style parameter.
			params = append(params, model.ParameterInfo{Name: nodeText(p, source)})
		case "assignment_pattern":
			param := model.ParameterInfo{IsOptional: true}
			if left := p.ChildByFieldName("left"); left != nil {
				param.Name = nodeText(left, source)
			}
			if right := p.ChildByFieldName("right"); right != nil {
				param.DefaultValue = nodeText(right, source)
			}
			params = append(params, param)
		case "rest_pattern":
			param := model.ParameterInfo{IsVariadic: true}
			if id := firstDescendantByType(p, "identifier"); id != nil {
				param.Name = nodeText(id, source)
			}
			params = append(params, param)
		}
	}
	return params
}

// tsVisibility resolves visibility for both TypeScript (modifier node only)
// and JavaScript (underscore and #-field conventions).
func tsVisibility(b *base, lang, name string, nameNode *sitter.Node, modifiers []string) model.Visibility {
	if v, ok := b.visibilityFromTokens(modifiers); ok {
		return v
	}
	if nameNode.Kind() == "private_property_identifier" {
		return model.VisibilityPrivate
	}
	if lang == "javascript" && strings.HasPrefix(name, "_") {
		return model.VisibilityPrivate
	}
	return model.VisibilityPublic
}
