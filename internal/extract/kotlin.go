package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/structmap/structmap/internal/model"
)

// kotlinExtractor extracts Kotlin declarations. Everything is public unless a
// visibility modifier says otherwise; `internal` maps to the internal level.
// The Kotlin grammar mostly goes without field names, so conversions scan
// child nodes positionally.
type kotlinExtractor struct {
	base
}

func newKotlinExtractor() *kotlinExtractor {
	return &kotlinExtractor{base{langConfig{
		name: "kotlin",
		visibilityKeywords: map[string]model.Visibility{
			"public":    model.VisibilityPublic,
			"private":   model.VisibilityPrivate,
			"protected": model.VisibilityProtected,
			"internal":  model.VisibilityInternal,
		},
		typeKinds: map[string]model.SymbolKind{
			"class_declaration":  model.KindClass,
			"object_declaration": model.KindClass,
			"companion_object":   model.KindClass,
		},
		commentKinds: map[string]bool{
			"comment":           true,
			"line_comment":      true,
			"multiline_comment": true,
		},
		modifierContainers: map[string]bool{"modifiers": true},
		genericListKinds:   map[string]bool{"type_parameters": true},
	}}}
}

func (e *kotlinExtractor) ClassQuery() string {
	return `
		(class_declaration (type_identifier) @name) @definition.type
		(object_declaration (type_identifier) @name) @definition.class
		(type_alias (type_identifier) @name) @definition.type_alias
	`
}

func (e *kotlinExtractor) MethodQuery() string {
	return `(function_declaration (simple_identifier) @name) @definition.function`
}

func (e *kotlinExtractor) ImportQuery() string {
	return `(import_header (identifier) @module) @definition.import`
}

func (e *kotlinExtractor) SymbolFromMatch(m *Match, source []byte, expected model.SymbolKind) *model.SymbolInfo {
	def, tag := m.definition()
	nameNode := m.First("name")
	if def == nil || nameNode == nil {
		return nil
	}

	modifiers := e.modifierTokens(def, source)
	sym := &model.SymbolInfo{
		Name:          nodeText(nameNode, source),
		Modifiers:     modifiers,
		Visibility:    e.visibility(modifiers),
		ParentName:    e.findParentType(def, source),
		Docstring:     e.findDocstring(def, source),
		GenericParams: e.genericParams(def, source),
	}
	e.position(sym, def)

	switch tag {
	case "type":
		sym.Kind = e.classKind(def, modifiers, source)
	case "class":
		sym.Kind = model.KindClass
	case "type_alias":
		sym.Kind = model.KindTypeAlias
	case "function":
		sym.Kind = model.KindFunction
		if sym.ParentName != "" {
			sym.Kind = model.KindMethod
		}
		sym.Parameters = e.parameters(findChildByType(def, "function_value_parameters"), source)
		sym.ReturnType = e.returnType(def, source)
		sym.Signature = BuildSignature(sym.Name, sym.Parameters, sym.ReturnType)
	default:
		return nil
	}
	return sym
}

func (e *kotlinExtractor) ImportFromMatch(m *Match, source []byte) *model.ImportInfo {
	moduleNode := m.First("module")
	def, _ := m.definition()
	if moduleNode == nil || def == nil {
		return nil
	}

	imp := &model.ImportInfo{
		Module:  nodeText(moduleNode, source),
		Symbols: []string{},
		Line:    int(def.StartPosition().Row) + 1,
	}
	if strings.HasSuffix(strings.TrimSpace(nodeText(def, source)), ".*") {
		imp.IsWildcard = true
	}
	if alias := findChildByType(def, "import_alias"); alias != nil {
		if id := firstDescendantByType(alias, "type_identifier", "simple_identifier"); id != nil {
			imp.Alias = nodeText(id, source)
		}
	}
	return imp
}

// classKind distinguishes `interface`, `enum class`, and plain classes, all
// of which share the class_declaration node.
func (e *kotlinExtractor) classKind(def *sitter.Node, modifiers []string, source []byte) model.SymbolKind {
	hasInterfaceKeyword := false
	eachChild(def, func(child *sitter.Node) {
		if child.Kind() == "interface" {
			hasInterfaceKeyword = true
		}
	})
	if hasInterfaceKeyword {
		return model.KindInterface
	}
	for _, mod := range modifiers {
		if mod == "enum" {
			return model.KindEnum
		}
	}
	return model.KindClass
}

func (e *kotlinExtractor) visibility(modifiers []string) model.Visibility {
	if v, ok := e.visibilityFromTokens(modifiers); ok {
		return v
	}
	return model.VisibilityPublic
}

// parameters walks a function_value_parameters list. The grammar wraps each
// entry differently across versions, so every entry is searched for its
// inner parameter node, a `vararg` modifier, and an `=` default expression.
func (e *kotlinExtractor) parameters(list *sitter.Node, source []byte) []model.ParameterInfo {
	var params []model.ParameterInfo
	for _, entry := range namedChildren(list) {
		p := entry
		if p.Kind() != "parameter" {
			p = firstDescendantByType(entry, "parameter")
		}
		if p == nil {
			continue
		}
		param := model.ParameterInfo{}
		if id := findChildByType(p, "simple_identifier"); id != nil {
			param.Name = nodeText(id, source)
		}
		if typ := lastNamedChildAfterColon(p, source); typ != "" {
			param.Type = typ
		}
		if strings.Contains(nodeText(entry, source), "vararg ") {
			param.IsVariadic = true
		}
		if def := valueAfterEquals(entry, source); def != "" {
			param.DefaultValue = def
			param.IsOptional = true
		}
		if param.Name == "" {
			continue
		}
		params = append(params, param)
	}
	return params
}

// returnType reads the type following the `:` at declaration level, if any.
func (e *kotlinExtractor) returnType(def *sitter.Node, source []byte) string {
	sawColon := false
	ret := ""
	eachChild(def, func(child *sitter.Node) {
		switch {
		case child.Kind() == ":":
			sawColon = true
		case sawColon && ret == "" && child.IsNamed() && child.Kind() != "function_body":
			ret = nodeText(child, source)
		}
	})
	return ret
}

// lastNamedChildAfterColon reads the type annotation of a parameter node.
func lastNamedChildAfterColon(p *sitter.Node, source []byte) string {
	sawColon := false
	typ := ""
	eachChild(p, func(child *sitter.Node) {
		switch {
		case child.Kind() == ":":
			sawColon = true
		case sawColon && child.IsNamed():
			typ = nodeText(child, source)
		}
	})
	return typ
}

// valueAfterEquals reads the default-value expression following `=`, scanning
// the entry node and, for grammars that hoist defaults, its parent list.
func valueAfterEquals(entry *sitter.Node, source []byte) string {
	sawEquals := false
	value := ""
	eachChild(entry, func(child *sitter.Node) {
		switch {
		case child.Kind() == "=":
			sawEquals = true
		case sawEquals && value == "" && child.IsNamed():
			value = nodeText(child, source)
		}
	})
	return value
}
