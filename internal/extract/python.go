package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/structmap/structmap/internal/model"
)

type pythonExtractor struct {
	base
}

func newPythonExtractor() *pythonExtractor {
	return &pythonExtractor{base{langConfig{
		name: "python",
		typeKinds: map[string]model.SymbolKind{
			"class_definition": model.KindClass,
		},
		commentKinds:     map[string]bool{"comment": true},
		docWrapperKinds:  map[string]bool{"decorated_definition": true},
		genericListKinds: map[string]bool{"type_parameter": true},
	}}}
}

func (e *pythonExtractor) ClassQuery() string {
	return `(class_definition name: (identifier) @name) @definition.class`
}

func (e *pythonExtractor) MethodQuery() string {
	return `(function_definition name: (identifier) @name) @definition.function`
}

func (e *pythonExtractor) ImportQuery() string {
	return `
		(import_statement) @definition.import
		(import_from_statement) @definition.import
	`
}

func (e *pythonExtractor) SymbolFromMatch(m *Match, source []byte, expected model.SymbolKind) *model.SymbolInfo {
	def, tag := m.definition()
	nameNode := m.First("name")
	if def == nil || nameNode == nil {
		return nil
	}

	kind, ok := kindByTag[tag]
	if !ok {
		return nil
	}

	sym := &model.SymbolInfo{
		Name:          nodeText(nameNode, source),
		Kind:          kind,
		ParentName:    e.findParentType(def, source),
		GenericParams: e.genericParams(def, source),
		Modifiers:     pythonDecorators(def, source),
	}
	sym.Visibility = pythonVisibility(sym.Name)
	e.position(sym, def)

	// A def's docstring is the first string expression of its body, the
	// comment-scan fallback only covers module-level prose.
	if doc := pythonDocstring(def, source); doc != "" {
		sym.Docstring = doc
	} else {
		sym.Docstring = e.findDocstring(def, source)
	}

	if kind == model.KindFunction {
		if sym.ParentName != "" {
			sym.Kind = model.KindMethod
		}
		sym.Parameters = e.parameters(def.ChildByFieldName("parameters"), source)
		sym.ReturnType = nodeText(def.ChildByFieldName("return_type"), source)
		sym.Signature = BuildSignature(sym.Name, sym.Parameters, sym.ReturnType)
	}
	return sym
}

func (e *pythonExtractor) ImportFromMatch(m *Match, source []byte) *model.ImportInfo {
	def, _ := m.definition()
	if def == nil {
		return nil
	}

	imp := &model.ImportInfo{
		Symbols: []string{},
		Line:    int(def.StartPosition().Row) + 1,
	}

	if def.Kind() == "import_statement" {
		name := def.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		if name.Kind() == "aliased_import" {
			imp.Module = nodeText(name.ChildByFieldName("name"), source)
			imp.Alias = nodeText(name.ChildByFieldName("alias"), source)
		} else {
			imp.Module = nodeText(name, source)
		}
		return imp
	}

	module := def.ChildByFieldName("module_name")
	if module == nil {
		return nil
	}
	imp.Module = nodeText(module, source)
	imp.IsRelative = module.Kind() == "relative_import"

	for _, c := range namedChildren(def) {
		switch c.Kind() {
		case "wildcard_import":
			imp.IsWildcard = true
		case "dotted_name":
			if c.StartByte() > module.EndByte() {
				imp.Symbols = append(imp.Symbols, nodeText(c, source))
			}
		case "aliased_import":
			imp.Symbols = append(imp.Symbols, nodeText(c.ChildByFieldName("name"), source))
		}
	}
	return imp
}

func (e *pythonExtractor) parameters(list *sitter.Node, source []byte) []model.ParameterInfo {
	var params []model.ParameterInfo
	for i, p := range namedChildren(list) {
		param := model.ParameterInfo{}
		switch p.Kind() {
		case "identifier":
			param.Name = nodeText(p, source)
		case "typed_parameter":
			param.Name = nodeText(p.NamedChild(0), source)
			param.Type = nodeText(p.ChildByFieldName("type"), source)
		case "default_parameter":
			param.Name = nodeText(p.ChildByFieldName("name"), source)
			param.DefaultValue = nodeText(p.ChildByFieldName("value"), source)
			param.IsOptional = true
		case "typed_default_parameter":
			param.Name = nodeText(p.ChildByFieldName("name"), source)
			param.Type = nodeText(p.ChildByFieldName("type"), source)
			param.DefaultValue = nodeText(p.ChildByFieldName("value"), source)
			param.IsOptional = true
		case "list_splat_pattern":
			param.Name = nodeText(p.NamedChild(0), source)
			param.IsVariadic = true
		case "dictionary_splat_pattern":
			param.Name = "**" + nodeText(p.NamedChild(0), source)
			param.IsVariadic = true
		default:
			continue
		}
		if param.Name == "" {
			continue
		}
		if i == 0 && (param.Name == "self" || param.Name == "cls") {
			param.IsReceiver = true
		}
		params = append(params, param)
	}
	return params
}

func pythonVisibility(name string) model.Visibility {
	// Dunder names are protocol hooks, not hidden members.
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return model.VisibilityPublic
	}
	if strings.HasPrefix(name, "_") {
		return model.VisibilityPrivate
	}
	return model.VisibilityPublic
}

func pythonDecorators(def *sitter.Node, source []byte) []string {
	parent := def.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return nil
	}
	var decorators []string
	for _, c := range namedChildren(parent) {
		if c.Kind() == "decorator" {
			decorators = append(decorators, nodeText(c, source))
		}
	}
	return decorators
}

func pythonDocstring(def *sitter.Node, source []byte) string {
	body := def.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Kind() != "string" {
		return ""
	}
	text := nodeText(str, source)
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(text, q) && strings.HasSuffix(text, q) && len(text) >= 2*len(q) {
			return strings.TrimSpace(text[len(q) : len(text)-len(q)])
		}
	}
	return strings.TrimSpace(text)
}
