package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/structmap/structmap/internal/model"
)

type csharpExtractor struct {
	base
}

func newCSharpExtractor() *csharpExtractor {
	return &csharpExtractor{base{langConfig{
		name: "csharp",
		typeKinds: map[string]model.SymbolKind{
			"class_declaration":     model.KindClass,
			"interface_declaration": model.KindInterface,
			"struct_declaration":    model.KindStruct,
			"enum_declaration":      model.KindEnum,
			"record_declaration":    model.KindClass,
		},
		commentKinds:     map[string]bool{"comment": true},
		modifierKinds:    map[string]bool{"modifier": true},
		genericListKinds: map[string]bool{"type_parameter_list": true},
	}}}
}

func (e *csharpExtractor) ClassQuery() string {
	return `
		(class_declaration name: (identifier) @name) @definition.class
		(interface_declaration name: (identifier) @name) @definition.interface
		(struct_declaration name: (identifier) @name) @definition.struct
		(enum_declaration name: (identifier) @name) @definition.enum
		(record_declaration name: (identifier) @name) @definition.class
	`
}

func (e *csharpExtractor) MethodQuery() string {
	return `
		(method_declaration name: (identifier) @name) @definition.method
		(constructor_declaration name: (identifier) @name) @definition.method
	`
}

func (e *csharpExtractor) ImportQuery() string {
	return `(using_directive) @definition.import`
}

func (e *csharpExtractor) SymbolFromMatch(m *Match, source []byte, expected model.SymbolKind) *model.SymbolInfo {
	def, tag := m.definition()
	nameNode := m.First("name")
	if def == nil || nameNode == nil {
		return nil
	}

	kind, ok := kindByTag[tag]
	if !ok {
		return nil
	}

	modifiers := e.modifierTokens(def, source)
	sym := &model.SymbolInfo{
		Name:          nodeText(nameNode, source),
		Kind:          kind,
		Visibility:    csharpVisibility(modifiers),
		Modifiers:     modifiers,
		ParentName:    e.findParentType(def, source),
		Docstring:     e.findDocstring(def, source),
		GenericParams: e.genericParams(def, source),
	}
	e.position(sym, def)

	if kind == model.KindMethod {
		sym.Parameters = e.parameters(def.ChildByFieldName("parameters"), source)
		sym.ReturnType = nodeText(def.ChildByFieldName("returns"), source)
		if sym.ReturnType == "" {
			sym.ReturnType = nodeText(def.ChildByFieldName("type"), source)
		}
		sym.Signature = BuildSignature(sym.Name, sym.Parameters, sym.ReturnType)
		// Interface members are implicitly public.
		if parent := def.Parent(); parent != nil {
			for p := parent; p != nil; p = p.Parent() {
				if p.Kind() == "interface_declaration" && len(modifiers) == 0 {
					sym.Visibility = model.VisibilityPublic
					break
				}
			}
		}
	}
	return sym
}

func (e *csharpExtractor) ImportFromMatch(m *Match, source []byte) *model.ImportInfo {
	def, _ := m.definition()
	if def == nil {
		return nil
	}

	imp := &model.ImportInfo{
		Symbols: []string{},
		Line:    int(def.StartPosition().Row) + 1,
	}
	for _, c := range namedChildren(def) {
		switch c.Kind() {
		case "identifier", "qualified_name":
			imp.Module = nodeText(c, source)
		case "name_equals":
			imp.Alias = nodeText(c.NamedChild(0), source)
		}
	}
	if imp.Module == "" {
		return nil
	}
	// `using static Ns.Type` pulls the type's members into scope.
	if strings.HasPrefix(nodeText(def, source), "using static") {
		if i := strings.LastIndex(imp.Module, "."); i >= 0 {
			imp.Symbols = []string{imp.Module[i+1:]}
			imp.Module = imp.Module[:i]
		}
	}
	return imp
}

func (e *csharpExtractor) parameters(list *sitter.Node, source []byte) []model.ParameterInfo {
	var params []model.ParameterInfo
	for _, p := range namedChildren(list) {
		switch p.Kind() {
		case "parameter":
		case "parameter_array":
			// `params T[] xs` gets its own node shape.
			params = append(params, model.ParameterInfo{
				Name:       nodeText(findChildByType(p, "identifier"), source),
				Type:       nodeText(findChildByType(p, "array_type"), source),
				IsVariadic: true,
			})
			continue
		default:
			continue
		}
		param := model.ParameterInfo{
			Name: nodeText(p.ChildByFieldName("name"), source),
			Type: nodeText(p.ChildByFieldName("type"), source),
		}
		for _, c := range namedChildren(p) {
			if c.Kind() == "equals_value_clause" {
				param.DefaultValue = nodeText(c.NamedChild(0), source)
				param.IsOptional = true
			}
		}
		eachChild(p, func(c *sitter.Node) {
			if nodeText(c, source) == "params" {
				param.IsVariadic = true
			}
		})
		if param.Name == "" {
			continue
		}
		params = append(params, param)
	}
	return params
}

// csharpVisibility maps C# modifier sets to a visibility, checking the
// two-keyword combinations before the single keywords: `protected internal`
// widens to protected, `private protected` narrows to private.
func csharpVisibility(modifiers []string) model.Visibility {
	has := func(m string) bool {
		for _, mod := range modifiers {
			if mod == m {
				return true
			}
		}
		return false
	}
	switch {
	case has("private") && has("protected"):
		return model.VisibilityPrivate
	case has("protected") && has("internal"):
		return model.VisibilityProtected
	case has("public"):
		return model.VisibilityPublic
	case has("protected"):
		return model.VisibilityProtected
	case has("internal"):
		return model.VisibilityInternal
	case has("private"):
		return model.VisibilityPrivate
	default:
		return model.VisibilityPrivate
	}
}
