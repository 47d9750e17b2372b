package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/structmap/structmap/internal/model"
)

type phpExtractor struct {
	base
}

func newPHPExtractor() *phpExtractor {
	return &phpExtractor{base{langConfig{
		name: "php",
		visibilityKeywords: map[string]model.Visibility{
			"public":    model.VisibilityPublic,
			"private":   model.VisibilityPrivate,
			"protected": model.VisibilityProtected,
		},
		typeKinds: map[string]model.SymbolKind{
			"class_declaration":     model.KindClass,
			"interface_declaration": model.KindInterface,
			"trait_declaration":     model.KindTrait,
			"enum_declaration":      model.KindEnum,
		},
		commentKinds: map[string]bool{"comment": true},
		modifierKinds: map[string]bool{
			"visibility_modifier": true,
			"static_modifier":     true,
			"abstract_modifier":   true,
			"final_modifier":      true,
			"readonly_modifier":   true,
		},
	}}}
}

func (e *phpExtractor) ClassQuery() string {
	return `
		(class_declaration name: (name) @name) @definition.class
		(interface_declaration name: (name) @name) @definition.interface
		(trait_declaration name: (name) @name) @definition.trait
		(enum_declaration name: (name) @name) @definition.enum
	`
}

func (e *phpExtractor) MethodQuery() string {
	return `
		(function_definition name: (name) @name) @definition.function
		(method_declaration name: (name) @name) @definition.method
	`
}

func (e *phpExtractor) ImportQuery() string {
	return `(namespace_use_declaration (namespace_use_clause) @clause) @definition.import`
}

func (e *phpExtractor) SymbolFromMatch(m *Match, source []byte, expected model.SymbolKind) *model.SymbolInfo {
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
	visibility, ok := e.visibilityFromTokens(modifiers)
	if !ok {
		visibility = model.VisibilityPublic
	}
	sym := &model.SymbolInfo{
		Name:       nodeText(nameNode, source),
		Kind:       kind,
		Visibility: visibility,
		Modifiers:  modifiers,
		ParentName: e.findParentType(def, source),
		Docstring:  e.findDocstring(def, source),
	}
	e.position(sym, def)

	if kind == model.KindMethod || kind == model.KindFunction {
		sym.Parameters = e.parameters(def.ChildByFieldName("parameters"), source)
		sym.ReturnType = nodeText(def.ChildByFieldName("return_type"), source)
		sym.Signature = BuildSignature(sym.Name, sym.Parameters, sym.ReturnType)
		// Interface methods carry no modifier and are always public.
		for p := def.Parent(); p != nil; p = p.Parent() {
			if p.Kind() == "interface_declaration" {
				sym.Visibility = model.VisibilityPublic
				break
			}
		}
	}
	return sym
}

func (e *phpExtractor) ImportFromMatch(m *Match, source []byte) *model.ImportInfo {
	def, _ := m.definition()
	clause := m.First("clause")
	if def == nil || clause == nil {
		return nil
	}

	imp := &model.ImportInfo{
		Symbols: []string{},
		Line:    int(def.StartPosition().Row) + 1,
	}
	for _, c := range namedChildren(clause) {
		switch c.Kind() {
		case "qualified_name", "name":
			imp.Module = strings.TrimPrefix(nodeText(c, source), `\`)
		case "namespace_aliasing_clause":
			imp.Alias = nodeText(c.NamedChild(0), source)
		}
	}
	if imp.Module == "" {
		return nil
	}
	return imp
}

func (e *phpExtractor) parameters(list *sitter.Node, source []byte) []model.ParameterInfo {
	var params []model.ParameterInfo
	for _, p := range namedChildren(list) {
		param := model.ParameterInfo{}
		switch p.Kind() {
		case "simple_parameter", "property_promotion_parameter":
			param.Name = phpVariableName(p.ChildByFieldName("name"), source)
			param.Type = nodeText(p.ChildByFieldName("type"), source)
			if d := p.ChildByFieldName("default_value"); d != nil {
				param.DefaultValue = nodeText(d, source)
				param.IsOptional = true
			}
		case "variadic_parameter":
			param.Name = phpVariableName(p.ChildByFieldName("name"), source)
			param.Type = nodeText(p.ChildByFieldName("type"), source)
			param.IsVariadic = true
		default:
			continue
		}
		if param.Name == "" {
			continue
		}
		params = append(params, param)
	}
	return params
}

func phpVariableName(node *sitter.Node, source []byte) string {
	return strings.TrimPrefix(nodeText(node, source), "$")
}
