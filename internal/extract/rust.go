package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/structmap/structmap/internal/model"
)

// rustExtractor extracts Rust declarations. Default visibility is private;
// `pub` and its scoped forms (`pub(crate)`, `pub(super)`, `pub(self)`) widen
// it per the visibility_modifier node.
type rustExtractor struct {
	base
}

func newRustExtractor() *rustExtractor {
	return &rustExtractor{base{langConfig{
		name: "rust",
		typeKinds: map[string]model.SymbolKind{
			"impl_item":  model.KindStruct,
			"trait_item": model.KindTrait,
			"mod_item":   model.KindModule,
		},
		commentKinds: map[string]bool{
			"line_comment":  true,
			"block_comment": true,
		},
		modifierContainers: map[string]bool{"function_modifiers": true},
		modifierKinds:      map[string]bool{"visibility_modifier": true},
		genericListKinds:   map[string]bool{"type_parameters": true},
		docWrapperKinds:    map[string]bool{"attribute_item": true},
	}}}
}

func (e *rustExtractor) ClassQuery() string {
	return `
		(struct_item name: (type_identifier) @name) @definition.struct
		(enum_item name: (type_identifier) @name) @definition.enum
		(trait_item name: (type_identifier) @name) @definition.trait
		(type_item name: (type_identifier) @name) @definition.type_alias
		(mod_item name: (identifier) @name) @definition.module
	`
}

func (e *rustExtractor) MethodQuery() string {
	return `
		(function_item name: (identifier) @name) @definition.function
		(function_signature_item name: (identifier) @name) @definition.function
	`
}

func (e *rustExtractor) ImportQuery() string {
	return `(use_declaration argument: (_) @module) @definition.import`
}

func (e *rustExtractor) SymbolFromMatch(m *Match, source []byte, expected model.SymbolKind) *model.SymbolInfo {
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
		Visibility:    e.visibility(def, source),
		Modifiers:     e.modifierTokens(def, source),
		Docstring:     e.findDocstring(def, source),
		GenericParams: e.genericParams(def, source),
	}
	e.position(sym, def)

	if kind == model.KindFunction {
		if parent := e.findParentType(def, source); parent != "" {
			sym.Kind = model.KindMethod
			sym.ParentName = goBaseTypeName(parent)
		}
		sym.Parameters = e.parameters(def.ChildByFieldName("parameters"), source)
		if ret := def.ChildByFieldName("return_type"); ret != nil {
			sym.ReturnType = nodeText(ret, source)
		}
		sym.Signature = BuildSignature(sym.Name, sym.Parameters, sym.ReturnType)
	}
	return sym
}

func (e *rustExtractor) ImportFromMatch(m *Match, source []byte) *model.ImportInfo {
	arg := m.First("module")
	def, _ := m.definition()
	if arg == nil || def == nil {
		return nil
	}

	imp := &model.ImportInfo{
		Symbols: []string{},
		Line:    int(def.StartPosition().Row) + 1,
	}
	e.useArgument(arg, source, imp)
	if imp.Module == "" {
		return nil
	}
	if strings.HasPrefix(imp.Module, "self") || strings.HasPrefix(imp.Module, "super") || strings.HasPrefix(imp.Module, "crate") {
		imp.IsRelative = true
	}
	return imp
}

// useArgument resolves the argument of a use declaration: plain paths,
// aliases (`use a as b`), braced lists (`use a::{b, c}`), and wildcards
// (`use a::*`).
func (e *rustExtractor) useArgument(arg *sitter.Node, source []byte, imp *model.ImportInfo) {
	switch arg.Kind() {
	case "use_as_clause":
		if path := arg.ChildByFieldName("path"); path != nil {
			imp.Module = nodeText(path, source)
		}
		if alias := arg.ChildByFieldName("alias"); alias != nil {
			imp.Alias = nodeText(alias, source)
		}
	case "scoped_use_list":
		if path := arg.ChildByFieldName("path"); path != nil {
			imp.Module = nodeText(path, source)
		}
		if list := arg.ChildByFieldName("list"); list != nil {
			for _, item := range namedChildren(list) {
				if item.Kind() == "use_as_clause" {
					if path := item.ChildByFieldName("path"); path != nil {
						imp.Symbols = append(imp.Symbols, nodeText(path, source))
					}
					continue
				}
				imp.Symbols = append(imp.Symbols, nodeText(item, source))
			}
		}
	case "use_wildcard":
		imp.IsWildcard = true
		imp.Module = strings.TrimSuffix(strings.TrimSuffix(nodeText(arg, source), "*"), "::")
	default:
		imp.Module = nodeText(arg, source)
	}
}

func (e *rustExtractor) parameters(list *sitter.Node, source []byte) []model.ParameterInfo {
	var params []model.ParameterInfo
	for _, p := range namedChildren(list) {
		switch p.Kind() {
		case "self_parameter":
			// `self`, `&self`, `&mut self` receiver forms.
			params = append(params, model.ParameterInfo{
				Name:       "self",
				Type:       nodeText(p, source),
				IsReceiver: true,
			})
		case "parameter":
			param := model.ParameterInfo{
				Name: nodeText(p.ChildByFieldName("pattern"), source),
				Type: nodeText(p.ChildByFieldName("type"), source),
			}
			params = append(params, param)
		case "variadic_parameter":
			params = append(params, model.ParameterInfo{Name: "...", IsVariadic: true})
		}
	}
	return params
}

// visibility maps the visibility_modifier node, when present, to the
// normalized level. No modifier means private.
func (e *rustExtractor) visibility(def *sitter.Node, source []byte) model.Visibility {
	mod := findChildByType(def, "visibility_modifier")
	if mod == nil {
		return model.VisibilityPrivate
	}
	text := strings.Join(strings.Fields(nodeText(mod, source)), "")
	switch {
	case text == "pub":
		return model.VisibilityPublic
	case text == "pub(crate)", strings.HasPrefix(text, "pub(in"):
		return model.VisibilityInternal
	case text == "pub(super)":
		return model.VisibilityProtected
	case text == "pub(self)":
		return model.VisibilityPrivate
	default:
		return model.VisibilityPublic
	}
}
