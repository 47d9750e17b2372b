package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/structmap/structmap/internal/model"
)

// javaExtractor extracts Java declarations. Default visibility with no
// modifier is package-private, except for interface and annotation members,
// which the language makes implicitly public.
type javaExtractor struct {
	base
}

func newJavaExtractor() *javaExtractor {
	return &javaExtractor{base{langConfig{
		name: "java",
		visibilityKeywords: map[string]model.Visibility{
			"public":    model.VisibilityPublic,
			"private":   model.VisibilityPrivate,
			"protected": model.VisibilityProtected,
		},
		typeKinds: map[string]model.SymbolKind{
			"class_declaration":           model.KindClass,
			"interface_declaration":       model.KindInterface,
			"enum_declaration":            model.KindEnum,
			"record_declaration":          model.KindClass,
			"annotation_type_declaration": model.KindInterface,
		},
		commentKinds: map[string]bool{
			"line_comment":  true,
			"block_comment": true,
		},
		modifierContainers: map[string]bool{"modifiers": true},
		genericListKinds:   map[string]bool{"type_parameters": true},
	}}}
}

func (e *javaExtractor) ClassQuery() string {
	return `
		(class_declaration name: (identifier) @name) @definition.class
		(interface_declaration name: (identifier) @name) @definition.interface
		(enum_declaration name: (identifier) @name) @definition.enum
		(record_declaration name: (identifier) @name) @definition.class
		(annotation_type_declaration name: (identifier) @name) @definition.interface
	`
}

func (e *javaExtractor) MethodQuery() string {
	return `
		(method_declaration name: (identifier) @name) @definition.method
		(constructor_declaration name: (identifier) @name) @definition.method
	`
}

func (e *javaExtractor) ImportQuery() string {
	return `
		(import_declaration (scoped_identifier) @module) @definition.import
		(import_declaration (identifier) @module) @definition.import
	`
}

func (e *javaExtractor) SymbolFromMatch(m *Match, source []byte, expected model.SymbolKind) *model.SymbolInfo {
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
		Visibility:    e.visibility(def, modifiers),
		Modifiers:     modifiers,
		ParentName:    e.findParentType(def, source),
		Docstring:     e.findDocstring(def, source),
		GenericParams: e.genericParams(def, source),
	}
	e.position(sym, def)

	if kind == model.KindMethod {
		sym.Parameters = e.parameters(def.ChildByFieldName("parameters"), source)
		if ret := def.ChildByFieldName("type"); ret != nil {
			sym.ReturnType = nodeText(ret, source)
		}
		sym.Signature = BuildSignature(sym.Name, sym.Parameters, sym.ReturnType)
	}
	return sym
}

func (e *javaExtractor) ImportFromMatch(m *Match, source []byte) *model.ImportInfo {
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
	if findChildByType(def, "asterisk") != nil {
		imp.IsWildcard = true
	}
	if findChildByType(def, "static") != nil {
		// `import static a.b.C.max` imports one member of a.b.C.
		if i := strings.LastIndex(imp.Module, "."); i > 0 && !imp.IsWildcard {
			imp.Symbols = []string{imp.Module[i+1:]}
			imp.Module = imp.Module[:i]
		}
	}
	return imp
}

func (e *javaExtractor) parameters(list *sitter.Node, source []byte) []model.ParameterInfo {
	var params []model.ParameterInfo
	for _, p := range namedChildren(list) {
		switch p.Kind() {
		case "formal_parameter":
			params = append(params, model.ParameterInfo{
				Name: nodeText(p.ChildByFieldName("name"), source),
				Type: nodeText(p.ChildByFieldName("type"), source),
			})
		case "spread_parameter":
			// `String... args`
			param := model.ParameterInfo{IsVariadic: true}
			if decl := findChildByType(p, "variable_declarator"); decl != nil {
				param.Name = nodeText(decl.ChildByFieldName("name"), source)
			}
			if typ := p.NamedChild(0); typ != nil && typ.Kind() != "variable_declarator" {
				param.Type = nodeText(typ, source)
			}
			params = append(params, param)
		}
	}
	return params
}

// visibility applies the keyword table, falling back to Java's
// construct-sensitive defaults.
func (e *javaExtractor) visibility(def *sitter.Node, modifiers []string) model.Visibility {
	if v, ok := e.visibilityFromTokens(modifiers); ok {
		return v
	}
	for parent := def.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.Kind() {
		case "interface_declaration", "annotation_type_declaration":
			return model.VisibilityPublic
		case "class_declaration", "enum_declaration", "record_declaration":
			return model.VisibilityPackage
		}
	}
	return model.VisibilityPackage
}
