package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/structmap/structmap/internal/model"
)

// goExtractor extracts Go declarations. Visibility follows identifier casing:
// an exported (uppercase) identifier is public, everything else is
// package-private. Go has no visibility keywords at all.
type goExtractor struct {
	base
}

func newGoExtractor() *goExtractor {
	return &goExtractor{base{langConfig{
		name:             "go",
		commentKinds:     map[string]bool{"comment": true},
		genericListKinds: map[string]bool{"type_parameter_list": true},
		docWrapperKinds:  map[string]bool{"type_declaration": true},
	}}}
}

func (e *goExtractor) ClassQuery() string {
	return `
		(type_declaration (type_spec name: (type_identifier) @name) @definition.type)
		(type_declaration (type_alias name: (type_identifier) @name) @definition.type_alias)
	`
}

func (e *goExtractor) MethodQuery() string {
	return `
		(function_declaration name: (identifier) @name) @definition.function
		(method_declaration name: (field_identifier) @name) @definition.method
	`
}

func (e *goExtractor) ImportQuery() string {
	return `(import_spec path: (_) @module) @definition.import`
}

func (e *goExtractor) SymbolFromMatch(m *Match, source []byte, expected model.SymbolKind) *model.SymbolInfo {
	def, tag := m.definition()
	nameNode := m.First("name")
	if def == nil || nameNode == nil {
		return nil
	}
	name := nodeText(nameNode, source)

	sym := &model.SymbolInfo{
		Name:       name,
		Visibility: goVisibility(name),
		Docstring:  e.findDocstring(def, source),
	}

	switch tag {
	case "type":
		spec := firstDescendantByType(def, "type_spec")
		sym.Kind = goTypeKind(spec)
		sym.GenericParams = e.genericParams(spec, source)
		e.position(sym, def)
	case "type_alias":
		sym.Kind = model.KindTypeAlias
		e.position(sym, def)
	case "function", "method":
		sym.Kind = model.KindFunction
		e.position(sym, def)
		if tag == "method" {
			sym.Kind = model.KindMethod
			if recv := e.receiver(def, source); recv != nil {
				sym.Parameters = append(sym.Parameters, *recv)
				sym.ParentName = goBaseTypeName(recv.Type)
			}
		}
		sym.Parameters = append(sym.Parameters, e.parameters(def.ChildByFieldName("parameters"), source)...)
		if result := def.ChildByFieldName("result"); result != nil {
			sym.ReturnType = nodeText(result, source)
		}
		sym.GenericParams = e.genericParams(def, source)
		sym.Signature = BuildSignature(name, sym.Parameters, sym.ReturnType)
	default:
		return nil
	}
	return sym
}

func (e *goExtractor) ImportFromMatch(m *Match, source []byte) *model.ImportInfo {
	moduleNode := m.First("module")
	def, _ := m.definition()
	if moduleNode == nil || def == nil {
		return nil
	}

	imp := &model.ImportInfo{
		Module:  strings.Trim(nodeText(moduleNode, source), "\"`"),
		Symbols: []string{},
		Line:    int(def.StartPosition().Row) + 1,
	}
	if alias := def.ChildByFieldName("name"); alias != nil {
		switch alias.Kind() {
		case "dot":
			// `import . "x"` merges the package's exported names into scope.
			imp.IsWildcard = true
		default:
			imp.Alias = nodeText(alias, source)
		}
	}
	return imp
}

// parameters extracts an ordered parameter list, expanding Go's multi-name
// parameter groups (`a, b int`) into one entry per name.
func (e *goExtractor) parameters(list *sitter.Node, source []byte) []model.ParameterInfo {
	var params []model.ParameterInfo
	for _, decl := range namedChildren(list) {
		variadic := decl.Kind() == "variadic_parameter_declaration"
		if decl.Kind() != "parameter_declaration" && !variadic {
			continue
		}
		typ := nodeText(decl.ChildByFieldName("type"), source)
		names := findChildrenByType(decl, "identifier")
		if len(names) == 0 {
			// Unnamed parameter: fall back to a type-derived name.
			params = append(params, model.ParameterInfo{
				Name:       goBaseTypeName(typ),
				Type:       typ,
				IsVariadic: variadic,
			})
			continue
		}
		for _, n := range names {
			params = append(params, model.ParameterInfo{
				Name:       nodeText(n, source),
				Type:       typ,
				IsVariadic: variadic,
			})
		}
	}
	return params
}

// receiver extracts the method receiver as a receiver-flagged parameter.
func (e *goExtractor) receiver(def *sitter.Node, source []byte) *model.ParameterInfo {
	recvList := def.ChildByFieldName("receiver")
	if recvList == nil {
		return nil
	}
	decl := findChildByType(recvList, "parameter_declaration")
	if decl == nil {
		return nil
	}
	typ := nodeText(decl.ChildByFieldName("type"), source)
	name := goBaseTypeName(typ)
	if id := findChildByType(decl, "identifier"); id != nil {
		name = nodeText(id, source)
	}
	return &model.ParameterInfo{Name: name, Type: typ, IsReceiver: true}
}

// goTypeKind resolves which type construct a type_spec declares.
func goTypeKind(spec *sitter.Node) model.SymbolKind {
	if spec == nil {
		return model.KindTypeAlias
	}
	switch kindOf(spec.ChildByFieldName("type")) {
	case "struct_type":
		return model.KindStruct
	case "interface_type":
		return model.KindInterface
	default:
		return model.KindTypeAlias
	}
}

func kindOf(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Kind()
}

// goVisibility maps identifier casing to visibility: exported identifiers are
// public, unexported ones are package-private.
func goVisibility(name string) model.Visibility {
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(r) {
		return model.VisibilityPublic
	}
	return model.VisibilityPackage
}

// goBaseTypeName strips pointers, generics, and package qualifiers from a
// type expression, leaving the bare type name.
func goBaseTypeName(typ string) string {
	name := strings.TrimPrefix(strings.TrimSpace(typ), "*")
	if i := strings.IndexAny(name, "[("); i > 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}
