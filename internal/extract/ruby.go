package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/structmap/structmap/internal/model"
)

// rubyExtractor extracts Ruby declarations. Visibility is control flow, not
// syntax: a bare `private`/`protected`/`public` call changes the visibility
// of every method that follows it in the same body, so resolution scans
// preceding siblings instead of modifier nodes.
type rubyExtractor struct {
	base
}

func newRubyExtractor() *rubyExtractor {
	return &rubyExtractor{base{langConfig{
		name: "ruby",
		typeKinds: map[string]model.SymbolKind{
			"class":           model.KindClass,
			"module":          model.KindModule,
			"singleton_class": model.KindClass,
		},
		commentKinds: map[string]bool{"comment": true},
	}}}
}

func (e *rubyExtractor) ClassQuery() string {
	return `
		(class name: (constant) @name) @definition.class
		(module name: (constant) @name) @definition.module
	`
}

func (e *rubyExtractor) MethodQuery() string {
	return `
		(method name: (identifier) @name) @definition.method
		(singleton_method name: (identifier) @name) @definition.method
	`
}

func (e *rubyExtractor) ImportQuery() string {
	return `(call method: (identifier) @require arguments: (argument_list (string) @module)) @definition.import`
}

func (e *rubyExtractor) SymbolFromMatch(m *Match, source []byte, expected model.SymbolKind) *model.SymbolInfo {
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
		Name:       nodeText(nameNode, source),
		Kind:       kind,
		Visibility: model.VisibilityPublic,
		ParentName: e.findParentType(def, source),
		Docstring:  e.findDocstring(def, source),
	}
	e.position(sym, def)

	if kind == model.KindMethod {
		if sym.ParentName == "" {
			sym.Kind = model.KindFunction
		}
		sym.Visibility = e.methodVisibility(def, source)
		if def.Kind() == "singleton_method" {
			sym.Modifiers = []string{"self"}
		}
		sym.Parameters = e.parameters(def.ChildByFieldName("parameters"), source)
		sym.Signature = BuildSignature(sym.Name, sym.Parameters, "")
	}
	return sym
}

func (e *rubyExtractor) ImportFromMatch(m *Match, source []byte) *model.ImportInfo {
	def, _ := m.definition()
	moduleNode := m.First("module")
	methodNode := m.First("require")
	if def == nil || moduleNode == nil || methodNode == nil {
		return nil
	}

	method := nodeText(methodNode, source)
	switch method {
	case "require", "require_relative", "load":
	default:
		// Any other call is a benign non-match.
		return nil
	}

	module := strings.Trim(nodeText(moduleNode, source), `"'`)
	return &model.ImportInfo{
		Module:     module,
		Symbols:    []string{},
		Line:       int(def.StartPosition().Row) + 1,
		IsRelative: method == "require_relative" || strings.HasPrefix(module, "."),
	}
}

func (e *rubyExtractor) parameters(list *sitter.Node, source []byte) []model.ParameterInfo {
	var params []model.ParameterInfo
	for _, p := range namedChildren(list) {
		param := model.ParameterInfo{}
		switch p.Kind() {
		case "identifier":
			param.Name = nodeText(p, source)
		case "optional_parameter":
			param.Name = nodeText(p.ChildByFieldName("name"), source)
			param.DefaultValue = nodeText(p.ChildByFieldName("value"), source)
			param.IsOptional = true
		case "keyword_parameter":
			param.Name = nodeText(p.ChildByFieldName("name"), source) + ":"
			if value := p.ChildByFieldName("value"); value != nil {
				param.DefaultValue = nodeText(value, source)
				param.IsOptional = true
			}
		case "splat_parameter":
			param.IsVariadic = true
			param.Name = "args"
			if name := p.ChildByFieldName("name"); name != nil {
				param.Name = nodeText(name, source)
			}
		case "hash_splat_parameter":
			param.IsVariadic = true
			param.Name = "**kwargs"
			if name := p.ChildByFieldName("name"); name != nil {
				param.Name = "**" + nodeText(name, source)
			}
		case "block_parameter":
			param.Name = "&block"
			if name := p.ChildByFieldName("name"); name != nil {
				param.Name = "&" + nodeText(name, source)
			}
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

// methodVisibility resolves the Ruby visibility mode in effect at a method
// definition: the nearest preceding bare modifier call wins, and a
// `private def foo` wrapper or `private :foo` argument form targets the
// method directly.
func (e *rubyExtractor) methodVisibility(def *sitter.Node, source []byte) model.Visibility {
	// `private def foo; end` parses as a call with the method as argument.
	for parent := def.Parent(); parent != nil; parent = parent.Parent() {
		if parent.Kind() != "call" {
			if parent.Kind() == "argument_list" {
				continue
			}
			break
		}
		if m := parent.ChildByFieldName("method"); m != nil {
			if v, ok := rubyVisibilityKeyword(nodeText(m, source)); ok {
				return v
			}
		}
		break
	}

	name := nodeText(def.ChildByFieldName("name"), source)

	// `private :foo` targets the method by name from anywhere in the body,
	// most commonly below the definition.
	if v, ok := e.namedVisibilityCall(def, name, source); ok {
		return v
	}

	for prev := def.PrevNamedSibling(); prev != nil; prev = prev.PrevNamedSibling() {
		switch prev.Kind() {
		case "identifier":
			// Bare `private` switches the mode for everything below it.
			if v, ok := rubyVisibilityKeyword(nodeText(prev, source)); ok {
				return v
			}
		case "call":
			m := prev.ChildByFieldName("method")
			if m == nil {
				continue
			}
			v, ok := rubyVisibilityKeyword(nodeText(m, source))
			if !ok {
				continue
			}
			// A visibility call with arguments names specific methods and
			// does not change the ambient mode.
			if prev.ChildByFieldName("arguments") == nil {
				return v
			}
		}
	}
	return model.VisibilityPublic
}

// namedVisibilityCall scans the sibling statements for a visibility call
// whose arguments name this method, e.g. `private :recalc`.
func (e *rubyExtractor) namedVisibilityCall(def *sitter.Node, name string, source []byte) (model.Visibility, bool) {
	scan := func(step func(*sitter.Node) *sitter.Node) (model.Visibility, bool) {
		for sib := step(def); sib != nil; sib = step(sib) {
			if sib.Kind() != "call" {
				continue
			}
			m := sib.ChildByFieldName("method")
			if m == nil {
				continue
			}
			v, ok := rubyVisibilityKeyword(nodeText(m, source))
			if !ok {
				continue
			}
			args := sib.ChildByFieldName("arguments")
			if args != nil && strings.Contains(nodeText(args, source), ":"+name) {
				return v, true
			}
		}
		return "", false
	}

	if v, ok := scan((*sitter.Node).PrevNamedSibling); ok {
		return v, true
	}
	return scan((*sitter.Node).NextNamedSibling)
}

func rubyVisibilityKeyword(text string) (model.Visibility, bool) {
	switch text {
	case "private":
		return model.VisibilityPrivate, true
	case "protected":
		return model.VisibilityProtected, true
	case "public":
		return model.VisibilityPublic, true
	default:
		return "", false
	}
}
