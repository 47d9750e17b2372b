package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/structmap/structmap/internal/model"
)

// langConfig carries the per-language knobs the shared default algorithms
// depend on. Every concrete extractor embeds a base configured with one.
type langConfig struct {
	name string

	// visibilityKeywords maps a modifier token to a normalized visibility.
	visibilityKeywords map[string]model.Visibility

	// typeKinds maps node kinds that declare an enclosing type to the symbol
	// kind they produce; used by the upward parent-type walk.
	typeKinds map[string]model.SymbolKind

	// commentKinds are the node kinds the docstring lookup accepts.
	commentKinds map[string]bool

	// modifierContainers are node kinds that group modifier tokens
	// (Java/Kotlin "modifiers", C# has bare "modifier" children instead).
	modifierContainers map[string]bool

	// modifierKinds are node kinds of individual modifier tokens appearing
	// directly under a declaration.
	modifierKinds map[string]bool

	// genericListKinds are node kinds of type-parameter lists.
	genericListKinds map[string]bool

	// docWrapperKinds are wrapper declarations whose preceding siblings
	// carry the doc comment of the inner node (Go's type_declaration,
	// export statements, decorated definitions).
	docWrapperKinds map[string]bool
}

// base provides the shared default algorithms of the extraction contract.
// Languages override behavior by not calling into it, never by subclassing.
type base struct {
	cfg langConfig
}

func (b *base) Language() string { return b.cfg.name }

// position fills the node's line/column range into a symbol. Lines are
// 1-indexed inclusive, columns 0-indexed.
func (b *base) position(sym *model.SymbolInfo, node *sitter.Node) {
	sym.LineStart = int(node.StartPosition().Row) + 1
	sym.LineEnd = int(node.EndPosition().Row) + 1
	sym.ColStart = int(node.StartPosition().Column)
	sym.ColEnd = int(node.EndPosition().Column)
}

// visibilityFromTokens maps the first recognized visibility keyword among the
// given modifier tokens. The second return is false when none matched and the
// language default applies.
func (b *base) visibilityFromTokens(tokens []string) (model.Visibility, bool) {
	for _, tok := range tokens {
		if v, ok := b.cfg.visibilityKeywords[tok]; ok {
			return v, true
		}
	}
	return "", false
}

// modifierNodes collects the modifier nodes attached to a declaration:
// children of any modifier container plus bare modifier children.
func (b *base) modifierNodes(node *sitter.Node) []*sitter.Node {
	var mods []*sitter.Node
	eachChild(node, func(child *sitter.Node) {
		switch {
		case b.cfg.modifierContainers[child.Kind()]:
			eachChild(child, func(tok *sitter.Node) {
				mods = append(mods, tok)
			})
		case b.cfg.modifierKinds[child.Kind()]:
			mods = append(mods, child)
		}
	})
	return mods
}

// modifierTokens renders the declaration's modifiers as source tokens, in
// source order.
func (b *base) modifierTokens(node *sitter.Node, source []byte) []string {
	nodes := b.modifierNodes(node)
	tokens := make([]string, 0, len(nodes))
	for _, n := range nodes {
		tokens = append(tokens, nodeText(n, source))
	}
	return tokens
}

// findParentType walks ancestors until a node matches a type-construct kind
// and reads its name. Returns "" for top-level declarations.
func (b *base) findParentType(node *sitter.Node, source []byte) string {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if _, ok := b.cfg.typeKinds[parent.Kind()]; ok {
			return b.typeName(parent, source)
		}
	}
	return ""
}

// typeName reads the name of a type-construct node: the `name` field when the
// grammar has one, the `type` field for impl-like constructs, otherwise the
// first identifier-looking child.
func (b *base) typeName(node *sitter.Node, source []byte) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return nodeText(name, source)
	}
	if typ := node.ChildByFieldName("type"); typ != nil {
		return nodeText(typ, source)
	}
	if id := findChildByType(node, "type_identifier", "identifier", "constant", "simple_identifier", "name"); id != nil {
		return nodeText(id, source)
	}
	return ""
}

// findDocstring walks preceding siblings collecting the contiguous block of
// comment nodes immediately above the declaration. A gap of more than one
// line, or any non-comment sibling, ends the walk. Wrapper declarations
// (docWrapperKinds) are climbed first so that e.g. a Go doc comment above a
// type_declaration is found for the inner type_spec.
func (b *base) findDocstring(node *sitter.Node, source []byte) string {
	for parent := node.Parent(); parent != nil && b.cfg.docWrapperKinds[parent.Kind()]; parent = parent.Parent() {
		node = parent
	}

	var commentLines []string
	current := node
	for {
		prev := current.PrevSibling()
		if prev == nil {
			break
		}
		if current.StartPosition().Row-prev.EndPosition().Row > 1 {
			break
		}
		if !b.cfg.commentKinds[prev.Kind()] {
			break
		}
		commentLines = append([]string{nodeText(prev, source)}, commentLines...)
		current = prev
	}
	return cleanDocComment(strings.Join(commentLines, "\n"))
}

// genericParams scans the declaration for a type-parameter list and returns
// the declared parameter names in order.
func (b *base) genericParams(node *sitter.Node, source []byte) []string {
	var list *sitter.Node
	eachChild(node, func(child *sitter.Node) {
		if list == nil && b.cfg.genericListKinds[child.Kind()] {
			list = child
		}
	})
	if list == nil {
		if tp := node.ChildByFieldName("type_parameters"); tp != nil {
			list = tp
		}
	}
	if list == nil {
		return nil
	}

	var params []string
	for _, child := range namedChildren(list) {
		if name := typeParamName(child, source); name != "" {
			params = append(params, name)
		}
	}
	return params
}

// typeParamName extracts the bare parameter name from one entry of a
// type-parameter list, dropping bounds and variance annotations.
func typeParamName(node *sitter.Node, source []byte) string {
	switch node.Kind() {
	case "type_identifier", "identifier", "simple_identifier", "lifetime":
		return nodeText(node, source)
	}
	if name := node.ChildByFieldName("name"); name != nil {
		return nodeText(name, source)
	}
	if id := firstDescendantByType(node, "type_identifier", "identifier", "simple_identifier", "lifetime"); id != nil {
		return nodeText(id, source)
	}
	return ""
}

// cleanDocComment strips comment markers and surrounding whitespace from a
// raw comment block.
func cleanDocComment(raw string) string {
	if raw == "" {
		return ""
	}
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "///")
		l = strings.TrimPrefix(l, "//!")
		l = strings.TrimPrefix(l, "//")
		l = strings.TrimPrefix(l, "/**")
		l = strings.TrimPrefix(l, "/*")
		l = strings.TrimSuffix(l, "*/")
		l = strings.TrimPrefix(l, "#")
		l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "*"))
		cleaned = append(cleaned, l)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// BuildSignature renders the canonical `name(p, p: T = d, *rest) -> R`
// signature. Every extractor uses it so formatting never diverges. Receiver
// parameters are excluded.
func BuildSignature(name string, params []model.ParameterInfo, returnType string) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	first := true
	for _, p := range params {
		if p.IsReceiver {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		if p.IsVariadic {
			sb.WriteByte('*')
		}
		sb.WriteString(p.Name)
		if p.Type != "" {
			sb.WriteString(": ")
			sb.WriteString(p.Type)
		}
		if p.DefaultValue != "" {
			sb.WriteString(" = ")
			sb.WriteString(p.DefaultValue)
		}
	}
	sb.WriteByte(')')
	if returnType != "" {
		sb.WriteString(" -> ")
		sb.WriteString(returnType)
	}
	return sb.String()
}
