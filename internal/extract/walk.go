package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

// identifierNodeTypes are the node types this package treats as "a bare
// name" when a declaration's grammar doesn't expose a "name" field.
var identifierNodeTypes = map[string]bool{
	"identifier":          true,
	"type_identifier":     true,
	"field_identifier":    true,
	"property_identifier": true,
	"constant":            true, // ruby constant (class) names
}

var todoPattern = regexp.MustCompile(`(?i)\b(TODO|FIXME|XXX)\b.*`)

// File parses source and extracts its symbols, imports, type edges, calls,
// TODOs, and decorators. lang must be one of SupportedLanguages().
func File(lang string, source []byte) (*Result, error) {
	grammar, ok := GrammarForLanguage(lang)
	if !ok {
		return nil, fmt.Errorf("extract: unsupported language %q", lang)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("extract: parse: %w", err)
	}
	defer tree.Close()

	w := &walker{lang: lang, src: source, result: &Result{Language: lang}}
	w.walk(tree.RootNode(), nil)
	return w.result, nil
}

type walker struct {
	lang   string
	src    []byte
	result *Result
	// excludedRanges holds byte spans already accounted for as a
	// declaration name or a call callee, so the identifier scan doesn't
	// also surface them as bare references.
	excludedRanges [][2]int
}

// enclosing tracks the nearest ancestor symbol name, used to attribute call
// references to the function/method they occur in.
type enclosing struct {
	name string
}

func (w *walker) walk(node *sitter.Node, enc *enclosing) {
	if node == nil {
		return
	}
	typ := node.Type()

	if typ == "comment" {
		w.visitComment(node)
	}

	if rule, ok := nodeKinds[w.lang][typ]; ok {
		if sym, ok := w.buildSymbol(node, rule.kind); ok {
			w.result.Symbols = append(w.result.Symbols, sym)
			w.collectTypeEdges(node, sym.Name)
			child := &enclosing{name: sym.Name}
			w.walkChildren(node, child)
			return
		}
	}

	if importNodeKinds[w.lang][typ] {
		w.visitImport(node)
	}

	if callNodeKinds[w.lang] == typ {
		w.visitCall(node, enc)
	} else if identifierNodeTypes[typ] {
		w.visitReference(node, enc)
	}

	w.walkChildren(node, enc)
}

// markExcluded records a byte span the identifier scan should not also
// surface as a reference — the name of a declaration it already attributed
// to a symbol, a call's own callee, or a type edge's target name.
func (w *walker) markExcluded(node *sitter.Node) {
	if node == nil {
		return
	}
	w.excludedRanges = append(w.excludedRanges, [2]int{int(node.StartByte()), int(node.EndByte())})
}

func (w *walker) isExcluded(node *sitter.Node) bool {
	start, end := int(node.StartByte()), int(node.EndByte())
	for _, r := range w.excludedRanges {
		if start >= r[0] && end <= r[1] {
			return true
		}
	}
	return false
}

func (w *walker) walkChildren(node *sitter.Node, enc *enclosing) {
	n := int(node.NamedChildCount())
	for i := 0; i < n; i++ {
		w.walk(node.NamedChild(i), enc)
	}
}

func (w *walker) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(w.src[node.StartByte():node.EndByte()])
}

func (w *walker) buildSymbol(node *sitter.Node, kind string) (Symbol, bool) {
	kind = w.refineKind(node, kind)
	name, nameNode, ok := w.symbolName(node)
	if !ok {
		return Symbol{}, false
	}
	w.markExcluded(nameNode)
	sym := Symbol{
		Kind:       kind,
		Name:       name,
		Exported:   w.isExported(node, name),
		StartByte:  int(node.StartByte()),
		EndByte:    int(node.EndByte()),
		StartLine:  int(node.StartPoint().Row) + 1,
		EndLine:    int(node.EndPoint().Row) + 1,
		Source:     w.text(node),
		DocComment: w.leadingComment(node),
		Decorators: w.leadingDecorators(node),
	}
	return sym, true
}

// refineKind disambiguates grammar nodes whose declared kind depends on an
// inner node — Go's type_spec is the prominent case: "type Foo struct{}"
// and "type Foo interface{}" share the same outer node type.
func (w *walker) refineKind(node *sitter.Node, kind string) string {
	if w.lang != "go" || node.Type() != "type_spec" {
		return kind
	}
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return kind
	}
	switch typeNode.Type() {
	case "struct_type":
		return "struct"
	case "interface_type":
		return "interface"
	default:
		return "type_alias"
	}
}

func (w *walker) symbolName(node *sitter.Node) (string, *sitter.Node, bool) {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return w.text(nameNode), nameNode, true
	}
	// C/C++ function definitions nest their name inside a chain of
	// "declarator" fields (function_declarator, pointer_declarator, ...).
	for decl := node.ChildByFieldName("declarator"); decl != nil; decl = decl.ChildByFieldName("declarator") {
		if identifierNodeTypes[decl.Type()] {
			return w.text(decl), decl, true
		}
	}
	n := int(node.NamedChildCount())
	for i := 0; i < n; i++ {
		c := node.NamedChild(i)
		if identifierNodeTypes[c.Type()] {
			return w.text(c), c, true
		}
	}
	return "", nil, false
}

// leadingComment walks backward over immediately-preceding sibling comment
// nodes and joins them, treating contiguous comments directly above a
// declaration as its docstring (the C-family/Go convention; languages with
// string-literal docstrings, e.g. Python, are handled separately by the
// caller inspecting the symbol body if needed).
func (w *walker) leadingComment(node *sitter.Node) string {
	var lines []string
	prev := node.PrevSibling()
	for prev != nil && prev.Type() == "comment" {
		lines = append([]string{strings.TrimSpace(w.text(prev))}, lines...)
		prev = prev.PrevSibling()
	}
	return strings.Join(lines, "\n")
}

// leadingDecorators collects decorator/annotation siblings immediately
// preceding a declaration (Python @decorator inside a decorated_definition).
// Annotations a grammar nests inside the declaration itself, such as Java's
// modifiers child, are not collected.
func (w *walker) leadingDecorators(node *sitter.Node) []string {
	var out []string
	prev := node.PrevSibling()
	for prev != nil && (strings.Contains(prev.Type(), "decorator") || strings.Contains(prev.Type(), "annotation")) {
		out = append([]string{w.text(prev)}, out...)
		prev = prev.PrevSibling()
	}
	return out
}

func (w *walker) visitComment(node *sitter.Node) {
	text := w.text(node)
	if m := todoPattern.FindString(text); m != "" {
		w.result.TODOs = append(w.result.TODOs, TODO{
			Text: strings.TrimSpace(m),
			Line: int(node.StartPoint().Row) + 1,
		})
	}
}

func (w *walker) visitImport(node *sitter.Node) {
	path := w.importPath(node)
	if path == "" {
		return
	}
	w.result.Imports = append(w.result.Imports, Import{
		Path: path,
		Line: int(node.StartPoint().Row) + 1,
	})
}

func (w *walker) importPath(node *sitter.Node) string {
	// Prefer an explicit "path"/"source"/"name" field; fall back to any
	// string-literal child.
	for _, field := range []string{"path", "source", "name"} {
		if c := node.ChildByFieldName(field); c != nil {
			return unquote(w.text(c))
		}
	}
	n := int(node.NamedChildCount())
	for i := 0; i < n; i++ {
		c := node.NamedChild(i)
		if strings.Contains(c.Type(), "string") {
			return unquote(w.text(c))
		}
	}
	return ""
}

func (w *walker) visitCall(node *sitter.Node, enc *enclosing) {
	var fnNode *sitter.Node
	for _, field := range []string{"function", "method", "name"} {
		if c := node.ChildByFieldName(field); c != nil {
			fnNode = c
			break
		}
	}
	if fnNode == nil {
		return
	}
	w.markExcluded(fnNode)
	name := w.text(fnNode)
	// For member access (pkg.Fn, obj.method()) keep only the trailing
	// identifier — the indexing pipeline resolves by bare name.
	if idx := strings.LastIndexAny(name, ".:"); idx >= 0 {
		name = name[idx+1:]
	}
	within := ""
	if enc != nil {
		within = enc.name
	}
	w.result.Calls = append(w.result.Calls, CallRef{
		CalleeName: name,
		Line:       int(node.StartPoint().Row) + 1,
		WithinName: within,
	})
}

// visitReference records a bare identifier usage that isn't a call callee,
// a declaration's own name, or a type edge's target name — the candidates
// spec.md section 4.3's identifier scan classifies as "reference" rather
// than "call".
func (w *walker) visitReference(node *sitter.Node, enc *enclosing) {
	if w.isExcluded(node) {
		return
	}
	name := w.text(node)
	if name == "" {
		return
	}
	within := ""
	if enc != nil {
		within = enc.name
	}
	w.result.References = append(w.result.References, Reference{
		Name:       name,
		Line:       int(node.StartPoint().Row) + 1,
		WithinName: within,
	})
}

// collectTypeEdges scans a declaration's direct subtree for inheritance
// constructs recognized across the supported grammars: class heritage
// clauses (JS/TS), extends/implements fields (Java), struct/trait impls
// (Rust), and Go interface embedding.
func (w *walker) collectTypeEdges(node *sitter.Node, fromName string) {
	line := int(node.StartPoint().Row) + 1

	if w.lang == "rust" && node.Type() == "impl_item" {
		typeNode := node.ChildByFieldName("type")
		traitNode := node.ChildByFieldName("trait")
		if typeNode != nil && traitNode != nil {
			w.markExcluded(typeNode)
			w.markExcluded(traitNode)
			w.result.TypeEdges = append(w.result.TypeEdges, TypeEdge{
				FromName: w.text(typeNode), ToName: w.text(traitNode), Type: "implements", Line: line,
			})
		}
		return
	}

	if super := node.ChildByFieldName("superclass"); super != nil {
		w.markExcluded(super)
		w.result.TypeEdges = append(w.result.TypeEdges, TypeEdge{
			FromName: fromName, ToName: strings.TrimPrefix(w.text(super), "extends "), Type: "extends", Line: line,
		})
	}
	if ifaces := node.ChildByFieldName("interfaces"); ifaces != nil {
		w.markExcluded(ifaces)
		for _, name := range identifierList(w.text(ifaces)) {
			w.result.TypeEdges = append(w.result.TypeEdges, TypeEdge{
				FromName: fromName, ToName: name, Type: "implements", Line: line,
			})
		}
	}

	n := int(node.NamedChildCount())
	for i := 0; i < n; i++ {
		c := node.NamedChild(i)
		switch c.Type() {
		case "class_heritage", "heritage_clause":
			w.collectHeritage(c, fromName, line)
		case "interface_type":
			// Go embedded-interface members: bare type_identifier children.
			m := int(c.NamedChildCount())
			for j := 0; j < m; j++ {
				field := c.NamedChild(j)
				if field.Type() == "type_identifier" {
					w.markExcluded(field)
					w.result.TypeEdges = append(w.result.TypeEdges, TypeEdge{
						FromName: fromName, ToName: w.text(field), Type: "extends", Line: line,
					})
				}
			}
		}
	}
}

func (w *walker) collectHeritage(node *sitter.Node, fromName string, line int) {
	n := int(node.NamedChildCount())
	for i := 0; i < n; i++ {
		clause := node.NamedChild(i)
		edgeType := "extends"
		if strings.Contains(clause.Type(), "implements") {
			edgeType = "implements"
		}
		m := int(clause.NamedChildCount())
		for j := 0; j < m; j++ {
			id := clause.NamedChild(j)
			if identifierNodeTypes[id.Type()] {
				w.markExcluded(id)
				w.result.TypeEdges = append(w.result.TypeEdges, TypeEdge{
					FromName: fromName, ToName: w.text(id), Type: edgeType, Line: line,
				})
			}
		}
	}
}

func identifierList(s string) []string {
	s = strings.TrimPrefix(s, "implements")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	var out []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// isExported applies each language's actual export/visibility qualifier
// rather than a name-based guess. Go and Python (and, for lack of any
// syntactic marker, PHP and Ruby) use the leading-case/underscore
// convention; every other supported language inspects the declaration
// node's own visibility syntax, mirroring how tree-sitter exposes it: a
// "visibility" field for Rust's `pub`, a "modifiers" child holding a
// "public" token for Java, and an "export_statement" parent for JS/TS. C
// and C++ symbols are free functions/types at file scope with no
// tree-sitter-visible linkage marker, so both are treated as exported.
func (w *walker) isExported(node *sitter.Node, name string) bool {
	if name == "" {
		return false
	}
	switch w.lang {
	case "go":
		return unicode.IsUpper([]rune(name)[0])
	case "python", "php", "ruby":
		return !strings.HasPrefix(name, "_")
	case "rust":
		return w.hasRustVisibility(node)
	case "javascript", "typescript", "tsx":
		parent := node.Parent()
		return parent != nil && parent.Type() == "export_statement"
	case "java":
		return w.hasJavaPublicModifier(node)
	case "c", "cpp":
		return true
	default:
		return !strings.HasPrefix(name, "_")
	}
}

// hasRustVisibility mirrors rustc's own `pub` check: a "visibility" field
// if the grammar exposes one, otherwise a leading "pub " on the
// declaration's own text.
func (w *walker) hasRustVisibility(node *sitter.Node) bool {
	if vis := node.ChildByFieldName("visibility"); vis != nil {
		return strings.HasPrefix(strings.TrimSpace(w.text(vis)), "pub")
	}
	return strings.HasPrefix(strings.TrimSpace(w.text(node)), "pub ")
}

// hasJavaPublicModifier looks for a "public" token inside a "modifiers"
// child. Both are matched across all children, not just named ones, since
// the "public" keyword is an anonymous leaf in the java grammar.
func (w *walker) hasJavaPublicModifier(node *sitter.Node) bool {
	n := int(node.ChildCount())
	for i := 0; i < n; i++ {
		c := node.Child(i)
		if c.Type() != "modifiers" {
			continue
		}
		m := int(c.ChildCount())
		for j := 0; j < m; j++ {
			if c.Child(j).Type() == "public" {
				return true
			}
		}
	}
	return false
}
