//go:build cgo

package treesitter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/lexer"
	"encrude/internal/source"
	"encrude/internal/token"
	"encrude/internal/trace"
)

// Available reports whether the tree-sitter provider is compiled in.
const Available = true

// Parse builds the tree of file from the tree-sitter C# grammar. Tokens come
// from the regular lexer, so token ranges and spans match the native parser.
func Parse(ctx context.Context, file *source.File, rep diag.Reporter) (*ast.Tree, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "treesitter", trace.CurrentSpan(ctx).SpanID).
		WithExtra("file", file.Path)

	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(csharp.GetLanguage())

	st, err := p.ParseCtx(ctx, nil, file.Content)
	if err != nil {
		span.End("failed")
		return nil, fmt.Errorf("treesitter: %s: %w", file.Path, err)
	}
	defer st.Close()

	toks := lexer.Tokenize(file, lexer.Options{Reporter: rep})
	c := &converter{
		file: file,
		toks: toks[:len(toks)-1],
		eof:  tokenID(len(toks) - 1),
		b:    ast.NewBuilder(file, toks, ast.Hints{}),
		rep:  rep,
	}
	root := st.RootNode()
	tree := c.b.Finish(c.unit(root))
	if root.HasError() && c.errors == 0 {
		c.report(root, diag.SynUnexpectedToken, "syntax error")
	}

	span.End(fmt.Sprintf("tokens=%d nodes=%d errors=%d", len(toks), tree.Len(), c.errors))
	return tree, nil
}

type converter struct {
	file   *source.File
	toks   []token.Token // без EOF
	eof    ast.TokenID
	b      *ast.Builder
	rep    diag.Reporter
	errors int
}

func tokenID(i int) ast.TokenID {
	return ast.TokenID(i + 1) //nolint:gosec // i < len(toks)
}

// tokens maps the byte range of n onto the tokens fully inside it.
func (c *converter) tokens(n *sitter.Node) (first, last ast.TokenID) {
	start, end := n.StartByte(), n.EndByte()
	i := sort.Search(len(c.toks), func(i int) bool { return c.toks[i].Span.Start >= start })
	j := sort.Search(len(c.toks), func(i int) bool { return c.toks[i].Span.End > end }) - 1
	if i > j {
		return ast.NoTokenID, ast.NoTokenID
	}
	return tokenID(i), tokenID(j)
}

func (c *converter) first(n *sitter.Node) ast.TokenID {
	if n == nil {
		return ast.NoTokenID
	}
	f, _ := c.tokens(n)
	return f
}

func (c *converter) last(n *sitter.Node) ast.TokenID {
	if n == nil {
		return ast.NoTokenID
	}
	_, l := c.tokens(n)
	return l
}

func (c *converter) tok(id ast.TokenID) token.Token {
	if !id.IsValid() || int(id) > len(c.toks) {
		return token.Token{}
	}
	return c.toks[id-1]
}

func (c *converter) report(n *sitter.Node, code diag.Code, msg string) {
	c.errors++
	if c.rep == nil {
		return
	}
	sp := source.Span{File: c.file.ID, Start: n.StartByte(), End: n.EndByte()}
	diag.ReportError(c.rep, code, sp, msg).Emit()
}

func (c *converter) missing(n *sitter.Node) {
	what := n.Type()
	code := diag.SynUnexpectedToken
	switch what {
	case ";":
		code = diag.SynExpectSemicolon
	case "}":
		code = diag.SynUnclosedBrace
	case ")":
		code = diag.SynUnclosedParen
	case "]":
		code = diag.SynUnclosedBracket
	case "identifier":
		c.report(n, diag.SynExpectIdentifier, "expected identifier")
		return
	}
	c.report(n, code, "expected '"+what+"'")
}

// same compares two grammar nodes by position and type.
func same(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() &&
		a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func field(n *sitter.Node, names ...string) *sitter.Node {
	for _, name := range names {
		if f := n.ChildByFieldName(name); f != nil {
			return f
		}
	}
	return nil
}

// bodyOf returns the embedded statement of n. lock and fixed carry no body
// field in every grammar version: their statement is the last named child.
func bodyOf(n *sitter.Node) *sitter.Node {
	if body := field(n, "body"); body != nil {
		return body
	}
	for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
		ch := n.NamedChild(i)
		if ch.Type() == "comment" || ignored[ch.Type()] {
			continue
		}
		if strings.HasSuffix(ch.Type(), "_statement") || ch.Type() == "block" {
			return ch
		}
		return nil
	}
	return nil
}

// anon returns the first unnamed child of type typ.
func anon(n *sitter.Node, typ string) *sitter.Node {
	for i := range int(n.ChildCount()) {
		ch := n.Child(i)
		if !ch.IsNamed() && ch.Type() == typ {
			return ch
		}
	}
	return nil
}

func (c *converter) node(kind ast.Kind, n *sitter.Node, kids ...ast.NodeID) ast.NodeID {
	first, last := c.tokens(n)
	if !first.IsValid() {
		if len(kids) == 0 {
			return ast.NoNodeID
		}
		return c.b.New(kind, ast.NoTokenID, ast.NoTokenID, kids...)
	}
	return c.b.New(kind, first, last, kids...)
}

// one converts n expecting a single analyzer node.
func (c *converter) one(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	if ids := c.convert(n); len(ids) > 0 {
		return ids[0]
	}
	return ast.NoNodeID
}

func (c *converter) typeRef(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	first, last := c.tokens(n)
	if !first.IsValid() {
		return ast.NoNodeID
	}
	return c.b.New(ast.KindTypeRef, first, last)
}

// childOpts tune the generic child walk.
type childOpts struct {
	skip []*sitter.Node
	// equals wraps "= value" into an EqualsValue node.
	equals bool
}

func (c *converter) children(n *sitter.Node) []ast.NodeID {
	return c.childrenWith(n, childOpts{})
}

// childrenWith converts named children in source order. Type fields become
// TypeRef, grammar-only wrappers are flattened into the parent.
func (c *converter) childrenWith(n *sitter.Node, opts childOpts) []ast.NodeID {
	typ := field(n, "type")
	returns := field(n, "returns")
	var out []ast.NodeID
	eq := ast.NoTokenID
	for i := range int(n.ChildCount()) {
		ch := n.Child(i)
		if ch.IsMissing() {
			c.missing(ch)
			continue
		}
		if !ch.IsNamed() {
			if opts.equals && ch.Type() == "=" {
				eq = c.first(ch)
			}
			continue
		}
		if skipped(ch, opts.skip) || ignored[ch.Type()] {
			continue
		}
		var ids []ast.NodeID
		if same(ch, typ) || same(ch, returns) {
			ids = []ast.NodeID{c.typeRef(ch)}
		} else {
			ids = c.convert(ch)
		}
		if eq.IsValid() && len(ids) > 0 {
			ids = []ast.NodeID{c.b.New(ast.KindEqualsValue, eq, c.last(ch), ids[0])}
			eq = ast.NoTokenID
		}
		out = append(out, ids...)
	}
	return out
}

func skipped(n *sitter.Node, skip []*sitter.Node) bool {
	for _, s := range skip {
		if same(n, s) {
			return true
		}
	}
	return false
}

// convert maps one grammar node onto zero or more analyzer nodes.
func (c *converter) convert(n *sitter.Node) []ast.NodeID {
	switch {
	case n == nil:
		return nil
	case n.IsMissing():
		c.missing(n)
		return nil
	case n.Type() == "ERROR":
		if first := c.first(n); first.IsValid() {
			c.report(n, diag.SynUnexpectedToken, "unexpected \""+c.tok(first).Text+"\"")
		} else {
			c.report(n, diag.SynUnexpectedToken, "unexpected input")
		}
		return c.children(n)
	}
	if ids, ok := c.special(n); ok {
		return ids
	}
	if kind, ok := leaves[n.Type()]; ok {
		return one(c.node(kind, n))
	}
	if kind, ok := plain[n.Type()]; ok {
		return one(c.node(kind, n, c.children(n)...))
	}
	return c.children(n)
}

func one(id ast.NodeID) []ast.NodeID {
	if !id.IsValid() {
		return nil
	}
	return []ast.NodeID{id}
}

// special handles nodes whose shape needs names, heads, operators or flags.
func (c *converter) special(n *sitter.Node) ([]ast.NodeID, bool) {
	switch n.Type() {
	case "namespace_declaration", "file_scoped_namespace_declaration":
		return one(c.namespace(n)), true
	case "class_declaration", "struct_declaration", "interface_declaration",
		"record_declaration", "record_struct_declaration":
		return one(c.typeDecl(n)), true
	case "enum_declaration":
		return one(c.enumDecl(n)), true
	case "enum_member_declaration":
		h := c.header(n)
		kids := append(h.attrs, c.childrenWith(n, childOpts{skip: []*sitter.Node{field(n, "name")}, equals: true})...)
		id := c.node(ast.KindEnumMember, n, kids...)
		c.name(id, field(n, "name"))
		return one(id), true
	case "delegate_declaration":
		return one(c.delegateDecl(n)), true
	case "field_declaration", "event_field_declaration":
		return one(c.fieldDecl(n)), true
	case "variable_declaration":
		return one(c.b.New(ast.KindVariableDecl, ast.NoTokenID, ast.NoTokenID, c.children(n)...)), true
	case "variable_declarator":
		return one(c.declarator(n)), true
	case "property_declaration", "event_declaration", "indexer_declaration":
		return one(c.property(n)), true
	case "accessor_declaration":
		return one(c.accessor(n)), true
	case "method_declaration", "constructor_declaration", "destructor_declaration",
		"operator_declaration", "conversion_operator_declaration":
		return one(c.method(n)), true
	case "local_function_statement":
		return one(c.localFunction(n)), true
	case "constructor_initializer":
		first, last := c.tokens(n)
		if c.tok(first).Kind == token.Colon {
			first++
		}
		id := c.b.New(ast.KindConstructorInitializer, first, last, c.children(n)...)
		c.b.Node(id).Op = c.tok(first).Kind
		return one(id), true
	case "parameter_list", "bracketed_parameter_list", "argument_list", "bracketed_argument_list":
		return one(c.list(n)), true
	case "parameter":
		return one(c.parameter(n)), true
	case "argument":
		id := c.node(ast.KindArgument, n, c.children(n)...)
		if nc := namedChild(n, "name_colon"); nc != nil && id.IsValid() {
			c.b.Node(id).Name = c.first(nc)
		}
		return one(id), true
	case "local_declaration_statement":
		return one(c.localDecl(n)), true
	case "if_statement":
		return one(c.ifStmt(n)), true
	case "while_statement", "for_statement", "lock_statement", "using_statement",
		"fixed_statement", "switch_statement":
		return one(c.headed(n)), true
	case "do_statement":
		id := c.node(ast.KindDoStmt, n, c.children(n)...)
		if w := anon(n, "while"); w != nil && id.IsValid() {
			c.b.Node(id).Head = ast.TokenRange{First: c.first(w), Last: c.b.Node(id).Last}
		}
		return one(id), true
	case "for_each_statement", "foreach_statement":
		return one(c.forEach(n)), true
	case "switch_section":
		return one(c.switchSection(n)), true
	case "case_switch_label", "case_pattern_switch_label", "default_switch_label":
		var value ast.NodeID
		for i := range int(n.NamedChildCount()) {
			if ch := n.NamedChild(i); ch.Type() != "when_clause" {
				value = c.one(ch)
				break
			}
		}
		return one(c.node(ast.KindCaseLabel, n, value)), true
	case "yield_statement":
		if anon(n, "break") != nil {
			return one(c.node(ast.KindYieldBreakStmt, n)), true
		}
		return one(c.node(ast.KindYieldReturnStmt, n, c.children(n)...)), true
	case "labeled_statement":
		label := n.NamedChild(0)
		id := c.node(ast.KindLabeledStmt, n, c.childrenWith(n, childOpts{skip: []*sitter.Node{label}})...)
		c.name(id, label)
		return one(id), true
	case "goto_statement":
		if anon(n, "case") == nil {
			return one(c.node(ast.KindGotoStmt, n)), true
		}
		return one(c.node(ast.KindGotoStmt, n, c.children(n)...)), true
	case "checked_statement", "checked_expression":
		kind := ast.KindCheckedStmt
		if n.Type() == "checked_expression" {
			kind = ast.KindCheckedExpr
		}
		id := c.node(kind, n, c.children(n)...)
		c.op(id, c.first(n))
		return one(id), true
	case "catch_clause":
		id := c.node(ast.KindCatchClause, n, c.children(n)...)
		if id.IsValid() {
			first := c.first(n)
			c.b.Node(id).Head = ast.TokenRange{First: first, Last: first}
		}
		return one(id), true
	case "catch_declaration":
		name := field(n, "name")
		id := c.node(ast.KindCatchDeclaration, n, c.childrenWith(n, childOpts{skip: []*sitter.Node{name}})...)
		c.name(id, name)
		return one(id), true
	case "binary_expression", "assignment_expression":
		kind := ast.KindBinary
		if n.Type() == "assignment_expression" {
			kind = ast.KindAssignment
		}
		id := c.node(kind, n, c.children(n)...)
		if op := field(n, "operator"); op != nil {
			c.op(id, c.first(op))
		} else if left := field(n, "left"); left != nil {
			c.op(id, c.last(left)+1)
		}
		return one(id), true
	case "prefix_unary_expression":
		id := c.node(ast.KindUnary, n, c.children(n)...)
		c.op(id, c.first(n))
		return one(id), true
	case "postfix_unary_expression":
		id := c.node(ast.KindPostfix, n, c.children(n)...)
		c.op(id, c.last(n))
		return one(id), true
	case "member_access_expression":
		id := c.node(ast.KindMemberAccess, n, c.children(n)...)
		if expr := field(n, "expression"); expr != nil {
			c.op(id, c.last(expr)+1)
		}
		return one(id), true
	case "conditional_access_expression":
		id := c.node(ast.KindMemberAccess, n, c.children(n)...)
		if id.IsValid() {
			c.b.Node(id).Op = token.QuestionDot
		}
		return one(id), true
	case "declaration_expression":
		name := field(n, "name")
		id := c.node(ast.KindDeclarationExpr, n, c.childrenWith(n, childOpts{skip: []*sitter.Node{name}})...)
		c.name(id, name)
		return one(id), true
	case "lambda_expression", "anonymous_method_expression":
		return one(c.lambda(n)), true
	case "from_clause", "let_clause":
		kind := ast.KindFromClause
		if n.Type() == "let_clause" {
			kind = ast.KindLetClause
		}
		name := field(n, "name")
		if name == nil {
			name = namedChild(n, "identifier")
		}
		id := c.node(kind, n, c.childrenWith(n, childOpts{skip: []*sitter.Node{name}})...)
		c.name(id, name)
		return one(id), true
	case "query_continuation":
		name := namedChild(n, "identifier")
		id := c.node(ast.KindQueryContinuation, n, c.childrenWith(n, childOpts{skip: []*sitter.Node{name}})...)
		c.name(id, name)
		return one(id), true
	case "order_by_clause":
		var kids []ast.NodeID
		for i := range int(n.NamedChildCount()) {
			ch := n.NamedChild(i)
			if ch.Type() == "ordering" {
				kids = append(kids, c.convert(ch)...)
				continue
			}
			kids = append(kids, c.node(ast.KindOrdering, ch, c.convert(ch)...))
		}
		return one(c.node(ast.KindOrderByClause, n, kids...)), true
	}
	return nil, false
}

func namedChild(n *sitter.Node, typ string) *sitter.Node {
	for i := range int(n.NamedChildCount()) {
		if ch := n.NamedChild(i); ch.Type() == typ {
			return ch
		}
	}
	return nil
}

func (c *converter) name(id ast.NodeID, n *sitter.Node) {
	if id.IsValid() && n != nil {
		c.b.Node(id).Name = c.first(n)
	}
}

func (c *converter) op(id ast.NodeID, tok ast.TokenID) {
	if id.IsValid() && tok.IsValid() {
		c.b.Node(id).Op = c.tok(tok).Kind
	}
}

// bodyFlags derives HasBody/ExprBody from the converted children.
func (c *converter) bodyFlags(id ast.NodeID) {
	if !id.IsValid() {
		return
	}
	n := c.b.Node(id)
	for _, ch := range n.Children {
		switch c.b.Node(ch).Kind {
		case ast.KindBlock:
			n.Flags |= ast.FlagHasBody
		case ast.KindArrowBody:
			n.Flags |= ast.FlagHasBody | ast.FlagExprBody
		}
	}
}

func (c *converter) unit(root *sitter.Node) ast.NodeID {
	var kids []ast.NodeID
	var scoped ast.NodeID
	for _, id := range c.children(root) {
		// в старых версиях грамматики члены file-scoped namespace идут соседями
		if scoped.IsValid() {
			c.b.Adopt(scoped, id)
			continue
		}
		kids = append(kids, id)
		if n := c.b.Node(id); n.Kind == ast.KindNamespaceDecl && n.Op == token.Semicolon && len(n.Children) == 0 {
			scoped = id
		}
	}
	if len(kids) == 0 {
		return c.b.Missing(ast.KindCompilationUnit, c.eof)
	}
	return c.b.New(ast.KindCompilationUnit, 1, tokenID(len(c.toks)-1), kids...)
}

func (c *converter) namespace(n *sitter.Node) ast.NodeID {
	name := field(n, "name")
	id := c.node(ast.KindNamespaceDecl, n, c.childrenWith(n, childOpts{skip: []*sitter.Node{name}})...)
	if !id.IsValid() {
		return id
	}
	nd := c.b.Node(id)
	nd.Head = ast.TokenRange{First: nd.First, Last: c.last(name)}
	nd.Op = token.LBrace
	if n.Type() == "file_scoped_namespace_declaration" {
		nd.Op = token.Semicolon
	}
	return id
}

// header collects attributes and modifiers in front of a declaration.
type header struct {
	attrs []ast.NodeID
	mods  ast.Modifiers
	head  ast.TokenID // первый токен после атрибутов
}

func (c *converter) header(n *sitter.Node) header {
	var h header
	h.head = c.first(n)
	for i := range int(n.ChildCount()) {
		ch := n.Child(i)
		switch {
		case ch.Type() == "attribute_list":
			h.attrs = append(h.attrs, c.node(ast.KindAttributeList, ch))
			h.head = c.last(ch) + 1
		case ch.Type() == "modifier" || ch.Type() == "parameter_modifier":
			h.mods |= c.modifiers(ch)
		case !ch.IsNamed():
			m, ok := ast.ModifierOf(c.tok(c.first(ch)))
			if !ok {
				return h
			}
			h.mods |= m
		default:
			return h
		}
	}
	return h
}

func (c *converter) modifiers(n *sitter.Node) ast.Modifiers {
	var mods ast.Modifiers
	first, last := c.tokens(n)
	for id := first; id.IsValid() && id <= last; id++ {
		if m, ok := ast.ModifierOf(c.tok(id)); ok {
			mods |= m
		}
	}
	return mods
}

func (c *converter) finish(id ast.NodeID, h header, name ast.TokenID, head ast.TokenRange) ast.NodeID {
	if !id.IsValid() {
		return id
	}
	nd := c.b.Node(id)
	nd.Mods = h.mods
	nd.Name = name
	nd.Head = head
	return id
}

func (c *converter) typeDecl(n *sitter.Node) ast.NodeID {
	h := c.header(n)
	name := field(n, "name")
	kw := ast.NoTokenID
	for _, k := range []string{"class", "struct", "interface", "record"} {
		if a := anon(n, k); a != nil && (!kw.IsValid() || c.first(a) < kw) {
			kw = c.first(a)
		}
	}
	kids := append(h.attrs, c.childrenWith(n, childOpts{skip: []*sitter.Node{name}})...)
	id := c.node(ast.KindTypeDecl, n, kids...)
	if !id.IsValid() {
		return id
	}
	c.b.Node(id).Op = c.tok(kw).Kind
	return c.finish(id, h, c.first(name), ast.TokenRange{First: kw, Last: c.last(name)})
}

func (c *converter) enumDecl(n *sitter.Node) ast.NodeID {
	h := c.header(n)
	name := field(n, "name")
	kw := c.first(anon(n, "enum"))
	kids := append(h.attrs, c.childrenWith(n, childOpts{skip: []*sitter.Node{name}})...)
	id := c.node(ast.KindEnumDecl, n, kids...)
	return c.finish(id, h, c.first(name), ast.TokenRange{First: kw, Last: c.last(name)})
}

func (c *converter) delegateDecl(n *sitter.Node) ast.NodeID {
	h := c.header(n)
	name := field(n, "name")
	kw := c.first(anon(n, "delegate"))
	kids := append(h.attrs, c.childrenWith(n, childOpts{skip: []*sitter.Node{name}})...)
	id := c.node(ast.KindDelegateDecl, n, kids...)
	return c.finish(id, h, c.first(name), ast.TokenRange{First: kw, Last: c.last(name)})
}

func (c *converter) fieldDecl(n *sitter.Node) ast.NodeID {
	h := c.header(n)
	if n.Type() == "event_field_declaration" {
		h.mods |= ast.ModEvent
	}
	kids := append(h.attrs, c.children(n)...)
	id := c.node(ast.KindFieldDecl, n, kids...)
	if !id.IsValid() {
		return id
	}
	var name ast.TokenID
	for _, ch := range c.b.Node(id).Children {
		decl := c.b.Node(ch)
		if decl.Kind != ast.KindVariableDecl {
			continue
		}
		for _, d := range decl.Children {
			dn := c.b.Node(d)
			if dn.Kind != ast.KindVariableDeclarator {
				continue
			}
			if !name.IsValid() {
				name = dn.Name
			}
			if h.mods.Has(ast.ModStatic | ast.ModConst) {
				dn.Flags |= ast.FlagStatic
			}
		}
	}
	return c.finish(id, h, name, ast.TokenRange{})
}

func (c *converter) declarator(n *sitter.Node) ast.NodeID {
	name := field(n, "name")
	if name == nil {
		name = namedChild(n, "identifier")
	}
	kids := c.childrenWith(n, childOpts{skip: []*sitter.Node{name}, equals: true})
	first := c.first(name)
	if !first.IsValid() {
		return c.node(ast.KindVariableDeclarator, n, kids...)
	}
	id := c.b.New(ast.KindVariableDeclarator, first, c.last(n), kids...)
	c.b.Node(id).Name = first
	return id
}

// property, event and indexer declarations share one layout.
func (c *converter) property(n *sitter.Node) ast.NodeID {
	h := c.header(n)
	name := field(n, "name")
	kind := ast.KindPropertyDecl
	var nameTok ast.TokenID
	head := ast.TokenRange{First: h.head}
	switch n.Type() {
	case "event_declaration":
		kind = ast.KindEventDecl
		h.mods |= ast.ModEvent
	case "indexer_declaration":
		kind = ast.KindIndexerDecl
		nameTok = c.first(anon(n, "this"))
		head.Last = c.last(field(n, "parameters"))
	}
	if !nameTok.IsValid() {
		nameTok = c.first(name)
		head.Last = nameTok
	}
	kids := append(h.attrs, c.childrenWith(n, childOpts{skip: []*sitter.Node{name}, equals: true})...)
	id := c.node(kind, n, kids...)
	if !id.IsValid() {
		return id
	}
	for _, ch := range c.b.Node(id).Children {
		switch cn := c.b.Node(ch); cn.Kind {
		case ast.KindArrowBody:
			c.b.Node(id).Flags |= ast.FlagExprBody
		case ast.KindEqualsValue:
			if h.mods.Has(ast.ModStatic) {
				cn.Flags |= ast.FlagStatic
			}
		}
	}
	return c.finish(id, h, nameTok, head)
}

func (c *converter) accessor(n *sitter.Node) ast.NodeID {
	h := c.header(n)
	kw := c.first(field(n, "name"))
	if !kw.IsValid() {
		// ключевое слово: первый токен после атрибутов и модификаторов
		for i := range int(n.ChildCount()) {
			ch := n.Child(i)
			if ch.Type() == "attribute_list" || ch.Type() == "modifier" {
				continue
			}
			if _, isMod := ast.ModifierOf(c.tok(c.first(ch))); isMod && !ch.IsNamed() {
				continue
			}
			kw = c.first(ch)
			break
		}
	}
	kids := append(h.attrs, c.childrenWith(n, childOpts{skip: []*sitter.Node{field(n, "name")}})...)
	id := c.node(ast.KindAccessor, n, kids...)
	c.bodyFlags(id)
	return c.finish(id, h, kw, ast.TokenRange{})
}

// method covers methods, constructors, destructors and operators.
func (c *converter) method(n *sitter.Node) ast.NodeID {
	h := c.header(n)
	name := field(n, "name")
	kind := ast.KindMethodDecl
	nameTok := c.first(name)
	switch n.Type() {
	case "constructor_declaration":
		kind = ast.KindConstructorDecl
	case "destructor_declaration":
		kind = ast.KindDestructorDecl
		if name == nil {
			nameTok = c.first(namedChild(n, "identifier"))
			name = namedChild(n, "identifier")
		}
	case "operator_declaration":
		kind = ast.KindOperatorDecl
		nameTok = c.first(anon(n, "operator")) + 1
	case "conversion_operator_declaration":
		kind = ast.KindOperatorDecl
		nameTok = c.first(field(n, "type"))
	}
	kids := append(h.attrs, c.childrenWith(n, childOpts{skip: []*sitter.Node{name}})...)
	id := c.node(kind, n, kids...)
	c.bodyFlags(id)
	return c.finish(id, h, nameTok, ast.TokenRange{First: h.head, Last: c.last(field(n, "parameters"))})
}

func (c *converter) localFunction(n *sitter.Node) ast.NodeID {
	h := c.header(n)
	name := field(n, "name")
	id := c.node(ast.KindLocalFunctionStmt, n, c.childrenWith(n, childOpts{skip: []*sitter.Node{name}})...)
	c.bodyFlags(id)
	return c.finish(id, h, c.first(name), ast.TokenRange{First: c.first(n), Last: c.last(field(n, "parameters"))})
}

func (c *converter) list(n *sitter.Node) ast.NodeID {
	kind := ast.KindParameterList
	if n.Type() == "argument_list" || n.Type() == "bracketed_argument_list" {
		kind = ast.KindArgumentList
	}
	id := c.node(kind, n, c.children(n)...)
	c.op(id, c.first(n))
	return id
}

func (c *converter) parameter(n *sitter.Node) ast.NodeID {
	h := c.header(n)
	name := field(n, "name")
	if name == nil {
		name = namedChild(n, "identifier")
	}
	kids := append(h.attrs, c.childrenWith(n, childOpts{skip: []*sitter.Node{name}, equals: true})...)
	id := c.node(ast.KindParameter, n, kids...)
	return c.finish(id, h, c.first(name), ast.TokenRange{})
}

func (c *converter) localDecl(n *sitter.Node) ast.NodeID {
	id := c.node(ast.KindLocalDeclStmt, n, c.children(n)...)
	if !id.IsValid() {
		return id
	}
	nd := c.b.Node(id)
	stop := nd.Last
	if decl := namedChild(n, "variable_declaration"); decl != nil {
		stop = c.first(decl)
	}
	for t := nd.First; t < stop; t++ {
		switch c.tok(t).Kind {
		case token.KwUsing:
			nd.Flags |= ast.FlagUsingDecl
		case token.KwConst:
			nd.Mods |= ast.ModConst
		}
	}
	return id
}

// headed builds a statement whose head runs up to its body.
func (c *converter) headed(n *sitter.Node) ast.NodeID {
	id := c.node(plain[n.Type()], n, c.children(n)...)
	if !id.IsValid() {
		return id
	}
	first := c.first(n)
	if body := bodyOf(n); body != nil {
		if bfirst := c.first(body); bfirst > first {
			c.b.Node(id).Head = ast.TokenRange{First: first, Last: bfirst - 1}
		}
	}
	return id
}

func (c *converter) ifStmt(n *sitter.Node) ast.NodeID {
	cond := c.one(field(n, "condition"))
	then := field(n, "consequence")
	thenID := c.one(then)
	var elseID ast.NodeID
	if alt := field(n, "alternative"); alt != nil {
		elseTok := c.last(then) + 1
		if kw := anon(n, "else"); kw != nil {
			elseTok = c.first(kw)
		}
		if body := c.one(alt); body.IsValid() {
			elseID = c.b.New(ast.KindElseClause, elseTok, c.last(alt), body)
		}
	}
	id := c.node(ast.KindIfStmt, n, cond, thenID, elseID)
	if id.IsValid() && then != nil {
		c.b.Node(id).Head = ast.TokenRange{First: c.first(n), Last: c.first(then) - 1}
	}
	return id
}

func (c *converter) forEach(n *sitter.Node) ast.NodeID {
	typ := field(n, "type")
	left := field(n, "left")
	var variable ast.NodeID
	if left != nil {
		vfirst := c.first(left)
		if typ != nil {
			vfirst = c.first(typ)
		}
		variable = c.b.New(ast.KindForEachVariable, vfirst, c.last(left), c.typeRef(typ))
		c.b.Node(variable).Name = c.first(left)
	}
	body := field(n, "body")
	id := c.node(ast.KindForEachStmt, n, variable, c.one(field(n, "right")), c.one(body))
	if id.IsValid() && body != nil {
		c.b.Node(id).Head = ast.TokenRange{First: c.first(n), Last: c.first(body) - 1}
	}
	return id
}

// switchSection accepts both label nodes and bare "case x:" sequences.
func (c *converter) switchSection(n *sitter.Node) ast.NodeID {
	var kids []ast.NodeID
	open := false
	var lfirst ast.TokenID
	var value ast.NodeID
	for i := range int(n.ChildCount()) {
		ch := n.Child(i)
		switch {
		case ch.IsMissing():
			c.missing(ch)
		case !ch.IsNamed() && !open && (ch.Type() == "case" || ch.Type() == "default"):
			open, lfirst, value = true, c.first(ch), ast.NoNodeID
		case !ch.IsNamed() && open && ch.Type() == ":":
			kids = append(kids, c.b.New(ast.KindCaseLabel, lfirst, c.last(ch), value))
			open = false
		case open:
			if ch.IsNamed() && ch.Type() != "when_clause" && !value.IsValid() {
				value = c.one(ch)
			}
		case ch.IsNamed():
			kids = append(kids, c.convert(ch)...)
		}
	}
	return c.b.New(ast.KindSwitchSection, ast.NoTokenID, ast.NoTokenID, kids...)
}

func (c *converter) lambda(n *sitter.Node) ast.NodeID {
	var mods ast.Modifiers
	var params, body ast.NodeID
	kind := ast.KindLambda
	if n.Type() == "anonymous_method_expression" {
		kind = ast.KindAnonymousMethod
	}
	for i := range int(n.ChildCount()) {
		ch := n.Child(i)
		switch {
		case ch.IsMissing():
			c.missing(ch)
		case ch.Type() == "modifier" || !ch.IsNamed():
			if t := c.tok(c.first(ch)); t.Kind == token.KwStatic || t.IsContextual("async") {
				if m, ok := ast.ModifierOf(t); ok {
					mods |= m
				} else {
					mods |= ast.ModAsync
				}
			}
		case ch.Type() == "parameter_list":
			params = c.list(ch)
		case ch.Type() == "identifier" || ch.Type() == "implicit_parameter":
			if params.IsValid() {
				body = c.one(ch)
				continue
			}
			tok := c.first(ch)
			param := c.b.New(ast.KindParameter, tok, tok)
			c.b.Node(param).Name = tok
			params = c.b.New(ast.KindParameterList, tok, tok, param)
		case ignored[ch.Type()] || ch.Type() == "attribute_list":
		default:
			body = c.one(ch)
		}
	}
	id := c.node(kind, n, params, body)
	if !id.IsValid() {
		return id
	}
	nd := c.b.Node(id)
	nd.Mods = mods
	if body.IsValid() && kind == ast.KindLambda {
		if c.b.Node(body).Kind == ast.KindBlock {
			nd.Flags |= ast.FlagHasBody
		} else {
			nd.Flags |= ast.FlagExprBody
		}
	}
	return id
}
