package match

import (
	"context"
	"errors"
	"strings"
	"testing"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/parser"
	"encrude/internal/source"
)

func parseTree(t *testing.T, fs *source.FileSet, name, src string) *ast.Tree {
	t.Helper()
	file := fs.Get(fs.AddVirtual(name, []byte(src)))
	bag := diag.NewBag(20)
	res := parser.ParseFile(context.Background(), file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Errorf("%s: %s", name, d.Message)
		}
		t.FailNow()
	}
	return res.Tree
}

func matchPair(t *testing.T, before, after string) *Match {
	t.Helper()
	fs := source.NewFileSet()
	m := Trees(context.Background(), parseTree(t, fs, "before.cs", before), parseTree(t, fs, "after.cs", after))
	if err := m.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	return m
}

// spanOf returns the span of the n-th occurrence of needle.
func spanOf(t *testing.T, tree *ast.Tree, needle string, n int) source.Span {
	t.Helper()
	text := string(tree.File.Content)
	off := 0
	for i := 0; ; i++ {
		idx := strings.Index(text[off:], needle)
		if idx < 0 {
			t.Fatalf("%q occurrence %d not found", needle, n)
		}
		if i == n {
			start := uint32(off + idx)
			return source.Span{File: tree.File.ID, Start: start, End: start + uint32(len(needle))}
		}
		off += idx + 1
	}
}

// nodeByText finds the first node of the given kind whose text is exactly text.
func nodeByText(t *testing.T, tree *ast.Tree, kind ast.Kind, text string) ast.NodeID {
	t.Helper()
	for _, id := range tree.Preorder(tree.Root) {
		if tree.Kind(id) == kind && tree.Text(id) == text {
			return id
		}
	}
	t.Fatalf("no %s node %q", kind, text)
	return ast.NoNodeID
}

func TestTreesIdentical(t *testing.T) {
	src := `class C { int f = 1; void M(int a) { if (a > 0) { F(a); } else return; } }`
	m := matchPair(t, src, src)
	if n := len(m.Before.Preorder(m.Before.Root)); m.Len() != n {
		t.Fatalf("matched %d of %d nodes", m.Len(), n)
	}
	if edits := m.Edits(); len(edits) != 0 {
		t.Fatalf("identical trees produced %d edits", len(edits))
	}
}

func TestTreesRecoversWrappedStatement(t *testing.T) {
	m := matchPair(t,
		`class C { void M() { F(); G(); } }`,
		`class C { void M() { while (true) { F(); } G(); } }`)
	b := nodeByText(t, m.Before, ast.KindExprStmt, "F();")
	a, ok := m.Partner(b)
	if !ok {
		t.Fatalf("F(); left unmatched")
	}
	if m.After.Kind(m.After.Parent(m.After.Parent(a))) != ast.KindWhileStmt {
		t.Fatalf("F(); matched outside the new loop")
	}
	if back, _ := m.Reverse(a); back != b {
		t.Fatalf("reverse mapping broken")
	}
}

func TestTreesKeepsRemovedClosureUnmatched(t *testing.T) {
	m := matchPair(t,
		`class C { void M() { var s = from a in b orderby a.x select a; } }`,
		`class C { void M() { var s = from a in b select a.bar; } }`)
	b := nodeByText(t, m.Before, ast.KindMemberAccess, "a.x")
	if a, ok := m.Partner(b); ok {
		t.Fatalf("key of a removed orderby clause paired with %q", m.After.Text(a))
	}
}

func TestTreesAlignsByKindInGaps(t *testing.T) {
	m := matchPair(t,
		`class C { void M() { A(); B(); C(); } }`,
		`class C { void M() { A(); X(1); C(); } }`)
	b := nodeByText(t, m.Before, ast.KindExprStmt, "B();")
	a, ok := m.Partner(b)
	if !ok || m.After.Text(a) != "X(1);" {
		t.Fatalf("B(); paired with %q (ok=%v)", m.After.Text(a), ok)
	}
}

func TestVerifyDetectsBrokenMapping(t *testing.T) {
	m := matchPair(t, `class C { }`, `class C { }`)
	typ := m.Before.Children(m.Before.Root)[0]
	m.fwd[typ] = m.After.Root
	err := m.Verify()
	if !errors.Is(err, ErrInconsistent) {
		t.Fatalf("expected ErrInconsistent, got %v", err)
	}
}

func TestEditsInsertUpdateReorder(t *testing.T) {
	m := matchPair(t,
		`class C { int a; int b; void M() { F(); } }`,
		`class C { int b; int a; void M() { G(); H(); } }`)
	var got []string
	for _, e := range m.Edits() {
		switch e.Kind {
		case EditInsert:
			got = append(got, "insert "+m.After.Text(e.After))
		case EditReorder:
			got = append(got, "reorder "+m.Before.Text(e.Before))
		case EditUpdate:
			got = append(got, "update "+m.Before.Text(e.Before)+" -> "+m.After.Text(e.After))
		}
	}
	want := []string{"reorder int b;", "update F -> G", "insert H();"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("edits\n got: %v\nwant: %v", got, want)
	}
}

func TestLocate(t *testing.T) {
	src := `class C
{
    public C() : base(1) { }
    void M()
    {
        int a = 1, b = 2;
        while (x)
        {
            F(1);
        }
        do { G(); } while (y);
    }
}`
	fs := source.NewFileSet()
	tree := parseTree(t, fs, "a.cs", src)
	tests := []struct {
		needle string
		nth    int
		kind   ast.Kind
		part   Part
	}{
		{"base(1)", 0, ast.KindConstructorInitializer, PartWhole},
		{"public C()", 0, ast.KindConstructorDecl, PartHead},
		{"int a = 1", 0, ast.KindVariableDeclarator, PartTyped},
		{"b = 2", 0, ast.KindVariableDeclarator, PartWhole},
		{"while (x)", 0, ast.KindWhileStmt, PartHead},
		{"F(1);", 0, ast.KindExprStmt, PartWhole},
		{"F(1)", 0, ast.KindInvocation, PartWhole},
		{"while (y);", 0, ast.KindDoStmt, PartHead},
		{"x)", 0, ast.KindWhileStmt, PartHead},
		{"{", 3, ast.KindBlock, PartOpen},
		{"}", 1, ast.KindBlock, PartClose},
	}
	for _, tt := range tests {
		t.Run(tt.needle, func(t *testing.T) {
			sp := spanOf(t, tree, tt.needle, tt.nth)
			site, ok := Locate(tree, sp)
			if !ok {
				t.Fatalf("unresolved")
			}
			if k := tree.Kind(site.Node); k != tt.kind || site.Part != tt.part {
				t.Fatalf("got %s/%s, want %s/%s", k, site.Part, tt.kind, tt.part)
			}
		})
	}
	if _, ok := Locate(tree, spanOf(t, tree, "class C", 0)); ok {
		t.Fatalf("type header must not resolve to a site")
	}
}

func TestTrack(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		site   string
		check  func(t *testing.T, m *Match, tr Tracking)
	}{
		{
			name:   "wrapped statement survives",
			before: `class C { void M() { F(); } }`,
			after:  `class C { void M() { while (true) { F(); } } }`,
			site:   "F();",
			check: func(t *testing.T, m *Match, tr Tracking) {
				if !tr.Survived() || m.After.File.Text(tr.Anchor) != "F();" {
					t.Fatalf("tracking %+v", tr)
				}
			},
		},
		{
			name:   "deleted statement resolves to block",
			before: `class C { void M() { F(); G(); } }`,
			after:  `class C { void M() { G(); } }`,
			site:   "F();",
			check: func(t *testing.T, m *Match, tr Tracking) {
				if !tr.Deleted || tr.MemberDeleted || m.After.File.Text(tr.Anchor) != "{" {
					t.Fatalf("tracking %+v anchor %q", tr, m.After.File.Text(tr.Anchor))
				}
			},
		},
		{
			name:   "removed lambda",
			before: `class C { void M() { Func<int, Func<int, int>> f = a => { return b => { return b; }; }; } }`,
			after:  `class C { void M() { Func<int, int> f = b => { return b; }; } }`,
			site:   "return b;",
			check: func(t *testing.T, m *Match, tr Tracking) {
				if !tr.Deleted || m.Before.Kind(tr.RemovedClosure) != ast.KindLambda {
					t.Fatalf("tracking %+v", tr)
				}
				if got := m.After.File.Text(tr.Anchor); got != "return b;" {
					t.Fatalf("anchor %q", got)
				}
			},
		},
		{
			name:   "removed orderby clause keeps its keys",
			before: `class C { void M() { var s = from a in b orderby a.x, a.y descending select a; s.ToArray(); } }`,
			after:  `class C { void M() { var s = from a in b select a.bar; s.ToArray(); } }`,
			site:   "a.x",
			check: func(t *testing.T, m *Match, tr Tracking) {
				if !tr.Deleted || m.Before.Kind(tr.RemovedClosure) != ast.KindOrderByClause {
					t.Fatalf("tracking %+v", tr)
				}
				if got := m.After.File.Text(tr.Anchor); got != "s = from a in b select a.bar" {
					t.Fatalf("anchor %q", got)
				}
			},
		},
		{
			name:   "constructor head maps to new initializer",
			before: `class C : D { public C() { } }`,
			after:  `class C : D { public C() : base(1) { } }`,
			site:   "public C()",
			check: func(t *testing.T, m *Match, tr Tracking) {
				if !tr.Survived() || m.After.Kind(tr.After.Node) != ast.KindConstructorInitializer {
					t.Fatalf("tracking %+v", tr)
				}
				if got := m.After.File.Text(tr.Anchor); got != "base(1)" {
					t.Fatalf("anchor %q", got)
				}
			},
		},
		{
			name:   "field initializer relocates",
			before: `class C { int a = F(1), b = F(2); public C() { } }`,
			after:  `class C { int a, b = F(2); public C() { } }`,
			site:   "int a = F(1)",
			check: func(t *testing.T, m *Match, tr Tracking) {
				if !tr.Relocated || tr.Deleted {
					t.Fatalf("tracking %+v", tr)
				}
				if got := m.After.File.Text(tr.Anchor); got != "b = F(2)" {
					t.Fatalf("anchor %q", got)
				}
			},
		},
		{
			name:   "const local is not executable",
			before: `class C { void M() { int a = 1; } }`,
			after:  `class C { void M() { const int a = 1; } }`,
			site:   "int a = 1",
			check: func(t *testing.T, m *Match, tr Tracking) {
				if !tr.Deleted || m.After.File.Text(tr.Anchor) != "{" {
					t.Fatalf("tracking %+v", tr)
				}
			},
		},
		{
			name:   "member deleted",
			before: `class C { void M() { } void N() { F(); } }`,
			after:  `class C { void M() { } }`,
			site:   "F();",
			check: func(t *testing.T, m *Match, tr Tracking) {
				if !tr.Deleted || !tr.MemberDeleted {
					t.Fatalf("tracking %+v", tr)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := matchPair(t, tt.before, tt.after)
			site, ok := Locate(m.Before, spanOf(t, m.Before, tt.site, 0))
			if !ok {
				t.Fatalf("site %q unresolved", tt.site)
			}
			tt.check(t, m, Track(m, site))
		})
	}
}

func TestSiteChangedIgnoresLambdaBodies(t *testing.T) {
	tests := []struct {
		before, after string
		changed       bool
	}{
		{`F(x => x + 1);`, `F(x => x + 2);`, false},
		{`F(x => 1, 2);`, `F(x => 1, 3);`, true},
		{`F(delegate { return 1; });`, `F(delegate { return 2; });`, false},
	}
	for _, tt := range tests {
		t.Run(tt.before, func(t *testing.T) {
			m := matchPair(t,
				"class C { void M() { "+tt.before+" } }",
				"class C { void M() { "+tt.after+" } }")
			site, ok := Locate(m.Before, spanOf(t, m.Before, tt.before, 0))
			if !ok {
				t.Fatalf("unresolved")
			}
			if got := SiteChanged(m, Track(m, site)); got != tt.changed {
				t.Fatalf("changed=%v, want %v", got, tt.changed)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	m := matchPair(t, `class C { void M() { F(a, b); } }`, `class C { void M() { F(a, c); } }`)
	b := nodeByText(t, m.Before, ast.KindExprStmt, "F(a, b);")
	a := nodeByText(t, m.After, ast.KindExprStmt, "F(a, c);")
	if s := Similarity(m.Before, b, m.After, a); s < MinSimilarity || s >= 1 {
		t.Fatalf("similarity %v", s)
	}
	if s := Similarity(m.Before, b, m.Before, b); s != 1 {
		t.Fatalf("self similarity %v", s)
	}
}
