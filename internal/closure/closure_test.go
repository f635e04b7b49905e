package closure

import (
	"context"
	"strings"
	"testing"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/match"
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

func locate(t *testing.T, tree *ast.Tree, needle string) match.Site {
	t.Helper()
	idx := strings.Index(string(tree.File.Content), needle)
	if idx < 0 {
		t.Fatalf("%q not found", needle)
	}
	start := uint32(idx)
	site, ok := match.Locate(tree, source.Span{File: tree.File.ID, Start: start, End: start + uint32(len(needle))})
	if !ok {
		t.Fatalf("%q unresolved", needle)
	}
	return site
}

func names(p Path) string {
	out := make([]string, len(p))
	for i, s := range p {
		out[i] = Name(s.Kind)
	}
	return strings.Join(out, ",")
}

func TestPathOf(t *testing.T) {
	tests := []struct {
		body string
		site string
		want string
	}{
		{`F(a => G(b => H(b)));`, "H(b)", "lambda,lambda"},
		{`F(a => 1, G());`, "G()", ""},
		{`M(delegate { return K(); });`, "return K();", "anonymous method"},
		{`int L() { return P(); }`, "return P();", "local function"},
		{`var s = from a in Q() where a.X select a.Y;`, "a.X", "where clause"},
		{`var s = from a in Q() where a.X select a.Y;`, "Q()", ""},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			fs := source.NewFileSet()
			tree := parseTree(t, fs, "a.cs", "class C { void M() { "+tt.body+" } }")
			if got := names(PathOf(tree, locate(t, tree, tt.site).Node)); got != tt.want {
				t.Fatalf("path %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name          string
		before, after string
		site          string
		kind          ChangeKind
		want          string
	}{
		{
			name:   "nested lambda removed",
			before: `Func<int, Func<int, int>> f = a => { return b => { return b; }; };`,
			after:  `Func<int, int> f = b => { return b; };`,
			site:   "return b;",
			kind:   Removed,
			want:   "lambda",
		},
		{
			name:   "where clause removed",
			before: `var s = from a in b where b.foo select b.bar;`,
			after:  `var s = from a in b select b.bar;`,
			site:   "b.foo",
			kind:   Removed,
			want:   "where clause",
		},
		{
			name:   "lambda becomes anonymous method",
			before: `Func<int, int> f = a => 1;`,
			after:  `Func<int, int> f = delegate(int a) { return 1; };`,
			site:   "1",
			kind:   FormChanged,
			want:   "lambda",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			m := match.Trees(context.Background(),
				parseTree(t, fs, "before.cs", "class C { void M() { "+tt.before+" } }"),
				parseTree(t, fs, "after.cs", "class C { void M() { "+tt.after+" } }"))
			site := locate(t, m.Before, tt.site)
			tr := match.Track(m, site)
			at := tr.Ancestor
			if tr.Survived() {
				at = tr.After.Node
			}
			change, ok := Compare(m, PathOf(m.Before, site.Node), PathOf(m.After, at))
			if !ok {
				t.Fatalf("no change reported")
			}
			if change.Kind != tt.kind || change.Name() != tt.want {
				t.Fatalf("got %d %q, want %d %q", change.Kind, change.Name(), tt.kind, tt.want)
			}
		})
	}
}

func TestCompareUnchangedPath(t *testing.T) {
	src := `class C { void M() { F(a => G(a)); } }`
	fs := source.NewFileSet()
	m := match.Trees(context.Background(), parseTree(t, fs, "before.cs", src), parseTree(t, fs, "after.cs", src))
	site := locate(t, m.Before, "G(a)")
	tr := match.Track(m, site)
	if _, ok := Compare(m, PathOf(m.Before, site.Node), PathOf(m.After, tr.After.Node)); ok {
		t.Fatalf("identical paths reported a change")
	}
}

func TestForms(t *testing.T) {
	fs := source.NewFileSet()
	tree := parseTree(t, fs, "a.cs", `class C {
    void M() {
        F(x => G(y => y));
        H(delegate(int a) { return a; });
        var q = from a in b select a;
    }
}`)
	typ := tree.Children(tree.Root)[0]
	var member ast.NodeID
	for _, c := range tree.Children(typ) {
		if tree.Kind(c) == ast.KindMethodDecl {
			member = c
		}
	}
	var got []string
	for _, f := range Forms(tree, member) {
		got = append(got, f.Kind.String()+":"+tree.File.Text(f.Anchor))
	}
	want := "Lambda:x|AnonymousMethod:delegate|Query:from"
	if strings.Join(got, "|") != want {
		t.Fatalf("forms %v, want %s", got, want)
	}
}
