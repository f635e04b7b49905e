//go:build cgo

package treesitter

import (
	"context"
	"testing"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/parser"
	"encrude/internal/source"
)

func method(body string) string {
	return "class C\n{\n    void M()\n    {\n" + body + "\n    }\n}\n"
}

func load(src string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.cs", []byte(src)))
}

func TestParseMatchesNativeShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"while", "while (true)\n{\n    F();\n}"},
		{"lock", "lock (\"test\")\n{\n    F();\n}"},
		{"lock_leaf", "lock (\"test\") F();"},
		{"fixed", "fixed (int* p = a)\n{\n    F();\n}"},
		{"using", "using (F())\n{\n    G();\n}"},
		{"using_leaf", "using (F()) G();"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := load(method(tt.body))
			bag := diag.NewBag(0)
			got, err := Parse(context.Background(), file, diag.BagReporter{Bag: bag})
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if bag.HasErrors() {
				t.Fatalf("unexpected diagnostics: %s", diag.FormatShortDiagnostics(bag.Items(), nil, false))
			}
			want := parser.ParseFile(context.Background(), file, parser.Options{}).Tree

			gotIDs := got.Preorder(got.Root)
			wantIDs := want.Preorder(want.Root)
			if len(gotIDs) != len(wantIDs) {
				t.Fatalf("node count: got %d, want %d\n%s", len(gotIDs), len(wantIDs), got.Dump(got.Root))
			}
			headed := 0
			for i := range gotIDs {
				g, w := got.Node(gotIDs[i]), want.Node(wantIDs[i])
				if g.Kind != w.Kind || g.First != w.First || g.Last != w.Last {
					t.Fatalf("node %d: got %s [%d,%d], want %s [%d,%d]", i, g.Kind, g.First, g.Last, w.Kind, w.First, w.Last)
				}
				if g.Head != w.Head || g.Name != w.Name || g.Op != w.Op || g.Flags != w.Flags {
					t.Errorf("%s: got head=%v name=%d op=%v flags=%b, want head=%v name=%d op=%v flags=%b",
						g.Kind, g.Head, g.Name, g.Op, g.Flags, w.Head, w.Name, w.Op, w.Flags)
				}
				if g.Kind.IsStatement() && !g.Head.Empty() {
					headed++
				}
			}
			// без заголовка обёртки правки "lock (x)" не видны
			if headed == 0 {
				t.Errorf("no statement head recorded:\n%s", got.Dump(got.Root))
			}
		})
	}
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	bag := diag.NewBag(0)
	tree, err := Parse(context.Background(), load("class C { void M() { F( } }"), diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tree == nil || tree.Kind(tree.Root) != ast.KindCompilationUnit {
		t.Fatalf("expected a compilation unit root")
	}
	if !bag.HasErrors() {
		t.Fatalf("expected a syntax error")
	}
}

func TestParseModifiersAndNames(t *testing.T) {
	tree, err := Parse(context.Background(), load("public static class C { private int x = 1; }"), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var typ, fieldDecl ast.NodeID
	for _, id := range tree.Preorder(tree.Root) {
		switch tree.Kind(id) {
		case ast.KindTypeDecl:
			typ = id
		case ast.KindFieldDecl:
			fieldDecl = id
		}
	}
	if !typ.IsValid() || !fieldDecl.IsValid() {
		t.Fatalf("missing declarations:\n%s", tree.Dump(tree.Root))
	}
	n := tree.Node(typ)
	if !n.Mods.Has(ast.ModPublic) || !n.Mods.Has(ast.ModStatic) {
		t.Errorf("type modifiers: got %v", n.Mods)
	}
	if got := tree.Token(n.Name).Text; got != "C" {
		t.Errorf("type name: got %q", got)
	}
	if got := tree.Token(tree.Node(fieldDecl).Name).Text; got != "x" {
		t.Errorf("field name: got %q", got)
	}
	if tree.FirstChild(fieldDecl, ast.KindVariableDecl) == ast.NoNodeID {
		t.Errorf("field without variable declaration:\n%s", tree.Dump(fieldDecl))
	}
}
