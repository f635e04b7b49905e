package statemachine

import (
	"context"
	"testing"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/parser"
	"encrude/internal/source"
)

func firstMethod(t *testing.T, src string) (*ast.Tree, ast.NodeID) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.cs", []byte(src)))
	bag := diag.NewBag(20)
	res := parser.ParseFile(context.Background(), file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	tree := res.Tree
	for _, id := range tree.Preorder(tree.Root) {
		if tree.Kind(id) == ast.KindMethodDecl {
			return tree, id
		}
	}
	t.Fatalf("no method")
	return nil, ast.NoNodeID
}

func TestClassify(t *testing.T) {
	tests := []struct {
		src  string
		want Shape
	}{
		{`class C { int F() { return 1; } }`, Plain},
		{`class C { IEnumerable<int> F() { yield return 1; } }`, Iterator},
		{`class C { IEnumerable<int> F() { yield break; } }`, Iterator},
		{`class C { async Task F() { } }`, Async},
		{`class C { Task<int> F() { return await G(); } }`, Async},
		{`class C { async IAsyncEnumerable<int> F() { await G(); yield return 1; } }`, AsyncIterator},
		{`class C { void F() { Func<Task> f = async () => await G(); } }`, Plain},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree, m := firstMethod(t, tt.src)
			if got := Classify(tree, m).Shape; got != tt.want {
				t.Fatalf("shape %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		before, after Shape
		want          Transition
		ok            bool
	}{
		{Plain, Plain, 0, false},
		{Plain, Iterator, AddedIterator, true},
		{Iterator, Plain, RemovedIterator, true},
		{Plain, Async, AddedAsync, true},
		{AsyncIterator, Iterator, RemovedAsync, true},
		{Async, AsyncIterator, AddedIterator, true},
	}
	for _, tt := range tests {
		got, ok := Compare(Info{Shape: tt.before}, Info{Shape: tt.after})
		if got != tt.want || ok != tt.ok {
			t.Errorf("%s -> %s: got %s/%v, want %s/%v", tt.before, tt.after, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTrigger(t *testing.T) {
	tree, m := firstMethod(t, `class C { async Task<int> F() { G(); return await H(); } }`)
	info := Classify(tree, m)
	if got := tree.File.Text(info.Trigger(tree, AddedAsync)); got != "await" {
		t.Fatalf("trigger %q", got)
	}
	tree, m = firstMethod(t, `class C { IEnumerable<int> F() { G(); yield return 1; } }`)
	info = Classify(tree, m)
	if got := tree.File.Text(info.Trigger(tree, AddedIterator)); got != "yield return 1;" {
		t.Fatalf("trigger %q", got)
	}
}
