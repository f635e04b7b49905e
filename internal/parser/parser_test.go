package parser

import (
	"context"
	"testing"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/source"
)

func parse(t *testing.T, src string) (*ast.Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cs", []byte(src)))
	bag := diag.NewBag(100)
	res := ParseFile(context.Background(), file, Options{Reporter: diag.BagReporter{Bag: bag}})
	return res.Tree, bag
}

// firstStatement разбирает оператор внутри метода и возвращает его узел.
func firstStatement(t *testing.T, stmt string) (*ast.Tree, ast.NodeID) {
	t.Helper()
	tree, bag := parse(t, "class C { void M() { "+stmt+" } }")
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Errorf("unexpected diagnostic: %s", d.Message)
		}
		t.FailNow()
	}
	for _, id := range tree.Preorder(tree.Root) {
		if tree.Kind(id) == ast.KindBlock {
			kids := tree.Children(id)
			if len(kids) == 0 {
				t.Fatalf("empty method body for %q", stmt)
			}
			return tree, kids[0]
		}
	}
	t.Fatalf("no block in %q", stmt)
	return nil, ast.NoNodeID
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{
			src:  "x = a + b * c;",
			want: `(ExprStmt (Assignment (Name "x") (Binary (Name "a") (Binary (Name "b") (Name "c")))))`,
		},
		{
			src:  "F(1, ref y);",
			want: `(ExprStmt (Invocation (Name "F") (ArgumentList (Argument (Literal "1")) (Argument (Name "y")))))`,
		},
		{
			src:  "var f = x => x + 1;",
			want: `(LocalDeclStmt (VariableDecl (TypeRef "var") (VariableDeclarator (EqualsValue (Lambda (ParameterList (Parameter "x")) (Binary (Name "x") (Literal "1")))))))`,
		},
		{
			src:  "Func<int, int> f = (int a) => a;",
			want: `(LocalDeclStmt (VariableDecl (TypeRef "Func < int , int >") (VariableDeclarator (EqualsValue (Lambda (ParameterList (Parameter (TypeRef "int"))) (Name "a"))))))`,
		},
		{
			src:  "return (int)o;",
			want: `(ReturnStmt (Cast (TypeRef "int") (Name "o")))`,
		},
		{
			src:  "var q = from a in b where a > 1 select a;",
			want: `(LocalDeclStmt (VariableDecl (TypeRef "var") (VariableDeclarator (EqualsValue (Query (FromClause (Name "b")) (WhereClause (Binary (Name "a") (Literal "1"))) (SelectClause (Name "a")))))))`,
		},
		{
			src:  "await Task.Delay(1);",
			want: `(ExprStmt (Await (Invocation (MemberAccess (Name "Task") (Name "Delay")) (ArgumentList (Argument (Literal "1"))))))`,
		},
		{
			src:  "var l = new List<int> { 1, 2 };",
			want: `(LocalDeclStmt (VariableDecl (TypeRef "var") (VariableDeclarator (EqualsValue (ObjectCreation (TypeRef "List < int >") (Initializer (Literal "1") (Literal "2")))))))`,
		},
		{
			src:  "if (x is int i) return;",
			want: `(IfStmt (Is (Name "x") (DeclarationExpr (TypeRef "int"))) (ReturnStmt "return ;"))`,
		},
		{
			src:  "M(delegate { return 1; });",
			want: `(ExprStmt (Invocation (Name "M") (ArgumentList (Argument (AnonymousMethod (Block (ReturnStmt (Literal "1"))))))))`,
		},
		{
			src:  "List<List<int>> x = null;",
			want: `(LocalDeclStmt (VariableDecl (TypeRef "List < List < int > >") (VariableDeclarator (EqualsValue (Literal "null")))))`,
		},
		{
			src:  "checked { a++; }",
			want: `(CheckedStmt (Block (ExprStmt (Postfix (Name "a")))))`,
		},
		{
			src:  "yield return 1;",
			want: `(YieldReturnStmt (Literal "1"))`,
		},
		{
			src:  "foreach (var c in s) F(c);",
			want: `(ForEachStmt (ForEachVariable (TypeRef "var")) (Name "s") (ExprStmt (Invocation (Name "F") (ArgumentList (Argument (Name "c"))))))`,
		},
		{
			src:  "lock (o) { }",
			want: `(LockStmt (Name "o") (Block "{ }"))`,
		},
		{
			src:  "using (C x) { }",
			want: `(UsingStmt (VariableDecl (TypeRef "C") (VariableDeclarator "x")) (Block "{ }"))`,
		},
		{
			src:  "using (r) { }",
			want: `(UsingStmt (Name "r") (Block "{ }"))`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree, id := firstStatement(t, tt.src)
			if got := tree.Dump(id); got != tt.want {
				t.Errorf("dump mismatch\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestParseShiftIsOneOperator(t *testing.T) {
	tree, id := firstStatement(t, "x = y >> 2;")
	bin := tree.Children(tree.Children(id)[0])[1]
	if tree.Kind(bin) != ast.KindBinary {
		t.Fatalf("expected Binary, got %s", tree.Kind(bin))
	}
	if got := tree.Text(bin); got != "y >> 2" {
		t.Fatalf("binary text %q", got)
	}
}

func TestParseMembers(t *testing.T) {
	src := `using System;
namespace N
{
    public class C : B
    {
        int a = 1, b;
        public int P { get; set; } = 3;
        public C(int x) : base(x) { }
        public void M(int a) { }
        ~C() { }
        event Action E { add { } remove { } }
        public int this[int i] => i;
        public static C operator +(C l, C r) => l;
    }
    enum E { A, B = 2 }
    delegate void D(int x);
}`
	tree, bag := parse(t, src)
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Errorf("unexpected diagnostic: %s", d.Message)
		}
		t.FailNow()
	}
	var kinds []ast.Kind
	heads := map[ast.Kind]string{}
	for _, id := range tree.Preorder(tree.Root) {
		n := tree.Node(id)
		if n.Kind.IsMember() || n.Kind.IsType() || n.Kind == ast.KindNamespaceDecl || n.Kind == ast.KindUsingDirective {
			kinds = append(kinds, n.Kind)
			if !n.Head.Empty() {
				heads[n.Kind] = tree.RangeText(n.Head)
			}
		}
	}
	want := []ast.Kind{
		ast.KindUsingDirective, ast.KindNamespaceDecl, ast.KindTypeDecl,
		ast.KindFieldDecl, ast.KindPropertyDecl, ast.KindConstructorDecl, ast.KindMethodDecl,
		ast.KindDestructorDecl, ast.KindEventDecl, ast.KindIndexerDecl, ast.KindOperatorDecl,
		ast.KindEnumDecl, ast.KindEnumMember, ast.KindEnumMember, ast.KindDelegateDecl,
	}
	if len(kinds) != len(want) {
		t.Fatalf("members %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("member %d is %s, want %s", i, kinds[i], want[i])
		}
	}
	checks := map[ast.Kind]string{
		ast.KindTypeDecl:     "class C",
		ast.KindMethodDecl:   "public void M ( int a )",
		ast.KindPropertyDecl: "public int P",
		ast.KindEnumDecl:     "enum E",
	}
	for k, w := range checks {
		if heads[k] != w {
			t.Errorf("%s head %q, want %q", k, heads[k], w)
		}
	}
}

func TestParseRecovers(t *testing.T) {
	tree, bag := parse(t, "class C { void M() { int x = ; F(); } void N() { } }")
	if !bag.HasErrors() {
		t.Fatalf("expected a syntax error")
	}
	methods := 0
	calls := 0
	for _, id := range tree.Preorder(tree.Root) {
		switch tree.Kind(id) {
		case ast.KindMethodDecl:
			methods++
		case ast.KindInvocation:
			calls++
		}
	}
	if methods != 2 || calls != 1 {
		t.Fatalf("methods=%d calls=%d after recovery", methods, calls)
	}
}

func TestParseQueryContinuation(t *testing.T) {
	tree, id := firstStatement(t, "var q = from a in b group a by a.K into g orderby g.Key descending select g;")
	var kinds []ast.Kind
	for _, n := range tree.Preorder(id) {
		if k := tree.Kind(n); k.IsQueryClause() || k == ast.KindQueryContinuation {
			kinds = append(kinds, k)
		}
	}
	want := []ast.Kind{
		ast.KindFromClause, ast.KindGroupClause, ast.KindQueryContinuation,
		ast.KindOrderByClause, ast.KindSelectClause,
	}
	if len(kinds) != len(want) {
		t.Fatalf("clauses %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("clause %d is %s, want %s", i, kinds[i], want[i])
		}
	}
}
