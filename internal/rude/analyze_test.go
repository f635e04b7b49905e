package rude

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/markup"
	"encrude/internal/parser"
	"encrude/internal/source"
)

type pair struct {
	fs     *source.FileSet
	input  Input
	result *Result
}

func parseTree(t *testing.T, fs *source.FileSet, name, src string) *ast.Tree {
	t.Helper()
	file := fs.Get(fs.AddVirtual(name, []byte(src)))
	bag := diag.NewBag(20)
	res := parser.ParseFile(context.Background(), file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	require.False(t, bag.HasErrors(), "%s: %v", name, bag.Items())
	return res.Tree
}

// analyze strips the markup of both versions and runs the analysis with the
// active statements of the before text.
func analyze(t *testing.T, before, after string, opts Options) pair {
	t.Helper()
	bsrc, marks, err := markup.Parse(before)
	require.NoError(t, err)
	asrc, _, err := markup.Parse(after)
	require.NoError(t, err)

	fs := source.NewFileSet()
	bt := parseTree(t, fs, "before.cs", bsrc)
	at := parseTree(t, fs, "after.cs", asrc)
	in := Input{Before: bt, After: at}
	for _, m := range marks {
		in.Statements = append(in.Statements, ActiveStatement{
			ID:   m.ID,
			Span: source.Span{File: bt.File.ID, Start: uint32(m.Start), End: uint32(m.End)},
			Leaf: m.Leaf,
		})
	}
	res, err := Analyze(context.Background(), in, opts)
	require.NoError(t, err)
	return pair{fs: fs, input: in, result: res}
}

func (p pair) lines() []string {
	return diag.FormatExpectations(p.result.Diagnostics, p.fs)
}

func (p pair) state(t *testing.T, id int) State {
	t.Helper()
	for _, o := range p.result.Outcomes {
		if o.Statement.ID == id {
			return o.State
		}
	}
	t.Fatalf("no outcome for statement %d", id)
	return Unexamined
}

func TestAnalyzeScenarios(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   []string
	}{
		{
			name: "caller wraps call in loop",
			before: `
class C
{
    static void Main(string[] args)
    {
        <AS:1>Foo(1);</AS:1>
    }

    static void Foo(int a)
    {
        <AS:0>Console.WriteLine(a);</AS:0>
    }
}`,
			after: `
class C
{
    static void Main(string[] args)
    {
        while (true)
        {
            <AS:1>Foo(1);</AS:1>
        }
    }

    static void Foo(int a)
    {
        <AS:0>Console.WriteLine(a);</AS:0>
    }
}`,
		},
		{
			name: "lock removed around leaf",
			before: `
class C
{
    static void Main(string[] args)
    {
        lock (lockThis)
        {
            <AS:0>Console.WriteLine(1);</AS:0>
        }
    }
}`,
			after: `
class C
{
    static void Main(string[] args)
    {
        <AS:0>Console.WriteLine(1);</AS:0>
    }
}`,
		},
		{
			name: "method becomes iterator",
			before: `
class C
{
    static IEnumerable<int> F()
    {
        <AS:0>Console.WriteLine(1);</AS:0>
        return new[] { 1, 2, 3 };
    }
}`,
			after: `
class C
{
    static IEnumerable<int> F()
    {
        <AS:0>Console.WriteLine(1);</AS:0>
        yield return 1;
    }
}`,
			want: []string{`InsertAroundActiveStatement "yield return 1;" "yield statement"`},
		},
		{
			name: "method becomes async",
			before: `
class C
{
    static Task<int> F()
    {
        <AS:0>Console.WriteLine(1);</AS:0>

        return Task.FromResult(1);
    }
}`,
			after: `
class C
{
    static async Task<int> F()
    {
        <AS:0>Console.WriteLine(1);</AS:0>
        return await Task.FromResult(1);
    }
}`,
			want: []string{`InsertAroundActiveStatement "await" "await expression"`},
		},
		{
			name: "iterator with active statement in lambda",
			before: `
class C
{
    static IEnumerable<int> F()
    {
        var f = new Action(() => { <AS:0>Console.WriteLine(1);</AS:0> });
        return new[] { 1, 2, 3 };
    }
}`,
			after: `
class C
{
    static IEnumerable<int> F()
    {
        var f = new Action(() => { <AS:0>Console.WriteLine(1);</AS:0> });
        yield return 1;
    }
}`,
			want: []string{`LambdaExpression "()" "method"`},
		},
		{
			name: "catch type changed under filter",
			before: `
class C
{
    static void Main(string[] args)
    {
        try
        {
        }
        catch (IOException) <AS:1>when (Foo(1))</AS:1>
        {
        }
    }

    static void Foo()
    {
        <AS:0>Console.WriteLine(1);</AS:0>
    }
}`,
			after: `
class C
{
    static void Main(string[] args)
    {
        try
        {
        }
        catch (Exception) <AS:1>when (Foo(1))</AS:1>
        {
        }
    }

    static void Foo()
    {
        <AS:0>Console.WriteLine(1);</AS:0>
    }
}`,
			want: []string{`UpdateAroundActiveStatement "catch" "catch clause"`},
		},
		{
			name: "document deleted",
			before: `
class C
{
    static void Main(string[] args)
    {
        <AS:0>Console.WriteLine(1);</AS:0>
    }
}`,
			after: ``,
			want:  []string{`Delete <detached> "class"`},
		},
		{
			name: "non-leaf statement updated",
			before: `
class C
{
    static void Main(string[] args)
    {
        <AS:1>Foo(1);</AS:1>
    }

    static void Foo(int a)
    {
        <AS:0>Console.WriteLine(a);</AS:0>
    }
}`,
			after: `
class C
{
    static void Main(string[] args)
    {
        <AS:1>Foo(2);</AS:1>
    }

    static void Foo(int a)
    {
        <AS:0>Console.WriteLine(a);</AS:0>
    }
}`,
			want: []string{`ActiveStatementUpdate "Foo(2);"`},
		},
		{
			name: "leaf statement updated",
			before: `
class C
{
    static void Main(string[] args)
    {
        <AS:0>Console.WriteLine(1);</AS:0>
    }
}`,
			after: `
class C
{
    static void Main(string[] args)
    {
        <AS:0>Console.WriteLine(2);</AS:0>
    }
}`,
		},
		{
			name: "non-leaf statement deleted",
			before: `
class C
{
    static void Main(string[] args)
    {
        <AS:1>Foo(1);</AS:1>
    }

    static void Foo(int a)
    {
        <AS:0>Console.WriteLine(a);</AS:0>
    }
}`,
			after: `
class C
{
    static void Main(string[] args)
    {
    }

    static void Foo(int a)
    {
        <AS:0>Console.WriteLine(a);</AS:0>
    }
}`,
			want: []string{`ActiveStatementDeleted "{"`},
		},
		{
			name: "enclosing lambda removed",
			before: `
class C
{
    static void Main(string[] args)
    {
        Func<int, Func<int, int>> f = a =>
        {
            return b =>
            {
                <AS:0>return b;</AS:0>
            };
        };

        var z = f(1);
        <AS:1>z(2);</AS:1>
    }
}`,
			after: `
class C
{
    static void Main(string[] args)
    {
        Func<int, int> f = b =>
        {
            <AS:0>return b;</AS:0>
        };

        var z = f;
        <AS:1>z(2);</AS:1>
    }
}`,
			want: []string{
				`LambdaExpression "b" "method"`,
				`ActiveStatementLambdaRemoved "return b;" "lambda"`,
			},
		},
		{
			name: "where clause removed",
			before: `
class C
{
    static void Main(string[] args)
    {
        var s = from a in b where <AS:0>b.foo</AS:0> select b.bar;
        <AS:1>s.ToArray();</AS:1>
    }
}`,
			after: `
class C
{
    static void Main(string[] args)
    {
        var s = from a in b select b.bar;
        <AS:1>s.ToArray();</AS:1>
    }
}`,
			want: []string{
				`ActiveStatementLambdaRemoved "s = from a in b select b.bar" "where clause"`,
				`QueryExpression "from" "method"`,
			},
		},
		{
			name: "lambda converted to anonymous method",
			before: `
class C
{
    static void Main(string[] args)
    {
        Func<int, int> f = a => <AS:0>1</AS:0>;
    }
}`,
			after: `
class C
{
    static void Main(string[] args)
    {
        Func<int, int> f = delegate(int a) { return 1; };
    }
}`,
			want: []string{`AnonMethod "delegate" "method"`},
		},
		{
			name: "fields reordered",
			before: `
class C
{
    int a;
    int b;

    void M()
    {
        <AS:0>F();</AS:0>
    }
}`,
			after: `
class C
{
    int b;
    int a;

    void M()
    {
        <AS:0>F();</AS:0>
    }
}`,
			want: []string{`Move "int b" "field"`},
		},
		{
			name: "field made constant",
			before: `
class C
{
    int a = 1;
}`,
			after: `
class C
{
    const int a = 1;
}`,
			want: []string{`ModifiersUpdate "const int a = 1" "field"`},
		},
		{
			name: "method deleted",
			before: `
class C
{
    void M()
    {
        <AS:0>F();</AS:0>
    }

    void N()
    {
    }
}`,
			after: `
class C
{
    void M()
    {
        <AS:0>F();</AS:0>
    }
}`,
			want: []string{`Delete "class C" "method"`},
		},
		{
			name: "parameter renamed",
			before: `
class C
{
    void M(int a)
    {
    }
}`,
			after: `
class C
{
    void M(int b)
    {
    }
}`,
			want: []string{`Renamed "int b" "parameter"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := analyze(t, tt.before, tt.after, Options{})
			if len(tt.want) == 0 {
				assert.Empty(t, p.lines())
				return
			}
			assert.Equal(t, tt.want, p.lines())
		})
	}
}

func TestAnalyzeOutcomes(t *testing.T) {
	p := analyze(t, `
class C
{
    int f = <AS:3>G(1)</AS:3>;

    static void Main(string[] args)
    {
        <AS:1>Foo(1);</AS:1>
        <AS:2>Bar();</AS:2>
    }

    static void Foo(int a)
    {
        <AS:0>Console.WriteLine(a);</AS:0>
    }
}`, `
class C
{
    int f;

    static void Main(string[] args)
    {
        <AS:1>Foo(2);</AS:1>
    }

    static void Foo(int a)
    {
        <AS:0>Console.WriteLine( a );</AS:0>
    }
}`, Options{})

	assert.Equal(t, TextOnlyUpdated, p.state(t, 0))
	assert.Equal(t, StructurallyUpdated, p.state(t, 1))
	assert.Equal(t, Deleted, p.state(t, 2))
	assert.Equal(t, Preserved, p.state(t, 3))

	ids := make([]int, 0, len(p.result.Outcomes))
	for _, o := range p.result.Outcomes {
		ids = append(ids, o.Statement.ID)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, ids)
	assert.True(t, p.result.Rude())
}

func TestAnalyzeUnresolvedStatement(t *testing.T) {
	src := `class C { void M() { F(); } }`
	fs := source.NewFileSet()
	bt := parseTree(t, fs, "before.cs", src)
	at := parseTree(t, fs, "after.cs", src)
	res, err := Analyze(context.Background(), Input{
		Before:     bt,
		After:      at,
		Statements: []ActiveStatement{{ID: 0, Span: source.Span{File: bt.File.ID, Start: 0, End: 7}}},
	}, Options{})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, Unresolved, res.Outcomes[0].State)
	assert.Empty(t, res.Diagnostics)
	_, ok := res.Outcomes[0].AfterSpan()
	assert.False(t, ok)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	before := `
class C
{
    static void Main(string[] args)
    {
        <AS:1>Foo(1);</AS:1>
        lock (o)
        {
            <AS:2>Bar();</AS:2>
        }
    }
}`
	after := `
class C
{
    static void Main(string[] args)
    {
        <AS:1>Foo(2);</AS:1>
        lock (p)
        {
            <AS:2>Bar();</AS:2>
        }
    }
}`
	first := analyze(t, before, after, Options{})
	second := analyze(t, before, after, Options{})
	assert.Equal(t, first.lines(), second.lines())
	assert.NotEmpty(t, first.lines())
}

func TestAnalyzeMaxDiagnostics(t *testing.T) {
	before := `
class C
{
    void A() { }
    int f;
    int P { get; set; }
}`
	after := `
class C
{
}`
	all := analyze(t, before, after, Options{})
	require.Len(t, all.lines(), 3)
	capped := analyze(t, before, after, Options{MaxDiagnostics: 2})
	assert.Equal(t, all.lines()[:2], capped.lines())
}

func TestAnalyzeRequiresTrees(t *testing.T) {
	_, err := Analyze(context.Background(), Input{}, Options{})
	require.ErrorIs(t, err, ErrInternalFault)
}
