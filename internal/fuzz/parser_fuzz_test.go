package fuzztests

import (
	"context"
	"testing"
	"time"

	"encrude/internal/diag"
	"encrude/internal/driver"
	"encrude/internal/parser"
	"encrude/internal/source"
	"encrude/internal/testkit"
)

// parseTimeout is the maximum time allowed for one input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsTree(f *testing.F) {
	addCaseSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.cs", clampInput(input)))

		bag := diag.NewBag(128)
		res := parser.ParseFile(context.Background(), file, parser.Options{
			Reporter:  diag.BagReporter{Bag: bag},
			MaxErrors: 128,
		})
		if res.Tree == nil {
			t.Fatalf("nil tree")
		}
		if bag.HasErrors() {
			return
		}
		if err := testkit.CheckTreeInvariants(res.Tree, file); err != nil {
			t.Fatalf("%v\n%s", err, res.Tree.Dump(res.Tree.Root))
		}
	})
}

// FuzzParserNoHang checks that the parser finishes on any input.
func FuzzParserNoHang(f *testing.F) {
	addCaseSeeds(f)

	f.Add([]byte("class C { void M() { F()\nG(); } }"))
	f.Add([]byte("class C { void M() { if (x { } } }"))
	f.Add([]byte("class C { int P { get => ; } }"))
	f.Add([]byte("class C { void M() { { { { } } } } }"))
	f.Add([]byte("class C { void M() { switch (x) { case : } } }"))
	f.Add([]byte("class C { void M() { for (int i = 0 i < 10 i++) {} } }"))
	f.Add([]byte("class C { void M() { var q = from x in xs where select; } }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.cs", input))
			bag := diag.NewBag(128)
			_ = parser.ParseFile(ctx, file, parser.Options{
				Reporter:  diag.BagReporter{Bag: bag},
				MaxErrors: 128,
			})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzAnalyzePair runs the whole pipeline on two documents.
func FuzzAnalyzePair(f *testing.F) {
	addPairSeeds(f)
	f.Fuzz(func(t *testing.T, before, after []byte) {
		in := driver.PairInput{Before: clampInput(before), After: clampInput(after)}
		res, err := driver.AnalyzePair(context.Background(), source.NewFileSet(), in, driver.Options{MaxDiagnostics: 64})
		if err != nil {
			t.Fatalf("AnalyzePair: %v", err)
		}
		if res.Broken() && res.Analysis != nil {
			t.Fatalf("broken input was analysed")
		}
	})
}

func truncateForLog(input []byte, limit int) []byte {
	if len(input) <= limit {
		return input
	}
	return input[:limit]
}
