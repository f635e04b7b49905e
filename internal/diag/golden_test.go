package diag

import (
	"testing"

	"encrude/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	userFile := fs.Add("/workspace/cases/sample.cs", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevError,
			Code:     RudeDelete,
			Message:  "gone",
			Detached: true,
		},
	}

	expected := "error SYN2001 cases/sample.cs:1:1 first line second\n" +
		"note SYN2001 cases/sample.cs:2:1 note line\n" +
		"error ENC5007 <detached> gone"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatExpectation(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("after.cs", []byte("class C { int a; }"))

	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{
			name: "with span and arg",
			d:    Diagnostic{Code: RudeDelete, Primary: source.Span{File: id, Start: 0, End: 7}, Arg: "field"},
			want: `Delete "class C" "field"`,
		},
		{
			name: "without arg",
			d:    Diagnostic{Code: RudeActiveStatementUpdate, Primary: source.Span{File: id, Start: 10, End: 16}},
			want: `ActiveStatementUpdate "int a;"`,
		},
		{
			name: "detached",
			d:    Diagnostic{Code: RudeDelete, Detached: true, Arg: "class"},
			want: `Delete <detached> "class"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatExpectation(tt.d, fs); got != tt.want {
				t.Fatalf("FormatExpectation = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseExpectation(t *testing.T) {
	tests := []struct {
		line    string
		want    Expectation
		wantErr bool
	}{
		{line: `Delete "class C" "field"`, want: Expectation{Code: RudeDelete, Text: "class C", Arg: "field"}},
		{line: `activestatementupdate "Foo(1);"`, want: Expectation{Code: RudeActiveStatementUpdate, Text: "Foo(1);"}},
		{line: `Delete <detached> "class"`, want: Expectation{Code: RudeDelete, Detached: true, Arg: "class"}},
		{line: `ENC5004 "lock (a)" "lock statement"`, want: Expectation{Code: RudeInsertAroundActiveStatement, Text: "lock (a)", Arg: "lock statement"}},
		{line: `Bogus "x"`, wantErr: true},
		{line: `Delete x`, wantErr: true},
		{line: `Delete "a" "b" junk`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseExpectation(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseExpectation = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExpectationRoundTrip(t *testing.T) {
	for _, line := range []string{
		`Delete "class C" "field"`,
		`ActiveStatementUpdate "Foo(1);"`,
		`Delete <detached> "class"`,
	} {
		exp, err := ParseExpectation(line)
		if err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		if got := exp.String(); got != line {
			t.Fatalf("String() = %q, want %q", got, line)
		}
	}
}
