package markup

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	src := "class C { void M() { <ER:0.0>try { <AS:1>F();</AS:1> } finally { }</ER:0.0> } void F() { <AS:0>G<int>();</AS:0> } }"
	clean, marks, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "class C { void M() { try { F(); } finally { } } void F() { G<int>(); } }"
	if clean != want {
		t.Fatalf("clean text\n got: %s\nwant: %s", clean, want)
	}
	if len(marks) != 2 {
		t.Fatalf("got %d marks", len(marks))
	}
	tests := []struct {
		id   int
		text string
		leaf bool
	}{
		{0, "G<int>();", true},
		{1, "F();", false},
	}
	for i, tt := range tests {
		m := marks[i]
		if m.ID != tt.id || clean[m.Start:m.End] != tt.text || m.Leaf != tt.leaf {
			t.Errorf("mark %d: %+v %q", i, m, clean[m.Start:m.End])
		}
	}
}

func TestParseNested(t *testing.T) {
	clean, marks, err := Parse("<AS:1>a(<AS:0>b</AS:0>)</AS:1>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if clean != "a(b)" {
		t.Fatalf("clean %q", clean)
	}
	if m, _ := Find(marks, 1); clean[m.Start:m.End] != "a(b)" {
		t.Fatalf("outer mark %+v", m)
	}
	if m, _ := Find(marks, 0); clean[m.Start:m.End] != "b" {
		t.Fatalf("inner mark %+v", m)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"<AS:0>a",
		"a</AS:0>",
		"<AS:0>a</AS:1>",
		"<AS:0>a</AS:0><AS:0>b</AS:0>",
		"<AS:x>a</AS:x>",
		"<AS:0><ER:0.0>a</AS:0></ER:0.0>",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			if _, _, err := Parse(src); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestLeaf(t *testing.T) {
	_, marks, err := Parse("<AS:0>a</AS:0> <AS:1>b</AS:1> <AS:2>c</AS:2>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	Leaf(marks, []int{1, 2})
	for _, m := range marks {
		if m.Leaf != (m.ID != 0) {
			t.Errorf("mark %d leaf=%v", m.ID, m.Leaf)
		}
	}
}
