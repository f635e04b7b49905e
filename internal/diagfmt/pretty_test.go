package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"encrude/internal/diag"
	"encrude/internal/source"
)

const sample = "class C\n{\n    void M()\n    {\n        yield return 1;\n    }\n}\n"

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSetWithBase("/work/cases")
	id := fs.AddVirtual("/work/cases/src/after.cs", []byte(sample))
	start := uint32(strings.Index(sample, "yield return 1;"))
	bag := diag.NewBag(10)
	rep := diag.BagReporter{Bag: bag}
	diag.ReportRude(rep, diag.RudeInsertAroundActiveStatement,
		source.Span{File: id, Start: start, End: start + uint32(len("yield return 1;"))}, "yield statement").Emit()
	diag.ReportDetached(rep, diag.RudeDelete, "class").Emit()
	bag.Sort()
	return bag, fs
}

func TestPathModes(t *testing.T) {
	bag, fs := sampleBag(t)
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/work/cases/src/after.cs:5:9"},
		{"relative", PathModeRelative, "src/after.cs:5:9"},
		{"basename", PathModeBasename, "after.cs:5:9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			out := buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Fatalf("expected %q in:\n%s", tt.contains, out)
			}
			if !strings.Contains(out, "ERROR ENC5004") {
				t.Fatalf("missing severity/code:\n%s", out)
			}
		})
	}
}

func TestPrettyUnderline(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	out := buf.String()

	if !strings.HasPrefix(out, "<detached>: ERROR ENC5007: Deleting class") {
		t.Fatalf("detached diagnostic must come first:\n%s", out)
	}
	if !strings.Contains(out, "4 |     {\n") {
		t.Fatalf("context line missing:\n%s", out)
	}
	want := "  |         ^" + strings.Repeat("~", len("yield return 1;")-1)
	if !strings.Contains(out, want) {
		t.Fatalf("underline %q missing:\n%s", want, out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color escapes with Color=false:\n%s", out)
	}
}

func TestShort(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Short(&buf, bag, fs, PathModeBasename)
	want := "Delete <detached> \"class\"\n" +
		"after.cs:5:9: InsertAroundActiveStatement \"yield return 1;\" \"yield statement\"\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestHighlightKeepsText(t *testing.T) {
	line := `        var s = "x"; // note`
	got := Highlight(line)
	plain := stripANSI(got)
	if plain != line {
		t.Fatalf("highlight changed text: %q", plain)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
