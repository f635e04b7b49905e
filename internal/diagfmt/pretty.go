package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"encrude/internal/diag"
	"encrude/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, code, path, caret, note, gutter *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
		gutter: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.caret, p.note, p.gutter} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		sev := p.severity(d.Severity).Sprint(d.Severity.String())
		code := p.code.Sprint(d.Code.ID())
		if d.Detached {
			fmt.Fprintf(w, "%s: %s %s: %s\n", p.path.Sprint("<detached>"), sev, code, d.Message)
			continue
		}
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", p.path.Sprint(pathOf(f, opts.PathMode, fs.BaseDir())), start.Line, start.Col, sev, code, d.Message)
		excerpt(w, fs, d.Primary, p, opts)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				nf := fs.Get(n.Span.File)
				ns, _ := fs.Resolve(n.Span)
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), pathOf(nf, opts.PathMode, fs.BaseDir()), ns.Line, ns.Col, n.Msg)
			}
		}
	}
}

// excerpt prints the context lines and the underlined primary line.
func excerpt(w io.Writer, fs *source.FileSet, sp source.Span, p palette, opts PrettyOpts) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	first := uint32(1)
	if ctx := uint32(max(opts.Context, 0)); start.Line > ctx {
		first = start.Line - ctx
	}
	gutter := len(fmt.Sprint(start.Line)) + 1
	for ln := first; ln <= start.Line; ln++ {
		line := expandTabs(f.GetLine(ln))
		if opts.Width > 0 {
			line = runewidth.Truncate(line, int(opts.Width), "…")
		}
		if opts.Color && opts.Highlight {
			line = Highlight(line)
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutter, ln), line)
	}

	raw := f.GetLine(start.Line)
	col := int(start.Col) - 1
	col = min(col, len(raw))
	pad := runewidth.StringWidth(expandTabs(raw[:col]))
	endCol := len(raw)
	if end.Line == start.Line {
		endCol = min(int(end.Col)-1, len(raw))
	}
	width := 1
	if endCol > col {
		width = max(runewidth.StringWidth(expandTabs(raw[:endCol]))-pad, 1)
	}
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), p.caret.Sprint(underline))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// Short prints one line per diagnostic in the case-file form:
// <path>:<line>:<col>: <Kind> "<span text>" "<arg>".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		if d.Detached {
			fmt.Fprintf(w, "%s\n", diag.FormatExpectation(d, fs))
			continue
		}
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s\n", pathOf(f, mode, fs.BaseDir()), start.Line, start.Col, diag.FormatExpectation(d, fs))
	}
}
