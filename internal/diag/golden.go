package diag

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"encrude/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation intended for CLI short output: "error ENC5001 path:line:col message".
// Input order is preserved; callers sort the Bag beforehand.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendDiagnostic(rendered, &diags[i], fs, includeNotes)
	}

	var b strings.Builder
	for i, d := range rendered {
		if d.Path == "" {
			fmt.Fprintf(&b, "%s %s <detached> %s", d.Severity, d.Code, d.Message)
		} else {
			fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		}
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendDiagnostic(out []goldenDiagnostic, d *Diagnostic, fs *source.FileSet, includeNotes bool) []goldenDiagnostic {
	if d.Detached {
		out = append(out, goldenDiagnostic{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Message:  sanitizeMessage(d.Message),
		})
	} else if loc, ok := resolveSpan(fs, d.Primary); ok {
		out = append(out, goldenDiagnostic{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(d.Message),
		})
	}

	if includeNotes {
		for _, note := range d.Notes {
			nloc, nok := resolveSpan(fs, note.Span)
			if !nok {
				continue
			}
			out = append(out, goldenDiagnostic{
				Severity: "note",
				Code:     d.Code.ID(),
				Path:     nloc.Path,
				Line:     nloc.Line,
				Column:   nloc.Column,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}

	return out
}

// FormatExpectation renders a rude edit as `Kind "span text" "arg"`, the form
// used by case files and tests. Detached diagnostics print <detached> instead of text.
func FormatExpectation(d Diagnostic, fs *source.FileSet) string {
	var b strings.Builder
	b.WriteString(d.Code.Name())
	b.WriteByte(' ')
	if d.Detached || fs == nil {
		b.WriteString("<detached>")
	} else if f := fs.Get(d.Primary.File); f != nil {
		b.WriteString(strconv.Quote(f.Text(d.Primary)))
	} else {
		b.WriteString("<detached>")
	}
	if d.Arg != "" {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(d.Arg))
	}
	return b.String()
}

// FormatExpectations renders every diagnostic with FormatExpectation, one per line.
func FormatExpectations(diags []Diagnostic, fs *source.FileSet) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, FormatExpectation(d, fs))
	}
	return out
}

// Expectation is the parsed form of a FormatExpectation line.
type Expectation struct {
	Code     Code
	Text     string
	Detached bool
	Arg      string
}

// ParseExpectation parses `Kind "text" ["arg"]` or `Kind <detached> ["arg"]`.
func ParseExpectation(line string) (Expectation, error) {
	line = strings.TrimSpace(line)
	name, rest, _ := strings.Cut(line, " ")
	code, ok := ParseCode(name)
	if !ok {
		return Expectation{}, fmt.Errorf("unknown rude edit kind %q", name)
	}
	exp := Expectation{Code: code}
	rest = strings.TrimSpace(rest)

	if after, found := strings.CutPrefix(rest, "<detached>"); found {
		exp.Detached = true
		rest = strings.TrimSpace(after)
	} else {
		text, tail, err := cutQuoted(rest)
		if err != nil {
			return Expectation{}, fmt.Errorf("span text: %w", err)
		}
		exp.Text = text
		rest = strings.TrimSpace(tail)
	}
	if rest != "" {
		arg, tail, err := cutQuoted(rest)
		if err != nil {
			return Expectation{}, fmt.Errorf("argument: %w", err)
		}
		if strings.TrimSpace(tail) != "" {
			return Expectation{}, fmt.Errorf("trailing input %q", tail)
		}
		exp.Arg = arg
	}
	return exp, nil
}

func cutQuoted(s string) (value, rest string, err error) {
	prefix, err := strconv.QuotedPrefix(s)
	if err != nil {
		return "", "", err
	}
	value, err = strconv.Unquote(prefix)
	if err != nil {
		return "", "", err
	}
	return value, s[len(prefix):], nil
}

// String renders the expectation back to its canonical line.
func (e Expectation) String() string {
	d := Diagnostic{Code: e.Code, Detached: true, Arg: e.Arg}
	if e.Detached {
		return FormatExpectation(d, nil)
	}
	line := FormatExpectation(d, nil)
	return strings.Replace(line, "<detached>", strconv.Quote(e.Text), 1)
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (loc resolvedSpan, ok bool) {
	file := fs.Get(span.File)
	if file == nil {
		return resolvedSpan{}, false
	}
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   normalizePath(file.FormatPath("relative", fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
