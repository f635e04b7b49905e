package diag

import "encrude/internal/source"

// Reporter: минимальный контракт получения диагностик от фаз.
// Реализации: BagReporter (кладёт в Bag), DedupReporter, NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
// An empty msg is filled from the code template when the builder is emitted.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag: Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  msg,
			Primary:  primary,
			Category: code.DefaultCategory(),
		},
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

// ReportRude starts a rude-edit diagnostic anchored at primary.
func ReportRude(r Reporter, code Code, primary source.Span, arg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, "").WithArg(arg)
}

// ReportDetached starts a rude-edit diagnostic that has no span in the after document.
func ReportDetached(r Reporter, code Code, arg string) *ReportBuilder {
	b := NewReportBuilder(r, SevError, code, source.Span{}, "").WithArg(arg)
	b.diag.Detached = true
	return b
}

// WithArg sets the descriptive argument.
func (b *ReportBuilder) WithArg(arg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Arg = arg
	return b
}

// InCategory overrides the ordering category.
func (b *ReportBuilder) InCategory(c Category) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Category = c
	return b
}

// WithNote appends a note to diagnostic.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Notes = append(b.diag.Notes, Note{Span: sp, Msg: msg})
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.Diagnostic())
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	d := b.diag
	if d.Message == "" {
		d.Message = d.Code.Format(d.Arg)
	}
	return d
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
