package driver

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"fortio.org/safecast"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/markup"
	"encrude/internal/observ"
	"encrude/internal/patch"
	"encrude/internal/rude"
	"encrude/internal/source"
	"encrude/internal/trace"
)

// PairInput is one document before and after an edit, both possibly carrying
// <AS:N> markup. Only the markup of the before text defines active statements.
type PairInput struct {
	BeforePath string
	AfterPath  string
	Before     []byte
	After      []byte
	// Patch, when set, replaces After: the unified diff is applied to Before.
	Patch []byte
	// Leaf lists the leaf statement ids; nil keeps the AS:0 convention.
	Leaf []int
}

// Options tune AnalyzePair.
type Options struct {
	Provider       Provider
	MaxDiagnostics int
	Cache          *DiskCache
	// Session is recorded in cache entries and trace spans.
	Session  string
	Observer PhaseObserver
}

// StatementOutcome is the cacheable part of rude.Outcome.
type StatementOutcome struct {
	ID       int
	Leaf     bool
	State    rude.State
	Before   source.Span
	After    source.Span
	HasAfter bool
}

// PairResult holds everything the CLI renders for one pair.
type PairResult struct {
	FileSet  *source.FileSet
	Before   *source.File
	After    *source.File
	Bag      *diag.Bag
	Outcomes []StatementOutcome
	// Analysis is nil when the result came from the cache or the input was unusable.
	Analysis *rude.Result
	Timer    *observ.Timer
	Cached   bool
}

// Rude reports whether the pair needs a restart.
func (r *PairResult) Rude() bool {
	return r != nil && r.Bag.HasRude()
}

// Broken reports whether the input could not be analysed (markup, patch, syntax).
func (r *PairResult) Broken() bool {
	return r != nil && r.Bag.HasErrors() && !r.Bag.HasRude()
}

// AnalyzePair runs the whole pipeline for one document pair. Problems with the
// input end up in the bag; the error is reserved for cancellation and internal faults.
func AnalyzePair(ctx context.Context, fs *source.FileSet, in PairInput, opts Options) (*PairResult, error) {
	if fs == nil {
		fs = source.NewFileSet()
	}
	provider, err := ParseProvider(string(opts.Provider))
	if err != nil {
		return nil, err
	}
	ctx, span := trace.Start(ctx, trace.ScopePair, "pair")
	span.WithExtra("before", in.BeforePath).
		WithExtra("provider", string(provider))
	if opts.Session != "" {
		span.WithExtra("session", opts.Session)
	}

	res := &PairResult{
		FileSet: fs,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Timer:   observ.NewTimer(),
	}
	ph := phases{timer: res.Timer, observer: opts.Observer}
	defer func() {
		span.End(fmt.Sprintf("diagnostics=%d cached=%v", res.Bag.Len(), res.Cached))
	}()

	// load: нормализация, патч, снятие разметки
	end := ph.begin("load")
	rawBefore, flagsBefore := source.Normalize(in.Before)
	rawAfter := in.After
	if in.Patch != nil {
		applied, perr := patch.Apply(rawBefore, bytes.NewReader(in.Patch), in.BeforePath)
		if perr != nil {
			end("patch failed")
			ioError(res.Bag, diag.IOPatchError, perr)
			return res, nil
		}
		rawAfter = applied
	}
	rawAfter, flagsAfter := source.Normalize(rawAfter)

	cleanBefore, marks, merr := markup.Parse(string(rawBefore))
	if merr != nil {
		end("markup failed")
		ioError(res.Bag, diag.IOMarkupError, fmt.Errorf("%s: %w", in.BeforePath, merr))
		return res, nil
	}
	cleanAfter, _, merr := markup.Parse(string(rawAfter))
	if merr != nil {
		end("markup failed")
		ioError(res.Bag, diag.IOMarkupError, fmt.Errorf("%s: %w", in.AfterPath, merr))
		return res, nil
	}
	if in.Leaf != nil {
		markup.Leaf(marks, in.Leaf)
	}
	res.Before = fs.Get(fs.Add(pathOr(in.BeforePath, "before.cs"), []byte(cleanBefore), flagsBefore))
	res.After = fs.Get(fs.Add(pathOr(in.AfterPath, "after.cs"), []byte(cleanAfter), flagsAfter))
	stmts, err := statements(res.Before, marks)
	if err != nil {
		end("bad offsets")
		return nil, err
	}
	end(fmt.Sprintf("statements=%d", len(stmts)))

	key := pairKey(provider, res.Before, res.After, stmts, opts.MaxDiagnostics)
	if opts.Cache != nil {
		var cached CachedResult
		if ok, cerr := opts.Cache.Get(key, &cached); cerr == nil && ok {
			res.restore(&cached)
			res.Cached = true
			return res, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	end = ph.begin("parse")
	rep := diag.BagReporter{Bag: res.Bag}
	maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
	if err != nil {
		return nil, err
	}
	var trees [2]*ast.Tree
	for i, f := range []*source.File{res.Before, res.After} {
		tree, perr := parseWith(ctx, provider, f, rep, maxErrors)
		if perr != nil {
			end("provider failed")
			ioError(res.Bag, diag.IOProviderError, perr)
			return res, nil
		}
		trees[i] = tree
	}
	end(fmt.Sprintf("nodes=%d+%d", trees[0].Len(), trees[1].Len()))
	if res.Bag.HasErrors() {
		// синтаксические ошибки: анализ на неполных деревьях не проводим
		return res, nil
	}

	end = ph.begin("analyze")
	analysis, err := rude.Analyze(ctx, rude.Input{Before: trees[0], After: trees[1], Statements: stmts},
		rude.Options{MaxDiagnostics: opts.MaxDiagnostics})
	if err != nil {
		end("fault")
		return nil, fmt.Errorf("%s: %w", in.BeforePath, err)
	}
	end(fmt.Sprintf("diagnostics=%d", len(analysis.Diagnostics)))

	res.Analysis = analysis
	for _, d := range analysis.Diagnostics {
		res.Bag.Add(d)
	}
	for _, o := range analysis.Outcomes {
		so := StatementOutcome{ID: o.Statement.ID, Leaf: o.Statement.Leaf, State: o.State, Before: o.Statement.Span}
		so.After, so.HasAfter = o.AfterSpan()
		res.Outcomes = append(res.Outcomes, so)
	}

	if opts.Cache != nil {
		// кэш best effort: ошибка записи не портит результат
		_ = opts.Cache.Put(key, res.payload(provider, opts.Session))
	}
	return res, nil
}

func statements(f *source.File, marks []markup.Mark) ([]rude.ActiveStatement, error) {
	out := make([]rude.ActiveStatement, 0, len(marks))
	for _, m := range marks {
		start, err := safecast.Conv[uint32](m.Start)
		if err != nil {
			return nil, err
		}
		end, err := safecast.Conv[uint32](m.End)
		if err != nil {
			return nil, err
		}
		out = append(out, rude.ActiveStatement{
			ID:   m.ID,
			Span: source.Span{File: f.ID, Start: start, End: end},
			Leaf: m.Leaf,
		})
	}
	return out, nil
}

func ioError(bag *diag.Bag, code diag.Code, err error) {
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  err.Error(),
		Detached: true,
		Category: diag.CatTool,
	})
}

func pathOr(p, def string) string {
	if p == "" {
		return def
	}
	return p
}

func (r *PairResult) payload(p Provider, session string) *CachedResult {
	out := &CachedResult{
		Session:  session,
		Provider: string(p),
		Created:  time.Now().Unix(),
	}
	for _, d := range r.Bag.Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Detached: d.Detached,
			Arg:      d.Arg,
			Message:  d.Message,
			Category: uint8(d.Category),
		}
		if d.Primary.File == r.After.ID {
			cd.File = 1
		}
		out.Diagnostics = append(out.Diagnostics, cd)
	}
	for _, o := range r.Outcomes {
		out.Outcomes = append(out.Outcomes, CachedOutcome{
			ID:       o.ID,
			Leaf:     o.Leaf,
			State:    uint8(o.State),
			BStart:   o.Before.Start,
			BEnd:     o.Before.End,
			Start:    o.After.Start,
			End:      o.After.End,
			HasAfter: o.HasAfter,
		})
	}
	return out
}

func (r *PairResult) restore(c *CachedResult) {
	fileOf := func(i uint8) source.FileID {
		if i == 1 {
			return r.After.ID
		}
		return r.Before.ID
	}
	for _, cd := range c.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Detached: cd.Detached,
			Arg:      cd.Arg,
			Category: diag.Category(cd.Category),
		}
		if !cd.Detached {
			d.Primary = source.Span{File: fileOf(cd.File), Start: cd.Start, End: cd.End}
		}
		r.Bag.Add(d)
	}
	for _, co := range c.Outcomes {
		so := StatementOutcome{
			ID:       co.ID,
			Leaf:     co.Leaf,
			State:    rude.State(co.State),
			Before:   source.Span{File: r.Before.ID, Start: co.BStart, End: co.BEnd},
			HasAfter: co.HasAfter,
		}
		if co.HasAfter {
			so.After = source.Span{File: r.After.ID, Start: co.Start, End: co.End}
		}
		r.Outcomes = append(r.Outcomes, so)
	}
}
