// Package rude decides whether an edit can be applied to a paused program.
// It tracks every active statement from the old document into the new one
// and reports the edits that would break the frames executing it.
package rude

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"encrude/internal/ast"
	"encrude/internal/closure"
	"encrude/internal/diag"
	"encrude/internal/match"
	"encrude/internal/protect"
	"encrude/internal/source"
	"encrude/internal/statemachine"
	"encrude/internal/trace"
)

// ErrInternalFault wraps invariant violations of the analysis itself.
var ErrInternalFault = errors.New("internal fault")

// ActiveStatement is a span executing on some call stack, in the before document.
// Leaf statements are the top frame of their stack: only code after them changes.
type ActiveStatement struct {
	ID   int
	Span source.Span
	Leaf bool
}

// Input is one document pair.
type Input struct {
	Before     *ast.Tree
	After      *ast.Tree
	Statements []ActiveStatement
}

// Options tune the analysis.
type Options struct {
	// MaxDiagnostics caps the result; 0 keeps everything.
	MaxDiagnostics int
}

// Outcome records how one active statement was classified.
type Outcome struct {
	Statement ActiveStatement
	State     State
	Site      match.Site
	Tracking  match.Tracking
}

// AfterSpan is where the statement ended up in the new document.
func (o Outcome) AfterSpan() (source.Span, bool) {
	if o.State == Unresolved || o.Tracking.Anchor.Empty() {
		return source.Span{}, false
	}
	return o.Tracking.Anchor, true
}

// Result is the ordered diagnostics plus per-statement outcomes sorted by ID.
type Result struct {
	Diagnostics []diag.Diagnostic
	Outcomes    []Outcome
	Match       *match.Match
}

// Rude reports whether the edit needs a restart.
func (r *Result) Rude() bool {
	return r != nil && len(r.Diagnostics) > 0
}

type analyzer struct {
	m   *match.Match
	bag *diag.Bag

	// rep: по одному отчёту на исход каждой активной инструкции, без слияния;
	// decl: отчёты об объявлениях и формах, одинаковые сливаются
	rep  diag.Reporter
	decl diag.Reporter

	// члены с активными инструкциями, в порядке первой встречи
	members []ast.NodeID
	seen    map[ast.NodeID]bool

	// члены, о смене формы которых (iterator/async) уже сообщено
	shape map[ast.NodeID]shapeChange
}

type shapeChange struct {
	changed  bool
	reported bool
}

// Analyze matches the trees, classifies every active statement and runs the
// declaration and lambda-form passes. No partial result is returned on error.
func Analyze(ctx context.Context, in Input, opts Options) (*Result, error) {
	if in.Before == nil || in.After == nil {
		return nil, fmt.Errorf("%w: both trees are required", ErrInternalFault)
	}
	ctx, span := trace.Start(ctx, trace.ScopePass, "rude")

	m := match.Trees(ctx, in.Before, in.After)
	if err := m.Verify(); err != nil {
		span.End("fault")
		return nil, fmt.Errorf("%w: %w", ErrInternalFault, err)
	}

	bag := diag.NewBag(0)
	a := &analyzer{
		m:     m,
		bag:   bag,
		rep:   diag.BagReporter{Bag: bag},
		decl:  diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		seen:  make(map[ast.NodeID]bool),
		shape: make(map[ast.NodeID]shapeChange),
	}

	stmts := slices.Clone(in.Statements)
	slices.SortStableFunc(stmts, func(x, y ActiveStatement) int {
		if x.Span.Start != y.Span.Start {
			return int(x.Span.Start) - int(y.Span.Start)
		}
		return x.ID - y.ID
	})
	outcomes := make([]Outcome, 0, len(stmts))
	for _, s := range stmts {
		o, err := a.statement(s)
		if err != nil {
			span.End("fault")
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	slices.SortStableFunc(outcomes, func(x, y Outcome) int { return x.Statement.ID - y.Statement.ID })

	a.declarations()
	a.lambdaForms()

	bag.Sort()
	diags := slices.Clone(bag.Items())
	if opts.MaxDiagnostics > 0 && len(diags) > opts.MaxDiagnostics {
		diags = diags[:opts.MaxDiagnostics]
	}
	span.WithExtra("statements", strconv.Itoa(len(stmts))).End(fmt.Sprintf("diagnostics=%d", len(diags)))
	return &Result{Diagnostics: diags, Outcomes: outcomes, Match: m}, nil
}

func (a *analyzer) statement(s ActiveStatement) (Outcome, error) {
	bt, at := a.m.Before, a.m.After
	o := Outcome{Statement: s}
	site, ok := match.Locate(bt, s.Span)
	if !ok {
		o.State = Unresolved
		return o, nil
	}
	o.Site = site
	tr := match.Track(a.m, site)
	o.Tracking = tr
	if tr.After.Valid() && at.Node(tr.After.Node) == nil {
		return o, fmt.Errorf("%w: active statement %d tracked outside the new tree", ErrInternalFault, s.ID)
	}
	if tr.Deleted && tr.After.Valid() {
		return o, fmt.Errorf("%w: active statement %d is both deleted and mapped", ErrInternalFault, s.ID)
	}

	member := bt.EnclosingMember(site.Node)
	if member.IsValid() && !a.seen[member] {
		a.seen[member] = true
		a.members = append(a.members, member)
	}

	switch {
	case tr.Deleted:
		o.State = a.deleted(s, site, tr)
	case tr.Relocated:
		// инициализаторы полей выполняются единым блоком конструктора
		o.State = Preserved
	default:
		o.State = a.survived(s, site, tr, member)
	}
	return o, nil
}

// deleted handles a statement without a counterpart. Leaf statements may
// disappear; a removed enclosing closure is reported either way.
func (a *analyzer) deleted(s ActiveStatement, site match.Site, tr match.Tracking) State {
	bt, at := a.m.Before, a.m.After
	if tr.MemberDeleted || !tr.Ancestor.IsValid() {
		return Deleted
	}
	if ch, ok := closure.Compare(a.m, closure.PathOf(bt, site.Node), closure.Inside(at, tr.Ancestor)); ok {
		if ch.Kind == closure.Removed {
			diag.ReportRude(a.rep, diag.RudeActiveStatementLambdaRemoved, tr.Anchor, ch.Name()).Emit()
		}
		return ClosureMembershipChanged
	}
	if !s.Leaf {
		diag.ReportRude(a.rep, diag.RudeActiveStatementDeleted, tr.Anchor, "").Emit()
	}
	return Deleted
}

// survived runs the independent checks for a statement that kept its counterpart.
// The first check that fires decides the state; every check may report.
func (a *analyzer) survived(s ActiveStatement, site match.Site, tr match.Tracking, member ast.NodeID) State {
	bt, at := a.m.Before, a.m.After
	state := Preserved
	set := func(st State) {
		if state == Preserved {
			state = st
		}
	}

	changes := protect.Compare(a.m, protect.Of(bt, site, s.Leaf), protect.Of(at, tr.After, s.Leaf))
	for _, ch := range changes {
		switch ch.Kind {
		case protect.InsertAround:
			diag.ReportRude(a.rep, diag.RudeInsertAroundActiveStatement, ch.After.Anchor(at), ch.Name()).Emit()
			set(ReparentedIntoProtection)
		case protect.DeleteAround:
			diag.ReportRude(a.rep, diag.RudeDeleteAroundActiveStatement, tr.Anchor, ch.Name()).Emit()
			set(ReparentedOutOfProtection)
		case protect.UpdateAround:
			diag.ReportRude(a.rep, diag.RudeUpdateAroundActiveStatement, ch.After.Anchor(at), ch.Name()).Emit()
			set(ReparentedIntoProtection)
		}
	}

	before, after := closure.PathOf(bt, site.Node), closure.PathOf(at, tr.After.Node)
	if len(before) == 0 && len(after) == 0 && a.shapeChanged(member, tr) {
		set(DeclarationKindChanged)
	}

	if ch, ok := closure.Compare(a.m, before, after); ok {
		if ch.Kind == closure.Removed {
			diag.ReportRude(a.rep, diag.RudeActiveStatementLambdaRemoved, tr.Anchor, ch.Name()).Emit()
		}
		set(ClosureMembershipChanged)
	}

	switch {
	case match.SiteChanged(a.m, tr):
		if !s.Leaf {
			diag.ReportRude(a.rep, diag.RudeActiveStatementUpdate, tr.Anchor, "").Emit()
		}
		set(StructurallyUpdated)
	case bt.File.Text(site.Span(bt)) != at.File.Text(tr.Anchor):
		set(TextOnlyUpdated)
	}
	return state
}

// shapeChanged reports whether the member became or stopped being an iterator
// or async method. The diagnostic is emitted once per member: added shapes
// point at the first yield/await, removed ones at the first direct active statement.
func (a *analyzer) shapeChanged(member ast.NodeID, tr match.Tracking) bool {
	if !member.IsValid() {
		return false
	}
	am, ok := a.m.Partner(member)
	if !ok {
		return false
	}
	sc, known := a.shape[member]
	if known && sc.reported {
		return sc.changed
	}
	bi := statemachine.Classify(a.m.Before, member)
	ai := statemachine.Classify(a.m.After, am)
	t, changed := statemachine.Compare(bi, ai)
	sc = shapeChange{changed: changed, reported: true}
	a.shape[member] = sc
	if !changed {
		return false
	}
	if t.Added() {
		diag.ReportRude(a.decl, diag.RudeInsertAroundActiveStatement, ai.Trigger(a.m.After, t), t.Name()).
			InCategory(diag.CatDeclarationKind).Emit()
	} else {
		diag.ReportRude(a.decl, diag.RudeDeleteAroundActiveStatement, tr.Anchor, t.Name()).
			InCategory(diag.CatDeclarationKind).Emit()
	}
	return true
}
