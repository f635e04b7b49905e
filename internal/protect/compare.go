package protect

import (
	"encrude/internal/ast"
	"encrude/internal/match"
)

// ChangeKind says how a protecting frame changed around an active statement.
type ChangeKind uint8

const (
	InsertAround ChangeKind = iota + 1
	DeleteAround
	UpdateAround
)

func (k ChangeKind) String() string {
	switch k {
	case InsertAround:
		return "InsertAround"
	case DeleteAround:
		return "DeleteAround"
	case UpdateAround:
		return "UpdateAround"
	default:
		return "ChangeKind(?)"
	}
}

// Change is one difference between the protection stacks. Insert has no
// Before frame, Delete has no After frame.
type Change struct {
	Kind   ChangeKind
	Before Frame
	After  Frame
}

// Name is the descriptive name of the frame that changed.
func (c Change) Name() string {
	if c.Kind == DeleteAround {
		return c.Before.Kind.Name()
	}
	return c.After.Kind.Name()
}

// Compare diffs two protection stacks of the same active statement.
// Exception-handling frames pair through the tree match; wrapper statements
// pair by header text, then by similarity, then by position.
func Compare(m *match.Match, before, after Stack) []Change {
	var out []Change
	out = append(out, compareExceptions(m, before.Protecting(), after.Protecting())...)
	for _, k := range [...]FrameKind{Lock, Using, Fixed, ForEach} {
		out = append(out, compareWrappers(m, outerFirst(before, k), outerFirst(after, k))...)
	}
	return out
}

func compareExceptions(m *match.Match, before, after Stack) []Change {
	var out []Change
	used := make([]bool, len(after))
	for _, b := range before {
		if !b.Kind.exception() {
			continue
		}
		j := -1
		if a, ok := m.Partner(b.Node); ok {
			for i, f := range after {
				if f.Node == a && f.Kind.exception() && !used[i] {
					j = i
					break
				}
			}
		}
		if j < 0 {
			out = append(out, Change{Kind: DeleteAround, Before: b})
			continue
		}
		used[j] = true
		if !equivalent(m, b, after[j]) {
			out = append(out, Change{Kind: UpdateAround, Before: b, After: after[j]})
		}
	}
	for i, a := range after {
		if a.Kind.exception() && !used[i] {
			out = append(out, Change{Kind: InsertAround, After: a})
		}
	}
	return out
}

// equivalent decides whether a paired exception frame still protects the
// statement the same way.
func equivalent(m *match.Match, b, a Frame) bool {
	bt, at := m.Before, m.After
	switch b.Kind {
	case TryBlock:
		bk, ak := bt.Children(b.Node)[1:], at.Children(a.Node)[1:]
		if len(bk) != len(ak) {
			return false
		}
		for i := range bk {
			if bt.Kind(bk[i]) != at.Kind(ak[i]) {
				return false
			}
			if bt.Kind(bk[i]) == ast.KindCatchClause {
				if !sameCatch(bt, bk[i], at, ak[i]) {
					return false
				}
			} else if !ast.Equivalent(bt, bk[i], at, ak[i]) {
				return false
			}
		}
		return true
	case CatchClause, CatchFilter:
		return sameCatch(bt, b.Node, at, a.Node)
	case FinallyClause:
		return true
	}
	// checked/unchecked: одно и то же ключевое слово
	return b.Kind == a.Kind
}

// sameCatch compares the exception declaration and filter of two catch clauses.
func sameCatch(bt *ast.Tree, b ast.NodeID, at *ast.Tree, a ast.NodeID) bool {
	return ast.Equivalent(bt, bt.FirstChild(b, ast.KindCatchDeclaration), at, at.FirstChild(a, ast.KindCatchDeclaration)) &&
		ast.Equivalent(bt, bt.FirstChild(b, ast.KindCatchFilter), at, at.FirstChild(a, ast.KindCatchFilter))
}

func outerFirst(s Stack, k FrameKind) Stack {
	var out Stack
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Kind == k {
			out = append(out, s[i])
		}
	}
	return out
}

// compareWrappers pairs frames of one wrapper kind. Removing a wrapper is
// never reported: releasing the resource early is safe.
func compareWrappers(m *match.Match, before, after Stack) []Change {
	if len(after) == 0 {
		return nil
	}
	bt, at := m.Before, m.After
	pairB := make([]int, len(before))
	pairA := make([]int, len(after))
	for i := range pairB {
		pairB[i] = -1
	}
	for i := range pairA {
		pairA[i] = -1
	}
	link := func(ai, bi int) { pairA[ai], pairB[bi] = bi, ai }

	for ai, a := range after {
		for bi, b := range before {
			if pairB[bi] < 0 && ast.RangeEqual(bt, bt.Node(b.Node).Head, at, at.Node(a.Node).Head) {
				link(ai, bi)
				break
			}
		}
	}
	var out []Change
	for ai, a := range after {
		if pairA[ai] >= 0 {
			continue
		}
		for bi, b := range before {
			if pairB[bi] < 0 && similar(bt, b.Node, at, a.Node) {
				link(ai, bi)
				out = append(out, Change{Kind: UpdateAround, Before: b, After: a})
				break
			}
		}
	}
	for ai, a := range after {
		if pairA[ai] >= 0 {
			continue
		}
		if ai < len(before) && pairB[ai] < 0 {
			link(ai, ai)
			out = append(out, Change{Kind: UpdateAround, Before: before[ai], After: a})
			continue
		}
		out = append(out, Change{Kind: InsertAround, After: a})
	}
	return out
}

// similar: fixed statements declaring the same names, foreach loops over the
// same iteration variable.
func similar(bt *ast.Tree, b ast.NodeID, at *ast.Tree, a ast.NodeID) bool {
	switch bt.Kind(b) {
	case ast.KindFixedStmt:
		bn, an := declaredNames(bt, b), declaredNames(at, a)
		if len(bn) == 0 || len(bn) != len(an) {
			return false
		}
		for i := range bn {
			if bn[i] != an[i] {
				return false
			}
		}
		return true
	case ast.KindForEachStmt:
		bv, av := bt.FirstChild(b, ast.KindForEachVariable), at.FirstChild(a, ast.KindForEachVariable)
		if !bv.IsValid() || !av.IsValid() {
			return false
		}
		bn, an := bt.Node(bv).Name, at.Node(av).Name
		return bn.IsValid() && an.IsValid() && bt.Token(bn).Text == at.Token(an).Text
	}
	return false
}

func declaredNames(t *ast.Tree, stmt ast.NodeID) []string {
	vd := t.FirstChild(stmt, ast.KindVariableDecl)
	var out []string
	for _, d := range t.ChildrenOf(vd, ast.KindVariableDeclarator) {
		if name := t.Node(d).Name; name.IsValid() {
			out = append(out, t.Token(name).Text)
		}
	}
	return out
}
