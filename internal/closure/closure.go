// Package closure tracks the lambdas, anonymous methods, local functions and
// lambda-lowered query clauses an active statement executes in.
package closure

import (
	"encrude/internal/ast"
	"encrude/internal/match"
	"encrude/internal/source"
	"encrude/internal/token"
)

// Step is one closure on the way from a node to its member, Kind being the closure node kind.
type Step struct {
	Kind ast.Kind
	Node ast.NodeID
}

// Path lists the closures whose body holds a node, innermost first.
type Path []Step

// Name is the descriptive name of a closure kind.
func Name(k ast.Kind) string {
	switch k {
	case ast.KindLambda:
		return "lambda"
	case ast.KindLocalFunctionStmt:
		return "local function"
	case ast.KindAnonymousMethod:
		return "anonymous method"
	case ast.KindWhereClause:
		return "where clause"
	case ast.KindLetClause:
		return "let clause"
	case ast.KindJoinClause:
		return "join clause"
	case ast.KindOrderByClause:
		return "orderby clause"
	case ast.KindSelectClause:
		return "select clause"
	case ast.KindGroupClause:
		return "groupby clause"
	case ast.KindFromClause:
		return "from clause"
	}
	return k.String()
}

// PathOf collects the closures around id up to the enclosing member.
// A closure counts only when id sits in its lowered body.
func PathOf(t *ast.Tree, id ast.NodeID) Path {
	var out Path
	child := id
	for cur := t.Parent(id); cur.IsValid(); child, cur = cur, t.Parent(cur) {
		k := t.Kind(cur)
		if k.IsMember() || k.IsTypeContainer() {
			break
		}
		if t.ClosureBodyContains(cur, child) {
			out = append(out, Step{Kind: k, Node: cur})
		}
	}
	return out
}

// Inside is the path of a position in the body of id: the closures around id,
// preceded by id itself when it is a closure.
func Inside(t *ast.Tree, id ast.NodeID) Path {
	p := PathOf(t, id)
	if t.IsClosureNode(id) {
		p = append(Path{{Kind: t.Kind(id), Node: id}}, p...)
	}
	return p
}

// ChangeKind says how the closure membership of a statement changed.
type ChangeKind uint8

const (
	// Removed: the statement left a closure that no longer exists.
	Removed ChangeKind = iota + 1
	// FormChanged: a lambda became an anonymous method or back.
	FormChanged
)

// Change describes the innermost closure the statement lost.
type Change struct {
	Kind   ChangeKind
	Before Step
	After  Step
}

// Name is the descriptive name of the removed construct.
func (c Change) Name() string { return Name(c.Before.Kind) }

// Compare walks the before path innermost first and reports the first step
// not matched to a step of the after path. A lambda replaced in place by an
// anonymous method (or the reverse) is a form change, not a removal.
func Compare(m *match.Match, before, after Path) (Change, bool) {
	on := make(map[ast.NodeID]bool, len(after))
	for _, s := range after {
		on[s.Node] = true
	}
	for _, s := range before {
		if a, ok := m.Partner(s.Node); ok && on[a] {
			continue
		}
		if conv, ok := replacement(m, s); ok {
			return Change{Kind: FormChanged, Before: s, After: conv}, true
		}
		return Change{Kind: Removed, Before: s}, true
	}
	return Change{}, false
}

// replacement looks for an unmatched closure of the converted form directly
// under the partner of the nearest matched ancestor of s.
func replacement(m *match.Match, s Step) (Step, bool) {
	bt, at := m.Before, m.After
	for cur := bt.Parent(s.Node); cur.IsValid(); cur = bt.Parent(cur) {
		a, ok := m.Partner(cur)
		if !ok {
			continue
		}
		var found Step
		at.Walk(a, func(id ast.NodeID) bool {
			if found.Node.IsValid() {
				return false
			}
			if id == a || !at.IsClosureNode(id) {
				return true
			}
			if _, matched := m.Reverse(id); !matched && convertible(s.Kind, at.Kind(id)) {
				found = Step{Kind: at.Kind(id), Node: id}
			}
			return false
		})
		return found, found.Node.IsValid()
	}
	return Step{}, false
}

func convertible(a, b ast.Kind) bool {
	return (a == ast.KindLambda && b == ast.KindAnonymousMethod) ||
		(a == ast.KindAnonymousMethod && b == ast.KindLambda)
}

// Form is an outermost lambda-like construct of a member body.
type Form struct {
	Kind   ast.Kind
	Node   ast.NodeID
	Anchor source.Span
}

// Forms lists the outermost lambdas, anonymous methods and queries of a member
// in document order.
func Forms(t *ast.Tree, member ast.NodeID) []Form {
	var out []Form
	t.Walk(member, func(id ast.NodeID) bool {
		switch k := t.Kind(id); k {
		case ast.KindLambda:
			out = append(out, Form{Kind: k, Node: id, Anchor: t.Anchor(id)})
			return false
		case ast.KindAnonymousMethod:
			out = append(out, Form{Kind: k, Node: id, Anchor: delegateKeyword(t, id)})
			return false
		case ast.KindQuery:
			out = append(out, Form{Kind: k, Node: id, Anchor: t.Anchor(id)})
			return false
		}
		return true
	})
	return out
}

func delegateKeyword(t *ast.Tree, id ast.NodeID) source.Span {
	if tok, ok := t.FindToken(id, token.KwDelegate); ok {
		return t.TokenSpan(tok)
	}
	return t.Anchor(id)
}
