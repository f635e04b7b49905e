// Package protect computes the protected regions around an active statement
// and diffs them between two versions of a member body.
package protect

import (
	"encrude/internal/ast"
	"encrude/internal/match"
	"encrude/internal/source"
	"encrude/internal/token"
)

// FrameKind is the kind of a construct enclosing an active statement.
type FrameKind uint8

const (
	FrameInvalid FrameKind = iota
	TryBlock
	CatchClause
	CatchFilter
	FinallyClause
	Lock
	Using
	Fixed
	ForEach
	Checked
	Unchecked
	SwitchSection
	Loop
	StateMachineAwait
	StateMachineYield
)

var frameNames = [...]string{
	FrameInvalid:      "invalid",
	TryBlock:          "try block",
	CatchClause:       "catch clause",
	CatchFilter:       "catch clause",
	FinallyClause:     "finally clause",
	Lock:              "lock statement",
	Using:             "using statement",
	Fixed:             "fixed statement",
	ForEach:           "foreach statement",
	Checked:           "checked statement",
	Unchecked:         "unchecked statement",
	SwitchSection:     "switch section",
	Loop:              "loop",
	StateMachineAwait: "await expression",
	StateMachineYield: "yield statement",
}

// Name is the descriptive name used as a diagnostic argument.
func (k FrameKind) Name() string {
	if int(k) < len(frameNames) {
		return frameNames[k]
	}
	return "frame(?)"
}

func (k FrameKind) String() string { return k.Name() }

// Protecting reports whether frames of this kind take part in the diff.
func (k FrameKind) Protecting() bool {
	return k.exception() || k.wrapper()
}

func (k FrameKind) exception() bool {
	switch k {
	case TryBlock, CatchClause, CatchFilter, FinallyClause, Checked, Unchecked:
		return true
	}
	return false
}

func (k FrameKind) wrapper() bool {
	switch k {
	case Lock, Using, Fixed, ForEach:
		return true
	}
	return false
}

// Frame is one enclosing construct. Node is the try statement for TryBlock,
// the catch clause for CatchClause/CatchFilter and the statement itself otherwise.
type Frame struct {
	Kind FrameKind
	Node ast.NodeID
}

// Anchor is the span diagnostics about the frame point at: the keyword of
// try/catch/finally/checked, the header of wrapper statements.
func (f Frame) Anchor(t *ast.Tree) source.Span {
	switch f.Kind {
	case TryBlock, FinallyClause, Checked, Unchecked:
		return t.TokenSpan(t.Node(f.Node).First)
	}
	return t.Anchor(f.Node)
}

// Stack lists the frames around an active statement, innermost first.
type Stack []Frame

// Protecting returns the frames that take part in the diff.
func (s Stack) Protecting() Stack {
	var out Stack
	for _, f := range s {
		if f.Kind.Protecting() {
			out = append(out, f)
		}
	}
	return out
}

func wrapperKind(k ast.Kind) FrameKind {
	switch k {
	case ast.KindLockStmt:
		return Lock
	case ast.KindUsingStmt:
		return Using
	case ast.KindFixedStmt:
		return Fixed
	case ast.KindForEachStmt:
		return ForEach
	}
	return FrameInvalid
}

// Of collects the frames enclosing the site. Collection stops at the member;
// after crossing into a closure body only checked/unchecked frames count.
func Of(t *ast.Tree, site match.Site, leaf bool) Stack {
	var out Stack
	if !site.Valid() {
		return out
	}
	self := t.Kind(site.Node)
	switch {
	case self == ast.KindYieldReturnStmt:
		out = append(out, Frame{Kind: StateMachineYield, Node: site.Node})
	case containsAwait(t, site.Node):
		out = append(out, Frame{Kind: StateMachineAwait, Node: site.Node})
	}
	if site.Part == match.PartHead {
		// заголовок принадлежит своему оператору
		if wk := wrapperKind(self); wk != FrameInvalid {
			out = append(out, Frame{Kind: wk, Node: site.Node})
		} else if self.IsLoop() {
			out = append(out, Frame{Kind: Loop, Node: site.Node})
		}
	}

	crossed := false
	child := site.Node
	for cur := t.Parent(site.Node); cur.IsValid(); child, cur = cur, t.Parent(cur) {
		n := t.Node(cur)
		if n.Kind.IsMember() || n.Kind.IsTypeContainer() {
			break
		}
		if t.IsClosureNode(cur) && t.ClosureBodyContains(cur, child) {
			crossed = true
			continue
		}
		if n.Kind == ast.KindCheckedStmt {
			if !leaf {
				k := Checked
				if n.Op == token.KwUnchecked {
					k = Unchecked
				}
				out = append(out, Frame{Kind: k, Node: cur})
			}
			continue
		}
		if crossed {
			continue
		}
		switch n.Kind {
		case ast.KindTryStmt:
			if !leaf && len(n.Children) > 0 && n.Children[0] == child {
				out = append(out, Frame{Kind: TryBlock, Node: cur})
			}
		case ast.KindCatchClause:
			k := CatchClause
			if t.Kind(child) == ast.KindCatchFilter {
				k = CatchFilter
			}
			out = append(out, Frame{Kind: k, Node: cur})
		case ast.KindFinallyClause:
			out = append(out, Frame{Kind: FinallyClause, Node: cur})
		case ast.KindLockStmt, ast.KindUsingStmt, ast.KindFixedStmt, ast.KindForEachStmt:
			out = append(out, Frame{Kind: wrapperKind(n.Kind), Node: cur})
		case ast.KindWhileStmt, ast.KindDoStmt, ast.KindForStmt:
			out = append(out, Frame{Kind: Loop, Node: cur})
		case ast.KindSwitchSection:
			out = append(out, Frame{Kind: SwitchSection, Node: cur})
		case ast.KindAwait:
			out = append(out, Frame{Kind: StateMachineAwait, Node: cur})
		}
	}
	return out
}

// containsAwait reports whether an await outside nested closures belongs to the node.
func containsAwait(t *ast.Tree, id ast.NodeID) bool {
	found := false
	t.Walk(id, func(n ast.NodeID) bool {
		if found || (n != id && t.IsClosureNode(n)) {
			return false
		}
		if t.Kind(n) == ast.KindAwait {
			found = true
			return false
		}
		return true
	})
	return found
}
