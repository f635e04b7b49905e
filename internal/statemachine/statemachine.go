// Package statemachine detects members that turn into (or stop being)
// iterators or async methods.
package statemachine

import (
	"encrude/internal/ast"
	"encrude/internal/source"
)

// Shape is the code-generation form of a member body.
type Shape uint8

const (
	Plain Shape = iota
	Iterator
	Async
	AsyncIterator
)

func (s Shape) String() string {
	switch s {
	case Plain:
		return "plain"
	case Iterator:
		return "iterator"
	case Async:
		return "async"
	case AsyncIterator:
		return "async iterator"
	default:
		return "shape(?)"
	}
}

func (s Shape) iterator() bool { return s == Iterator || s == AsyncIterator }
func (s Shape) async() bool    { return s == Async || s == AsyncIterator }

// Info is the shape of a member plus the nodes that make it so.
type Info struct {
	Shape  Shape
	Member ast.NodeID
	// Yield is the first yield statement, Await the first await expression.
	// Both ignore nested closures.
	Yield ast.NodeID
	Await ast.NodeID
}

// Classify determines the shape of a member.
func Classify(t *ast.Tree, member ast.NodeID) Info {
	info := Info{Member: member}
	n := t.Node(member)
	if n == nil {
		return info
	}
	t.Walk(member, func(id ast.NodeID) bool {
		if id != member && t.IsClosureNode(id) {
			return false
		}
		switch t.Kind(id) {
		case ast.KindYieldReturnStmt, ast.KindYieldBreakStmt:
			if !info.Yield.IsValid() {
				info.Yield = id
			}
		case ast.KindAwait:
			if !info.Await.IsValid() {
				info.Await = id
			}
		}
		return true
	})
	async := n.Mods.Has(ast.ModAsync) || info.Await.IsValid()
	switch {
	case info.Yield.IsValid() && async:
		info.Shape = AsyncIterator
	case info.Yield.IsValid():
		info.Shape = Iterator
	case async:
		info.Shape = Async
	}
	return info
}

// Transition is a change of shape between two versions of a member.
type Transition uint8

const (
	AddedIterator Transition = iota + 1
	RemovedIterator
	AddedAsync
	RemovedAsync
)

func (tr Transition) String() string {
	switch tr {
	case AddedIterator:
		return "AddedIterator"
	case RemovedIterator:
		return "RemovedIterator"
	case AddedAsync:
		return "AddedAsync"
	case RemovedAsync:
		return "RemovedAsync"
	default:
		return "Transition(?)"
	}
}

// Added reports whether the member became a state machine of some kind.
func (tr Transition) Added() bool { return tr == AddedIterator || tr == AddedAsync }

// Name is the descriptive name of the construct that triggers the transition.
func (tr Transition) Name() string {
	switch tr {
	case AddedIterator, RemovedIterator:
		return "yield statement"
	default:
		return "await expression"
	}
}

// Compare reports the shape change between two versions of a member.
// Iterator changes take precedence over async changes.
func Compare(before, after Info) (Transition, bool) {
	switch {
	case !before.Shape.iterator() && after.Shape.iterator():
		return AddedIterator, true
	case before.Shape.iterator() && !after.Shape.iterator():
		return RemovedIterator, true
	case !before.Shape.async() && after.Shape.async():
		return AddedAsync, true
	case before.Shape.async() && !after.Shape.async():
		return RemovedAsync, true
	}
	return 0, false
}

// Trigger is the span an added transition is reported at: the yield statement
// or the await keyword. A member made async without any await falls back to its header.
func (i Info) Trigger(t *ast.Tree, tr Transition) source.Span {
	switch tr {
	case AddedIterator:
		if i.Yield.IsValid() {
			return t.Span(i.Yield)
		}
	case AddedAsync:
		if i.Await.IsValid() {
			return t.TokenSpan(t.Node(i.Await).First)
		}
	}
	return t.Anchor(i.Member)
}
