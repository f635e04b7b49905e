// Package match pairs the nodes of two versions of a syntax tree and maps
// active-statement sites from the old version onto the new one.
package match

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/pmezard/go-difflib/difflib"

	"encrude/internal/ast"
	"encrude/internal/trace"
)

// ErrInconsistent is returned by Verify when the mapping breaks its invariants.
var ErrInconsistent = errors.New("inconsistent node match")

// Match is a one-to-one partial mapping between the nodes of Before and After.
// Paired nodes always have the same kind.
type Match struct {
	Before *ast.Tree
	After  *ast.Tree

	fwd   []ast.NodeID // before id -> after id
	rev   []ast.NodeID // after id -> before id
	pairs int

	// кэш поддеревьев партнёров для фазы восстановления
	subtrees map[ast.NodeID][]ast.NodeID
}

// Trees matches two trees: roots first, then a top-down alignment of children,
// then a recovery pass for nodes that moved within their member.
func Trees(ctx context.Context, before, after *ast.Tree) *Match {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "match", trace.CurrentSpan(ctx).SpanID)

	m := &Match{
		Before:   before,
		After:    after,
		fwd:      make([]ast.NodeID, before.Len()+1),
		rev:      make([]ast.NodeID, after.Len()+1),
		subtrees: make(map[ast.NodeID][]ast.NodeID),
	}
	if before.Root.IsValid() && after.Root.IsValid() && before.Kind(before.Root) == after.Kind(after.Root) {
		m.pair(before.Root, after.Root)
		m.descend(before.Root, after.Root)
	}
	recovered := m.recover()
	m.subtrees = nil

	span.WithExtra("recovered", strconv.Itoa(recovered)).End(fmt.Sprintf("pairs=%d", m.pairs))
	return m
}

// Partner returns the after node paired with a before node.
func (m *Match) Partner(before ast.NodeID) (ast.NodeID, bool) {
	if int(before) >= len(m.fwd) {
		return ast.NoNodeID, false
	}
	a := m.fwd[before]
	return a, a.IsValid()
}

// Reverse returns the before node paired with an after node.
func (m *Match) Reverse(after ast.NodeID) (ast.NodeID, bool) {
	if int(after) >= len(m.rev) {
		return ast.NoNodeID, false
	}
	b := m.rev[after]
	return b, b.IsValid()
}

// Matched reports whether a before node has a partner.
func (m *Match) Matched(before ast.NodeID) bool {
	_, ok := m.Partner(before)
	return ok
}

// Len is the number of recorded pairs.
func (m *Match) Len() int { return m.pairs }

// Verify checks that the mapping is one-to-one and kind-preserving.
func (m *Match) Verify() error {
	count := 0
	for b, a := range m.fwd {
		if !a.IsValid() {
			continue
		}
		count++
		if int(a) >= len(m.rev) || m.rev[a] != ast.NodeID(b) {
			return fmt.Errorf("%w: before node %d maps to %d, which maps back to %d", ErrInconsistent, b, a, m.rev[a])
		}
		if kb, ka := m.Before.Kind(ast.NodeID(b)), m.After.Kind(a); kb != ka {
			return fmt.Errorf("%w: %s node %d paired with %s node %d", ErrInconsistent, kb, b, ka, a)
		}
	}
	for a, b := range m.rev {
		if b.IsValid() && m.fwd[b] != ast.NodeID(a) {
			return fmt.Errorf("%w: after node %d is claimed by %d", ErrInconsistent, a, b)
		}
	}
	if count != m.pairs {
		return fmt.Errorf("%w: %d pairs recorded, %d found", ErrInconsistent, m.pairs, count)
	}
	return nil
}

func (m *Match) pair(b, a ast.NodeID) {
	m.fwd[b] = a
	m.rev[a] = b
	m.pairs++
}

// descend aligns the still unmatched children of a matched pair and recurses
// into every aligned pair.
func (m *Match) descend(b, a ast.NodeID) {
	var bs, as []ast.NodeID
	for _, c := range m.Before.Children(b) {
		if !m.Matched(c) {
			bs = append(bs, c)
		}
	}
	for _, c := range m.After.Children(a) {
		if _, ok := m.Reverse(c); !ok {
			as = append(as, c)
		}
	}
	if len(bs) == 0 || len(as) == 0 {
		return
	}
	aligned := m.align(bs, as)
	for _, p := range aligned {
		m.pair(p[0], p[1])
	}
	for _, p := range aligned {
		m.descend(p[0], p[1])
	}
}

// align pairs two child lists: exact anchors first (kind + tokens), then
// kind-only alignment inside each gap between anchors.
func (m *Match) align(bs, as []ast.NodeID) [][2]ast.NodeID {
	exact := difflib.NewMatcherWithJunk(m.keys(m.Before, bs, true), m.keys(m.After, as, true), false, nil)
	var out [][2]ast.NodeID
	bi, ai := 0, 0
	for _, blk := range exact.GetMatchingBlocks() {
		var anchors [][2]ast.NodeID
		for k := 0; k < blk.Size; k++ {
			b, a := bs[blk.A+k], as[blk.B+k]
			if !ast.Equivalent(m.Before, b, m.After, a) {
				// коллизия хэша: пусть решает выравнивание по виду
				continue
			}
			anchors = append(anchors, [2]ast.NodeID{b, a})
		}
		out = append(out, m.alignKinds(bs[bi:blk.A], as[ai:blk.B])...)
		out = append(out, anchors...)
		bi, ai = blk.A+blk.Size, blk.B+blk.Size
	}
	return out
}

func (m *Match) alignKinds(bs, as []ast.NodeID) [][2]ast.NodeID {
	if len(bs) == 0 || len(as) == 0 {
		return nil
	}
	sm := difflib.NewMatcherWithJunk(m.keys(m.Before, bs, false), m.keys(m.After, as, false), false, nil)
	var out [][2]ast.NodeID
	for _, blk := range sm.GetMatchingBlocks() {
		for k := 0; k < blk.Size; k++ {
			out = append(out, [2]ast.NodeID{bs[blk.A+k], as[blk.B+k]})
		}
	}
	return out
}

func (m *Match) keys(t *ast.Tree, ids []ast.NodeID, withHash bool) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		key := strconv.Itoa(int(t.Kind(id)))
		if withHash {
			key += ":" + strconv.FormatUint(t.Hash(id), 16)
		}
		out[i] = key
	}
	return out
}

// recoverable reports whether an unmatched node of kind k is worth searching for.
// Leaves and glue nodes only match through their parents.
func recoverable(k ast.Kind) bool {
	switch k {
	case ast.KindName, ast.KindLiteral, ast.KindTypeRef, ast.KindPredefinedType,
		ast.KindThis, ast.KindBase, ast.KindAttributeList, ast.KindArgument, ast.KindArgumentList:
		return false
	}
	return true
}

// scopeLimit: поиск кандидатов не выходит за эти узлы.
func scopeLimit(k ast.Kind) bool {
	return k.IsMember() || k.IsTypeContainer() || k == ast.KindNamespaceDecl || k == ast.KindCompilationUnit
}

// recover pairs nodes that the top-down pass left behind, e.g. statements
// wrapped into a new block or moved between sibling blocks.
func (m *Match) recover() int {
	n := 0
	for _, b := range m.Before.Preorder(m.Before.Root) {
		if m.Matched(b) || !recoverable(m.Before.Kind(b)) {
			continue
		}
		a, ok := m.findCandidate(b)
		if !ok {
			continue
		}
		m.pair(b, a)
		m.descend(b, a)
		n++
	}
	return n
}

func (m *Match) findCandidate(b ast.NodeID) (ast.NodeID, bool) {
	kind := m.Before.Kind(b)
	// узел из удалённой лямбды или query-клаузы не переезжает в чужое замыкание
	home, inClosure := ast.NoNodeID, false
	if cb := closureOf(m.Before, b); cb.IsValid() {
		a, ok := m.Partner(cb)
		if !ok {
			return ast.NoNodeID, false
		}
		home, inClosure = a, true
	}
	for _, anc := range m.Before.Ancestors(b) {
		partner, ok := m.Partner(anc)
		if ok {
			var candidates []ast.NodeID
			for _, a := range m.subtree(partner) {
				if _, taken := m.Reverse(a); taken || m.After.Kind(a) != kind {
					continue
				}
				if inClosure && closureOf(m.After, a) != home {
					continue
				}
				candidates = append(candidates, a)
			}
			if a, found := m.best(b, candidates); found {
				return a, true
			}
		}
		if scopeLimit(m.Before.Kind(anc)) {
			break
		}
	}
	return ast.NoNodeID, false
}

// closureOf returns the innermost closure whose lowered body holds id,
// stopping at the enclosing member.
func closureOf(t *ast.Tree, id ast.NodeID) ast.NodeID {
	child := id
	for cur := t.Parent(id); cur.IsValid(); child, cur = cur, t.Parent(cur) {
		if k := t.Kind(cur); k.IsMember() || k.IsTypeContainer() {
			break
		}
		if t.ClosureBodyContains(cur, child) {
			return cur
		}
	}
	return ast.NoNodeID
}

func (m *Match) subtree(a ast.NodeID) []ast.NodeID {
	if s, ok := m.subtrees[a]; ok {
		return s
	}
	s := m.After.Preorder(a)
	m.subtrees[a] = s
	return s
}

// best picks the exact equivalent if there is one, else the most similar
// candidate above the threshold. Candidates come in document order, so ties
// resolve to the earliest.
func (m *Match) best(b ast.NodeID, candidates []ast.NodeID) (ast.NodeID, bool) {
	for _, a := range candidates {
		if ast.Equivalent(m.Before, b, m.After, a) {
			return a, true
		}
	}
	bestID, bestScore := ast.NoNodeID, 0.0
	for _, a := range candidates {
		if score := Similarity(m.Before, b, m.After, a); score >= MinSimilarity && score > bestScore {
			bestID, bestScore = a, score
		}
	}
	return bestID, bestID.IsValid()
}
