package match

import (
	"github.com/pmezard/go-difflib/difflib"

	"encrude/internal/ast"
)

// MinSimilarity is the lowest token similarity that still pairs two nodes.
const MinSimilarity = 0.5

// Similarity is the Ratcliff/Obershelp ratio of the significant token
// sequences of two nodes, in [0, 1].
func Similarity(a *ast.Tree, an ast.NodeID, b *ast.Tree, bn ast.NodeID) float64 {
	na, nb := a.Node(an), b.Node(bn)
	if na == nil || nb == nil {
		return 0
	}
	return RangeSimilarity(a, na.Tokens(), b, nb.Tokens())
}

// RangeSimilarity compares two token ranges.
func RangeSimilarity(a *ast.Tree, ra ast.TokenRange, b *ast.Tree, rb ast.TokenRange) float64 {
	ta, tb := a.TokenTexts(ra), b.TokenTexts(rb)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	return difflib.NewMatcherWithJunk(ta, tb, false, nil).Ratio()
}
