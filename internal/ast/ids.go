package ast

type (
	// NodeID адресует узел в Tree.Nodes.
	NodeID uint32
	// TokenID адресует токен в Tree.Tokens.
	TokenID uint32
)

const (
	NoNodeID  NodeID  = 0
	NoTokenID TokenID = 0
)

func (id NodeID) IsValid() bool  { return id != NoNodeID }
func (id TokenID) IsValid() bool { return id != NoTokenID }

// TokenRange is an inclusive run of tokens. The zero value is empty.
type TokenRange struct {
	First TokenID
	Last  TokenID
}

func (r TokenRange) Empty() bool {
	return !r.First.IsValid() || r.Last < r.First
}

// Contains reports whether tok lies inside the range.
func (r TokenRange) Contains(tok TokenID) bool {
	return !r.Empty() && r.First <= tok && tok <= r.Last
}
