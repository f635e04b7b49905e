package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end
	KindPoint                     // instant event
	KindHeartbeat                 // periodic liveness signal
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope indicates the granularity of the event.
// Lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers a whole CLI invocation or a check run.
	ScopeDriver Scope = iota + 1
	// ScopePair covers one document pair.
	ScopePair
	// ScopePass covers one pass over a pair (parse, match, rude).
	ScopePass
	// ScopeNode covers per-node matching decisions.
	ScopeNode
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePair:   "pair",
	ScopePass:   "pass",
	ScopeNode:   "node",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64 // goroutine of the span
	Name     string // "pair", "parse", "match"
	Detail   string
	Extra    map[string]string
}
