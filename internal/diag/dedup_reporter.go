package diag

import "encrude/internal/source"

type dedupKey struct {
	code     Code
	file     source.FileID
	start    uint32
	end      uint32
	detached bool
	arg      string
}

func keyOf(d Diagnostic) dedupKey {
	k := dedupKey{code: d.Code, detached: d.Detached, arg: d.Arg}
	if !d.Detached {
		k.file, k.start, k.end = d.Primary.File, d.Primary.Start, d.Primary.End
	}
	return k
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same code, primary span and argument.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := keyOf(d)
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
