package driver

import (
	"time"

	"encrude/internal/observ"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that an analysis phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during AnalyzePair.
type PhaseObserver func(PhaseEvent)

// phases pairs observ.Timer phases with observer notifications.
type phases struct {
	timer    *observ.Timer
	observer PhaseObserver
}

func (p phases) begin(name string) (end func(note string)) {
	idx := p.timer.Begin(name)
	start := time.Now()
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return func(note string) {
		p.timer.End(idx, note)
		if p.observer != nil {
			p.observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(start)})
		}
	}
}
