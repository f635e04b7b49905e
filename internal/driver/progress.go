package driver

import "time"

// Stage describes a step of one case run.
type Stage string

const (
	// StageLoad covers markup stripping and patch application.
	StageLoad Stage = "load"
	// StageParse is the tree provider run over both documents.
	StageParse Stage = "parse"
	// StageAnalyze is the rude edit analysis.
	StageAnalyze Stage = "analyze"
	// StageCompare checks actual diagnostics against the expectations.
	StageCompare Stage = "compare"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusDone: case finished and matched its expectations.
	StatusDone Status = "done"
	// StatusFailed: case finished with unexpected diagnostics.
	StatusFailed Status = "failed"
	// StatusError: case could not be analysed at all.
	StatusError Status = "error"
)

// Event reports progress for a case (or for the whole run when Case is empty).
type Event struct {
	Case    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be goroutine-safe.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, ev Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(ev)
}
