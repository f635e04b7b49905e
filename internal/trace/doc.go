// Package trace records what the analyzer spends its time on.
//
// A rude-edit run is a pipeline of passes over one document pair
// (parse old, parse new, match, declaration checks, active-statement checks).
// Each pass opens a Span; drivers running many pairs open one span per pair.
//
// # Usage
//
//	encrude check --trace=- --trace-level=phase testdata/cases
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: circular buffer dumped on internal faults
//   - MultiTracer: combines several tracers
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: ring dumps on faults only
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-pair events
//   - LevelDebug: everything including per-node matching
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "match")
//	defer span.End("")
package trace
