package observ

import (
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load")
	time.Sleep(time.Millisecond)
	tm.End(load, "statements=1")
	parse := tm.Begin("parse")
	tm.End(parse, "")
	tm.End(7, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("got %d phases", len(rep.Phases))
	}
	if rep.Phases[0].Name != "load" || rep.Phases[0].Note != "statements=1" {
		t.Errorf("first phase: %+v", rep.Phases[0])
	}
	if rep.Phases[0].DurationMS < 1 {
		t.Errorf("load took %.3f ms", rep.Phases[0].DurationMS)
	}
	if rep.TotalMS < rep.Phases[0].DurationMS {
		t.Errorf("total %.3f below load %.3f", rep.TotalMS, rep.Phases[0].DurationMS)
	}
	var nilTimer *Timer
	if got := nilTimer.Report(); len(got.Phases) != 0 {
		t.Errorf("nil timer report: %+v", got)
	}
}

func TestSum(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "load", DurationMS: 1, Note: "x"}, {Name: "parse", DurationMS: 2}}}
	b := Report{TotalMS: 4, Phases: []PhaseReport{{Name: "load", DurationMS: 1}, {Name: "analyze", DurationMS: 3}}}
	got := Sum(a, b)
	want := []PhaseReport{
		{Name: "load", DurationMS: 2, Count: 2},
		{Name: "parse", DurationMS: 2, Count: 1},
		{Name: "analyze", DurationMS: 3, Count: 1},
	}
	if got.TotalMS != 7 {
		t.Errorf("total = %v", got.TotalMS)
	}
	if len(got.Phases) != len(want) {
		t.Fatalf("phases = %+v", got.Phases)
	}
	for i := range want {
		if got.Phases[i] != want[i] {
			t.Errorf("phase %d = %+v, want %+v", i, got.Phases[i], want[i])
		}
	}
}
