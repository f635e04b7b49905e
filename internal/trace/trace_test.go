package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "ERROR", "Phase", "detail", "debug"} {
		l, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if !strings.EqualFold(l.String(), s) {
			t.Errorf("ParseLevel(%q) = %s", s, l)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("expected an error for an unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopePair, false},
		{LevelPhase, ScopePass, true},
		{LevelDetail, ScopePair, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tracer)

	ctx, check := Start(ctx, ScopeDriver, "check")
	pairCtx, pair := Start(ctx, ScopePair, "pair")
	if pairCtx != ctx {
		t.Errorf("filtered span must not replace the context")
	}
	_, pass := Start(pairCtx, ScopePass, "parse")
	pass.WithExtra("file", "a.cs").End("nodes=3")
	pair.End("")
	check.End("")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "→ check") {
		t.Errorf("first line: %q", lines[0])
	}
	if !strings.Contains(lines[2], "← parse (nodes=3) {file=a.cs}") {
		t.Errorf("parse end line: %q", lines[2])
	}
	if strings.Contains(out, "pair") {
		t.Errorf("pair scope leaked at phase level:\n%s", out)
	}
}

func TestNDJSON(t *testing.T) {
	ev := &Event{Time: time.Unix(0, 0).UTC(), Seq: 7, Kind: KindSpanEnd, Scope: ScopePass, SpanID: 2, Name: "match"}
	got := string(FormatEvent(ev, FormatNDJSON))
	for _, want := range []string{`"seq":7`, `"kind":"end"`, `"scope":"pass"`, `"name":"match"`} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s in %s", want, got)
		}
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("event not newline terminated")
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	ring := NewRingTracer(3, LevelError)
	for i := range 5 {
		Begin(ring, ScopeNode, string(rune('a'+i)), 0)
	}
	events := ring.Snapshot()
	if len(events) != 3 {
		t.Fatalf("got %d events", len(events))
	}
	var names []string
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ""); got != "cde" {
		t.Errorf("ring order = %q, want cde", got)
	}

	var buf bytes.Buffer
	multi := NewMultiTracer(LevelError, NewStreamTracer(&bytes.Buffer{}, LevelError, FormatText), ring)
	if err := multi.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("dump:\n%s", buf.String())
	}
}

func TestNopSpans(t *testing.T) {
	ctx, span := Start(context.Background(), ScopeDriver, "check")
	if CurrentSpan(ctx).SpanID != 0 {
		t.Errorf("nop span became current")
	}
	if span.WithExtra("k", "v").End("") != 0 {
		t.Errorf("nop span has a duration")
	}
	var nilSpan *Span
	nilSpan.Point("x", "")
}

func TestHeartbeat(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	hb := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()
	if len(ring.Snapshot()) == 0 {
		t.Fatalf("no heartbeat recorded")
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Errorf("heartbeat started for a disabled tracer")
	}
}
