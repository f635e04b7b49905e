package ui

import (
	"strings"
	"testing"

	"encrude/internal/driver"
)

func TestApplyEventTracksCases(t *testing.T) {
	m := NewProgressModel("check", []string{"a", "b"}, nil).(*progressModel)

	m.applyEvent(driver.Event{Case: "a", Stage: driver.StageParse, Status: driver.StatusWorking})
	if got := m.items[0].status; got != "parsing" {
		t.Fatalf("status = %q, want parsing", got)
	}
	m.applyEvent(driver.Event{Case: "a", Stage: driver.StageCompare, Status: driver.StatusFailed})
	m.applyEvent(driver.Event{Case: "b", Stage: driver.StageCompare, Status: driver.StatusDone})
	// повторное финальное событие не считается дважды
	m.applyEvent(driver.Event{Case: "b", Stage: driver.StageCompare, Status: driver.StatusDone})
	m.applyEvent(driver.Event{Case: "unknown", Status: driver.StatusError})

	if m.passed != 1 || m.failed != 1 || m.errored != 0 {
		t.Fatalf("counts = %d/%d/%d, want 1/1/0", m.passed, m.failed, m.errored)
	}
	view := m.View()
	if !strings.Contains(view, "1 passed, 1 failed") {
		t.Fatalf("view header missing counts:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"loops/while_wrap", 10, "loop..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
