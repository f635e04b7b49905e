package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"encrude/internal/diagfmt"
	"encrude/internal/driver"
)

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{" ON ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("readUIMode(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("readUIMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}
	if !shouldUseTUI(uiModeOn, nil, env(nil)) || shouldUseTUI(uiModeOff, os.Stdout, env(nil)) {
		t.Errorf("explicit ui modes ignored")
	}
	if shouldUseTUI(uiModeAuto, os.Stdout, env(map[string]string{"CI": "true"})) {
		t.Errorf("auto mode enabled the TUI under CI")
	}
	if shouldUseTUI(uiModeAuto, nil, env(nil)) {
		t.Errorf("auto mode enabled the TUI without an output")
	}
}

func TestPathMode(t *testing.T) {
	tests := map[string]diagfmt.PathMode{
		"absolute": diagfmt.PathModeAbsolute,
		"relative": diagfmt.PathModeRelative,
		"basename": diagfmt.PathModeBasename,
		"auto":     diagfmt.PathModeAuto,
		"":         diagfmt.PathModeAuto,
	}
	for in, want := range tests {
		if got := pathMode(in); got != want {
			t.Errorf("pathMode(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWriteReportSummary(t *testing.T) {
	report := &driver.RunReport{
		Results: []driver.CaseResult{
			{Case: &driver.Case{Name: "ok"}, Passed: true},
			{
				Case:     &driver.Case{Name: "loops/wrap", Path: "loops/wrap.toml"},
				Expected: []string{`Delete <detached> "class"`},
			},
		},
		Passed: 1,
		Failed: 1,
	}
	var buf bytes.Buffer
	if err := writeReport(&buf, report); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"FAIL loops/wrap (loops/wrap.toml)",
		`    Delete <detached> "class"`,
		"  actual: (none)",
		"1 passed, 1 failed, 0 errors, 0 skipped",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "FAIL ok") {
		t.Errorf("passed case reported as failure:\n%s", out)
	}
}
