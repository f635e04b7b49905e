package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSON(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || !out.Rude {
		t.Fatalf("count=%d rude=%v", out.Count, out.Rude)
	}
	if d := out.Diagnostics[0]; d.Kind != "Delete" || d.Location != nil || d.Arg != "class" {
		t.Fatalf("detached entry: %+v", d)
	}
	d := out.Diagnostics[1]
	if d.Code != "ENC5004" || d.Kind != "InsertAroundActiveStatement" || d.Arg != "yield statement" {
		t.Fatalf("entry: %+v", d)
	}
	if d.Location == nil || d.Location.File != "after.cs" || d.Location.StartLine != 5 || d.Location.StartCol != 9 {
		t.Fatalf("location: %+v", d.Location)
	}
	if d.Location.Text != "yield return 1;" {
		t.Fatalf("text %q", d.Location.Text)
	}
}

func TestJSONMax(t *testing.T) {
	bag, fs := sampleBag(t)
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Diagnostics[0].Kind != "Delete" {
		t.Fatalf("truncation: %+v", out)
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "encrude", ToolVersion: "dev"}); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	run := log.Runs[0]
	if len(run.Results) != 2 || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("results=%d rules=%d", len(run.Results), len(run.Tool.Driver.Rules))
	}
	if r := run.Results[1]; r.RuleID != "ENC5004" || r.Locations[0].Physical.Region.StartLine != 5 {
		t.Fatalf("result: %+v", r)
	}
}
