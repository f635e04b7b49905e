package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"encrude/internal/observ"
)

// TimingPayload is the --timings output of one run.
type TimingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	Cases   int                  `json:"cases,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// NewTimingPayload wraps a timer report.
func NewTimingPayload(kind, path string, rep observ.Report) TimingPayload {
	if kind == "" {
		kind = "pair"
	}
	return TimingPayload{Kind: kind, Path: path, TotalMS: rep.TotalMS, Phases: rep.Phases}
}

// CheckTimings sums the phases of all analysed cases by name, in first-seen order.
func CheckTimings(report *RunReport) TimingPayload {
	out := TimingPayload{Kind: "check"}
	if report == nil {
		return out
	}
	var reps []observ.Report
	for _, r := range report.Results {
		if r.Pair != nil && r.Pair.Timer != nil {
			reps = append(reps, r.Pair.Timer.Report())
		}
	}
	sum := observ.Sum(reps...)
	out.Cases = len(reps)
	out.TotalMS = sum.TotalMS
	out.Phases = sum.Phases
	return out
}

// Write renders the payload as text or, with asJSON, as one JSON object.
func (p TimingPayload) Write(w io.Writer, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	head := fmt.Sprintf("timings (%s): total %.2f ms", p.Kind, p.TotalMS)
	if p.Path != "" {
		head += ", " + p.Path
	}
	if p.Cases > 0 {
		head += fmt.Sprintf(", %d cases", p.Cases)
	}
	if _, err := fmt.Fprintln(w, head); err != nil {
		return err
	}
	for _, ph := range p.Phases {
		line := fmt.Sprintf("  %-12s %9.2f ms", ph.Name, ph.DurationMS)
		if ph.Count > 1 {
			line += fmt.Sprintf("  x%d", ph.Count)
		}
		if ph.Note != "" {
			line += "  // " + ph.Note
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
