package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"encrude/internal/driver"
	"encrude/internal/ui"
)

type runOutcome struct {
	report *driver.RunReport
	err    error
}

// runCasesWithUI runs the cases while a progress model renders their events.
func runCasesWithUI(ctx context.Context, title string, cases []*driver.Case, opts driver.RunOptions) (*driver.RunReport, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		report, err := driver.RunCases(ctx, cases, opts)
		outcomeCh <- runOutcome{report: report, err: err}
		close(events)
	}()

	names := make([]string, 0, len(cases))
	for _, c := range cases {
		names = append(names, c.Name)
	}
	program := tea.NewProgram(ui.NewProgressModel(title, names, events), tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// модель могла выйти раньше: не даём раннеру заблокироваться на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
