package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"commitlang/internal/driver"
	"commitlang/internal/ui"
)

type lintOutcome struct {
	results []driver.Result
	err     error
}

// runLintWithUI lints inputs while a progress display consumes driver events.
// The lint runs on its own goroutine; closing the event channel after the
// outcome is recorded lets the display drain every event before quitting.
func runLintWithUI(ctx context.Context, title string, names []string, inputs []driver.Input, opts driver.Options) ([]driver.Result, error) {
	events := make(chan driver.Event, 256)
	done := make(chan lintOutcome, 1)

	opts.Observer = func(ev driver.Event) { events <- ev }
	go func() {
		defer close(events)
		res, err := driver.Lint(ctx, inputs, opts)
		done <- lintOutcome{results: res, err: err}
	}()

	display := tea.NewProgram(ui.NewProgressModel(title, names, events), tea.WithOutput(os.Stdout))
	_, displayErr := display.Run()

	outcome := <-done
	if displayErr != nil {
		return outcome.results, displayErr
	}
	return outcome.results, outcome.err
}
