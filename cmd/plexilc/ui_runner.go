package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"plexilc/internal/buildpipeline"
	"plexilc/internal/driver"
	"plexilc/internal/ui"
)

type batchOutcome struct {
	batch *driver.Batch
	err   error
}

func runWithUI(ctx context.Context, out io.Writer, title string, files []string, opts driver.Options) (*driver.Batch, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		opts.Progress = buildpipeline.ChannelSink{Ch: events}
		batch, err := driver.CompileFiles(ctx, files, opts)
		outcomeCh <- batchOutcome{batch: batch, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.batch, uiErr
	}
	return outcome.batch, outcome.err
}
