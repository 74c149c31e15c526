package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ilemit/internal/buildpipeline"
	"ilemit/internal/driver"
	"ilemit/internal/fixture"
	"ilemit/internal/ui"
)

type emitOutcome struct {
	result *driver.Result
	err    error
}

const progressBuffer = 256

// runEmitWithUI runs the driver in the background and renders its progress
// until the event channel closes.
func runEmitWithUI(ctx context.Context, title string, units []string, graph *fixture.Graph, opts driver.Options) (*driver.Result, error) {
	return runEmitWithView(ctx, graph, opts, progressBuffer, func(events <-chan buildpipeline.Event) error {
		model := ui.NewProgressModel(title, units, events)
		_, err := tea.NewProgram(model, tea.WithOutput(os.Stdout)).Run()
		return err
	})
}

// runEmitWithView feeds driver events to view. If view fails, the remaining
// events are drained so the driver can still finish.
func runEmitWithView(ctx context.Context, graph *fixture.Graph, opts driver.Options, buffer int, view func(<-chan buildpipeline.Event) error) (*driver.Result, error) {
	events := make(chan buildpipeline.Event, buffer)
	outcomeCh := make(chan emitOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := driver.Emit(ctx, graph, optsCopy)
		outcomeCh <- emitOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := view(events)
	if uiErr != nil {
		go drainEvents(events)
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

func drainEvents(events <-chan buildpipeline.Event) {
	for range events {
	}
}
