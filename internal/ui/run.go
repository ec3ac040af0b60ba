package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"anchorsec/internal/scanner"
)

type scanOutcome struct {
	sum *scanner.Summary
	err error
}

// RunScan runs scanner.Scan while rendering progress to out. The scan's own
// error wins over a rendering error.
func RunScan(ctx context.Context, out io.Writer, title, root string, opts scanner.Options) (*scanner.Summary, error) {
	events := make(chan scanner.Event, 256)
	outcomeCh := make(chan scanOutcome, 1)

	go func() {
		o := opts
		o.Progress = scanner.ChannelSink{Ch: events}
		sum, err := scanner.Scan(ctx, root, o)
		outcomeCh <- scanOutcome{sum: sum, err: err}
		close(events)
	}()

	program := tea.NewProgram(NewProgressModel(title, events), tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем канал, иначе сканер встанет на полном буфере
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if outcome.err != nil {
		return outcome.sum, outcome.err
	}
	return outcome.sum, uiErr
}
