package main

import (
	"fmt"
	"io"

	"github.com/nobletooth/kvcache/pkg/cache"
	"github.com/nobletooth/kvcache/pkg/utils"
)

// terminalPresenter prints the cache as plain text lines. Implements controller.Presenter.
// The first write error is kept and reported by the console loop.
type terminalPresenter struct {
	out io.Writer
	err error
}

func newTerminalPresenter(out io.Writer) *terminalPresenter {
	return &terminalPresenter{out: out}
}

func (p *terminalPresenter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		p.err = fmt.Errorf("failed to write to the terminal: %w", err)
	}
}

// Render prints one entry per line and marks the entry affected by `event`.
func (p *terminalPresenter) Render(entries []utils.Pair[string, string], event cache.Event[string, string]) {
	p.printEntries(entries, event)
}

func (p *terminalPresenter) printEntries(entries []utils.Pair[string, string], event cache.Event[string, string]) {
	if event.Action == cache.ActionEvicted {
		p.printf("  - %s: %s (evicted)\n", event.Key, event.Value)
	}
	if len(entries) == 0 && event.Action != cache.ActionEvicted {
		p.printf("  (empty)\n")
		return
	}
	for _, entry := range entries {
		if event.Action != cache.ActionNone && event.Action != cache.ActionEvicted && entry.Key == event.Key {
			p.printf("  %s: %s <- %s\n", entry.Key, entry.Value, event.Action)
			continue
		}
		p.printf("  %s: %s\n", entry.Key, entry.Value)
	}
}

// Status prints `message` on its own line.
func (p *terminalPresenter) Status(message string) {
	p.printf("%s\n", message)
}

// Err returns the first write error, if any.
func (p *terminalPresenter) Err() error {
	return p.err
}
