package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/nobletooth/kvcache/pkg/cache"
	"github.com/nobletooth/kvcache/pkg/controller"
	"github.com/nobletooth/kvcache/pkg/scan"
)

const helpText = `Commands:
  put <key> <value>   Add or overwrite a key.
  get <key>           Access a key.
  show [glob]         Print the cache, optionally only the keys matching glob.
  policy <LRU|FIFO|LFU>
                      Switch the eviction policy; drops all entries.
  capacity <n>        Change the cache size; drops all entries.
  help                Print this text.
  quit                Exit.`

var errQuit = errors.New("quit requested")

// console executes text commands against the controller.
type console struct {
	ctrl      *controller.Controller
	presenter *terminalPresenter
}

// execute runs one command line. Controller errors are already shown as statuses, so they are only logged.
func (c *console) execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	command, args := strings.ToLower(fields[0]), fields[1:]
	var err error
	switch command {
	case "put", "add":
		if len(args) < 2 {
			c.presenter.Status("Please enter both key and value")
			return nil
		}
		err = c.ctrl.Add(args[0], strings.Join(args[1:], " "))
	case "get", "access":
		if len(args) != 1 {
			c.presenter.Status("Please enter a key to access")
			return nil
		}
		_, err = c.ctrl.Access(args[0])
	case "show":
		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
		}
		err = c.show(pattern)
	case "policy":
		if len(args) != 1 {
			c.presenter.Status("Usage: policy <LRU|FIFO|LFU>")
			return nil
		}
		var policy cache.Policy
		if policy, err = cache.ParsePolicy(args[0]); err != nil {
			c.presenter.Status(fmt.Sprintf("Error: unknown policy %q", args[0]))
			return nil
		}
		err = c.ctrl.SetPolicy(policy)
	case "capacity", "size":
		if len(args) != 1 {
			c.presenter.Status("Usage: capacity <n>")
			return nil
		}
		capacity, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			c.presenter.Status("Cache size must be greater than 0")
			return nil
		}
		err = c.ctrl.SetCapacity(capacity)
	case "help":
		c.presenter.Status(helpText)
	case "quit", "exit":
		return errQuit
	default:
		c.presenter.Status(fmt.Sprintf("Unknown command %q, type help for the list of commands", command))
	}
	if err != nil {
		slog.Debug("Command failed.", "command", command, "error", err)
	}
	return nil
}

// show prints the cache contents matching `pattern`.
func (c *console) show(pattern string) error {
	entries, err := scan.MatchGlob(pattern, slices.Values(c.ctrl.Snapshot()))
	if err != nil {
		c.presenter.Status(fmt.Sprintf("Error: %v", err))
		return err
	}
	c.presenter.Status(fmt.Sprintf("%s cache, %d/%d entries:", c.ctrl.Policy(), c.ctrl.Len(), c.ctrl.Capacity()))
	c.presenter.printEntries(slices.Collect(entries), cache.Event[string, string]{})
	return nil
}

// runConsole reads commands from `in` until EOF, quit or `ctx` cancellation.
func runConsole(ctx context.Context, in io.Reader, ctrl *controller.Controller, presenter *terminalPresenter) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() { // The scanner blocks on reads, so it runs apart from the command loop.
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c := &console{ctrl: ctrl, presenter: presenter}
	for {
		select {
		case <-ctx.Done():
			return presenter.Err()
		case line, ok := <-lines:
			if !ok {
				var err error
				select {
				case err = <-scanErr:
				default:
				}
				if err != nil {
					return fmt.Errorf("failed to read commands: %w", err)
				}
				return presenter.Err()
			}
			if err := c.execute(line); errors.Is(err, errQuit) {
				return presenter.Err()
			}
			if err := presenter.Err(); err != nil {
				return err
			}
		}
	}
}
