// Package prompt asks the person at the terminal for task reasons and
// confirmations.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/amonks/tasktrack/lifecycle"
)

// Terminal reads answers from a terminal. Requests made when In is not a
// terminal are declined without prompting.
type Terminal struct {
	In  *os.File
	Out io.Writer

	startOnce sync.Once
	lines     chan lineResult
}

// NewTerminal returns a Terminal on stdin and stderr.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stderr}
}

// Interactive reports whether the input is a terminal.
func (t *Terminal) Interactive() bool {
	return t != nil && t.In != nil && term.IsTerminal(int(t.In.Fd()))
}

// RequestReason implements lifecycle.ReasonRequester. Optional reasons are
// never prompted for. An empty answer or end of input declines.
func (t *Terminal) RequestReason(ctx context.Context, req lifecycle.ReasonRequest) (string, bool, error) {
	if req.Optional || !t.Interactive() {
		return "", false, nil
	}

	fmt.Fprintf(t.Out, "%s\n  %s\n> ", req.Prompt(), req.Task.Title)
	line, err := t.readLine(ctx)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(t.Out)
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	reason := strings.TrimSpace(line)
	return reason, reason != "", nil
}

// Confirm asks a yes/no question. Anything but y or yes is no, as is a
// non-interactive input.
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	if !t.Interactive() {
		return false, nil
	}

	fmt.Fprintf(t.Out, "%s [y/N] ", question)
	line, err := t.readLine(ctx)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(t.Out)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

type lineResult struct {
	line string
	err  error
}

// readLine waits for the next line of input or for ctx to end. A line that
// arrives after its prompt was cancelled answers the next prompt.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	t.startOnce.Do(t.startReader)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		return result.line, result.err
	}
}

// startReader reads In one line at a time through a single buffered reader.
// The goroutine blocks in Read until In yields a line or fails; it exits
// after the first error, and it is not stopped when In stays open and
// silent.
func (t *Terminal) startReader() {
	t.lines = make(chan lineResult)
	go func() {
		defer close(t.lines)
		reader := bufio.NewReader(t.In)
		for {
			line, err := reader.ReadString('\n')
			if err != nil && line != "" && errors.Is(err, io.EOF) {
				err = nil
			}
			t.lines <- lineResult{line: line, err: err}
			if err != nil {
				return
			}
		}
	}()
}

// Reasons returns the requester for a command: a fixed reason when one was
// given on the command line, otherwise the terminal.
func Reasons(flagReason string, terminal *Terminal) lifecycle.ReasonRequester {
	if strings.TrimSpace(flagReason) != "" {
		return lifecycle.StaticReason(flagReason)
	}
	if terminal == nil {
		return lifecycle.StaticReason("")
	}
	return terminal
}
