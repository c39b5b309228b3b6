package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

type lineResult struct {
	line string
	err  error
}

// LinePrompter reads answers line by line, used by one-shot commands.
// It is not safe for concurrent use.
type LinePrompter struct {
	in      *bufio.Reader
	out     io.Writer
	pending chan lineResult // read still in flight from a cancelled question
}

// NewLinePrompter creates a prompter reading from in and asking on out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm asks message and reads one line. End of input counts as no.
// Cancelling ctx returns its error without waiting for the line; the answer
// typed afterwards goes to the next question.
func (p *LinePrompter) Confirm(ctx context.Context, message string) (bool, error) {
	fmt.Fprintf(p.out, "%s %s ", message, dimStyle.Render("[y/N]"))

	if p.pending == nil {
		ch := make(chan lineResult, 1)
		p.pending = ch
		go func() {
			line, err := p.in.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
	}

	var res lineResult
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false, ctx.Err()
	case res = <-p.pending:
		p.pending = nil
	}

	if res.err != nil && !errors.Is(res.err, io.EOF) {
		return false, res.err
	}
	if errors.Is(res.err, io.EOF) && res.line == "" {
		fmt.Fprintln(p.out)
	}
	return isYes(res.line), nil
}

// ReadlinePrompter asks through the shell's readline instance so the answer
// does not pollute command history
type ReadlinePrompter struct {
	rl *readline.Instance
}

// NewReadlinePrompter wraps the shell's readline instance
func NewReadlinePrompter(rl *readline.Instance) *ReadlinePrompter {
	return &ReadlinePrompter{rl: rl}
}

// Confirm asks through readline. Ctrl-C answers no; a cancelled ctx closes
// the instance and its error is returned.
func (p *ReadlinePrompter) Confirm(ctx context.Context, message string) (bool, error) {
	cfg := p.rl.Config.Clone()
	cfg.Prompt = message + " " + dimStyle.Render("[y/N]") + " "
	cfg.DisableAutoSaveHistory = true

	prev := p.rl.SetConfig(cfg)
	line, err := p.rl.Readline()
	p.rl.SetConfig(prev)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isYes(line), nil
}
