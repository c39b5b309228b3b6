package cli

import (
	"context"
	"errors"

	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/spf13/cobra"
)

// commandError is a failure the user can fix, printed as "✗ message: detail"
// followed by the command's usage
type commandError struct {
	msg       string
	err       error
	withUsage bool
	example   string
}

func (e *commandError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *commandError) Unwrap() error {
	return e.err
}

// usageError is a commandError that also prints how to call the command
func usageError(msg string, err error) *commandError {
	return &commandError{msg: msg, err: err, withUsage: true}
}

// failure is a commandError without usage, for failures unrelated to the arguments
func failure(msg string, err error) *commandError {
	return &commandError{msg: msg, err: err}
}

// errReported marks a command whose outcome was already printed
var errReported = errors.New("reported")

// report prints err and decides whether the session goes on. Fatal errors,
// exit requests and interrupts are returned; anything else is printed and
// turned into ErrCommandFailed.
func (a *App) report(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrExit) {
		return ErrExit
	}
	var saveErr *apperrors.ErrConfigSave
	if errors.As(err, &saveErr) {
		a.printer.Error("Could not save configuration", saveErr)
		return err
	}
	if errors.Is(err, context.Canceled) {
		a.printer.Error("Interrupted", nil)
		return err
	}
	if errors.Is(err, errReported) {
		return ErrCommandFailed
	}

	var cmdErr *commandError
	if errors.As(err, &cmdErr) {
		a.printer.Error(cmdErr.msg, cmdErr.err)
		if cmdErr.withUsage && cmd != nil {
			a.printer.Usage(cmd.UseLine())
		}
		if cmdErr.example != "" {
			a.printer.Info("%s", cmdErr.example)
		}
		return ErrCommandFailed
	}

	// flag and argument errors raised by cobra itself
	a.printer.Error(err.Error(), nil)
	if cmd != nil {
		a.printer.Usage(cmd.UseLine())
	}
	return ErrCommandFailed
}
