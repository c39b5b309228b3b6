package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/nkzzz-xD/EasyPastPapers/internal/config"
	"github.com/nkzzz-xD/EasyPastPapers/internal/metrics"
	"github.com/nkzzz-xD/EasyPastPapers/internal/ui"
)

const shellPrompt = "Enter a command> "

// RunShell reads commands until exit, end of input or interrupt. The page
// cache and HTTP client are shared by every command of the session.
func (a *App) RunShell(ctx context.Context) error {
	logger := config.GetLogger()

	rlCfg := &readline.Config{
		Prompt:          ui.PromptStyle(shellPrompt),
		HistoryFile:     a.historyFile(),
		AutoComplete:    newCompleter(a.commandNames, a.subjectCodes, a.now),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
	if a.in != os.Stdin {
		rlCfg.Stdin = io.NopCloser(a.in)
		rlCfg.FuncIsTerminal = func() bool { return false }
		rlCfg.FuncMakeRaw = func() error { return nil }
		rlCfg.FuncExitRaw = func() error { return nil }
	}
	if a.out != os.Stdout {
		rlCfg.Stdout = a.out
		rlCfg.Stderr = a.out
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return failure("Could not start the shell", err)
	}
	defer func() { _ = rl.Close() }()

	stop := context.AfterFunc(ctx, func() { _ = rl.Close() })
	defer stop()

	previous := a.prompter
	a.prompter = ui.NewReadlinePrompter(rl)
	a.inShell = true
	defer func() {
		a.prompter = previous
		a.inShell = false
	}()

	if a.cfg.MetricsAddr != "" {
		shutdown := a.serveMetrics(a.cfg.MetricsAddr)
		defer shutdown()
	}

	a.printer.Info("Welcome to Easy Past Papers. Type help to list commands.")
	for {
		line, err := rl.Readline()
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, readline.ErrInterrupt), errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return failure("Could not read input", err)
		}

		args, err := shlex.Split(line)
		if err != nil {
			a.printer.Error("Invalid input", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		logger.Debug().Strs("args", args).Msg("Running command")
		switch err := a.ExecuteArgs(ctx, args); {
		case err == nil, errors.Is(err, ErrCommandFailed):
		case errors.Is(err, ErrExit):
			return nil
		default:
			return err
		}
	}
}

func (a *App) historyFile() string {
	path := a.cfg.Path()
	if path == "" {
		return ""
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}

// serveMetrics exposes /metrics on addr until the returned function is called
func (a *App) serveMetrics(addr string) func() {
	logger := config.GetLogger()
	srv := metrics.NewHTTPServer(addr)
	go func() {
		logger.Info().Str("address", addr).Msg("Serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("address", addr).Msg("Metrics server failed")
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
	}
}
