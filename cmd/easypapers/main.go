package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/nkzzz-xD/EasyPastPapers/internal/cli"
	"github.com/nkzzz-xD/EasyPastPapers/internal/config"
	"github.com/spf13/afero"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	// Optional: settings such as EASYPAPERS_LOG_LEVEL may come from a local .env
	_ = godotenv.Load()

	path, err := configPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	cfg, err := config.Load(afero.NewOsFs(), path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}

	config.ConfigureLogger(cfg.LogLevel)
	logger := config.GetLogger()
	logger.Debug().
		Str("config", path).
		Str("base_url", cfg.BaseURL).
		Str("download_folder", cfg.DownloadFolder).
		Msg("Configuration loaded")

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.New(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to start")
		return exitFailure
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Debug().Err(err).Msg("Failed to release resources")
		}
	}()

	if err := app.EnsureDirectory(ctx); err != nil {
		var saveErr *apperrors.ErrConfigSave
		if errors.As(err, &saveErr) {
			app.Printer().Error("Could not save configuration", saveErr)
		}
		return exitCode(err)
	}
	return exitCode(app.ExecuteArgs(ctx, os.Args[1:]))
}

// configPath returns EASYPAPERS_CONFIG when set, otherwise the per-user default
func configPath() (string, error) {
	if path := os.Getenv(config.EnvPrefix + "_CONFIG"); path != "" {
		return path, nil
	}
	return config.DefaultPath()
}

func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, cli.ErrExit):
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return exitFailure
	}
}
