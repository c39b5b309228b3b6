package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	// Console writer on stderr so log lines never interleave with progress output on stdout
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: false,
	}).With().Timestamp().Logger().Level(zerolog.WarnLevel)
}

// ConfigureLogger sets the global log level, falling back to warn when level is invalid.
func ConfigureLogger(level string) {
	parsed := zerolog.WarnLevel
	if level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil {
			parsed = l
		} else {
			logger.Warn().Str("invalid_level", level).Msg("Invalid log level, using default 'warn'")
		}
	}

	zerolog.SetGlobalLevel(parsed)
	logger = logger.Level(parsed)
	logger.Debug().Str("level", parsed.String()).Msg("Logging configured")
}

// SetLogOutput redirects log output. A nil writer restores stderr.
func SetLogOutput(w io.Writer) {
	if w == nil {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}
	logger = logger.Output(zerolog.ConsoleWriter{Out: w, NoColor: true})
}

func GetLogger() zerolog.Logger {
	return logger
}
