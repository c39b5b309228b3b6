package config

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConfigureLogger(t *testing.T) {
	original := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(original)
		ConfigureLogger("warn")
	})

	ConfigureLogger("debug")
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())

	ConfigureLogger("not-a-level")
	assert.Equal(t, zerolog.WarnLevel, GetLogger().GetLevel())
}

func TestSetLogOutput(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() { SetLogOutput(nil) })

	l := GetLogger()
	l.Warn().Msg("captured line")

	assert.Contains(t, buf.String(), "captured line")
}
