package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"  info ", InfoLevel},
		{"WARN", WarnLevel},
		{"WARNING", WarnLevel},
		{"ERROR", ErrorLevel},
		{"FATAL", FatalLevel},
		{"nonsense", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "input %q", tt.input)
	}
}

func TestInitWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: DebugLevel, Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("document", "bracket").Msg("session opened")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"document":"bracket"`)
	assert.Contains(t, out, `"message":"session opened"`)
}

func TestInitLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: WarnLevel, Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("dropped")
	Warn().Msg("kept")

	out := buf.String()
	assert.False(t, strings.Contains(out, "dropped"))
	assert.Contains(t, out, "kept")
}

func TestInitFromEnv(t *testing.T) {
	t.Setenv("PARAMEDIT_LOG_LEVEL", "DEBUG")
	t.Setenv("PARAMEDIT_LOG_PRETTY", "")
	InitFromEnv()
	defer Init(DefaultConfig())

	assert.Equal(t, DebugLevel, Logger.GetLevel())
}
