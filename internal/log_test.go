package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"ERROR":   LogLevelError,
		"warn":    LogLevelWarn,
		" info ":  LogLevelInfo,
		"DEBUG":   LogLevelDebug,
		"trace":   LogLevelTrace,
		"":        LogLevelInfo,
		"verbose": LogLevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), "input %q", in)
	}
}

func TestLoggerLevels(t *testing.T) {
	l := NewLogger(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, l.GetLevel())

	// must not panic at any level
	l.Error("error %d", 1)
	l.Warn("warn %s", "x")
	l.Info("info")
	l.Debug("debug")
	l.Trace("trace")

	nop := NewNopLogger()
	nop.Info("discarded")
	assert.Equal(t, LogLevelError, nop.GetLevel())
}
