package testutils

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// NewTestLogger creates a debug level zerolog.Logger that writes to the test's log.
func NewTestLogger(tb testing.TB) zerolog.Logger {
	return NewTestLoggerWithLevel(tb, zerolog.DebugLevel)
}

// NewTestLoggerWithLevel creates a zerolog.Logger that writes events at level or above to the test's log.
// Tests that drive many requests use it to keep the -v output readable.
func NewTestLoggerWithLevel(tb testing.TB, level zerolog.Level) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: testLogWriter{tb}, TimeFormat: time.RFC3339, NoColor: true}
	return zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()
}

// testLogWriter passes each console line to tb.Log.
type testLogWriter struct {
	tb testing.TB
}

func (w testLogWriter) Write(p []byte) (n int, err error) {
	for _, line := range strings.Split(strings.TrimSpace(string(p)), "\n") {
		w.tb.Log(line)
	}
	return len(p), nil
}
