package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// withBufferLogger swaps the global logger for a buffer-backed one for the
// duration of the test.
func withBufferLogger(t *testing.T, minLevel Level) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	prev := defaultLogger
	defaultLogger = &Logger{writer: buf, enabled: true, minLevel: minLevel}
	t.Cleanup(func() { defaultLogger = prev })
	return buf
}

func TestWrite_Format(t *testing.T) {
	buf := withBufferLogger(t, LevelDebug)

	Info(CatProc, "operation applied", "op", "mint", "count", 3)

	line := buf.String()
	assert.Contains(t, line, "[INFO]")
	assert.Contains(t, line, "[proc]")
	assert.Contains(t, line, "operation applied")
	assert.Contains(t, line, "op=mint")
	assert.Contains(t, line, "count=3")
}

func TestWrite_LevelFiltering(t *testing.T) {
	buf := withBufferLogger(t, LevelWarn)

	Debug(CatProc, "debug message")
	Info(CatProc, "info message")
	Warn(CatProc, "warn message")
	Error(CatProc, "error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestWrite_OddFieldCount(t *testing.T) {
	buf := withBufferLogger(t, LevelDebug)

	Info(CatAPI, "odd", "dangling")

	assert.Contains(t, buf.String(), "dangling=<missing>")
}

func TestErrorErr(t *testing.T) {
	buf := withBufferLogger(t, LevelDebug)

	ErrorErr(CatStore, "save failed", errors.New("disk full"))
	ErrorErr(CatStore, "no error", nil)

	out := buf.String()
	assert.Contains(t, out, "error=disk full")
	assert.Contains(t, out, "error=<nil>")
}

func TestWrite_Disabled(t *testing.T) {
	buf := withBufferLogger(t, LevelDebug)
	defaultLogger.enabled = false

	Info(CatProc, "dropped")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("shouting"), "unknown levels default to info")
}
