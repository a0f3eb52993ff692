package log_test

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commschamp/commsdslgen/internal/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "trace", want: log.LevelTrace},
		{in: "debug", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "info", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "bogus", want: slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, log.ParseLevel(tt.in))
		})
	}
}

func TestWarnCounter(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})
	counter := log.NewWarnCounter(inner)
	logger := slog.New(counter)

	logger.Info("ignored")
	logger.Warn("first")
	logger.With("k", "v").Warn("second")
	logger.WithGroup("g").Warn("third")
	logger.Error("failure")

	assert.Equal(t, int64(3), counter.Count())
	assert.NotContains(t, buf.String(), "first")
	assert.Contains(t, buf.String(), "failure")
}

func TestLevelFilterAndMultiHandler(t *testing.T) {
	var low, high bytes.Buffer
	lowH := slog.NewTextHandler(&low, &slog.HandlerOptions{Level: slog.LevelDebug})
	highH := slog.NewTextHandler(&high, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := slog.New(log.NewMultiHandler(
		log.NewLevelFilter(func(l slog.Level) bool { return l < slog.LevelError }, lowH),
		log.NewLevelFilter(func(l slog.Level) bool { return l >= slog.LevelError }, highH),
	))

	logger.Debug("details")
	logger.Error("broken")

	assert.Contains(t, low.String(), "details")
	assert.NotContains(t, low.String(), "broken")
	assert.Contains(t, high.String(), "broken")
	assert.NotContains(t, high.String(), "details")
}

func TestSetupLoggerWithFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "run.log")
	logger, counter, closers, err := log.SetupLogger(log.Options{Level: "debug", File: file})
	require.NoError(t, err)
	require.Len(t, closers, 1)

	logger.Warn("careful")
	assert.Equal(t, int64(1), counter.Count())
	for _, c := range closers {
		require.NoError(t, c.Close())
	}
	assert.FileExists(t, file)
}

func TestSetupLoggerBadFile(t *testing.T) {
	_, _, _, err := log.SetupLogger(log.Options{File: filepath.Join(t.TempDir(), "missing", "run.log")})
	require.Error(t, err)
}

func TestEmitLogger(t *testing.T) {
	var buf bytes.Buffer
	l := log.NewEmit(&buf)
	l.Log("/out/demo/MsgId.h", []byte("abcd"), strings.Repeat("f", 64))

	line := buf.String()
	assert.Contains(t, line, "/out/demo/MsgId.h 4 bytes, digest: ffffffffffffffff\n")
	assert.NotContains(t, line, strings.Repeat("f", 17))

	// nil writer is a no-op
	log.NewEmit(nil).Log("x", []byte("y"), "z")
}
