// Package log provides helpers for creating a configured slog.Logger.
//
// When a log file path is not provided, logs are written to stdout for
// non-error levels and to stderr for errors (so stderr can be used for
// error redirection while keeping normal logs on stdout).
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// LevelTrace defines a custom slog level below Debug for very verbose output.
const LevelTrace slog.Level = -8

func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MultiHandler fans out records to multiple handlers.
type MultiHandler struct{ hs []slog.Handler }

func NewMultiHandler(hs ...slog.Handler) MultiHandler { return MultiHandler{hs: hs} }

func (m MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}
func (m MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.hs {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r)
		}
	}
	return nil
}
func (m MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		out[i] = h.WithAttrs(attrs)
	}
	return MultiHandler{hs: out}
}
func (m MultiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		out[i] = h.WithGroup(name)
	}
	return MultiHandler{hs: out}
}

// LevelFilter delegates to an underlying handler but filters which levels are
// passed to it using the provided predicate.
type LevelFilter struct {
	pass func(slog.Level) bool
	h    slog.Handler
}

func NewLevelFilter(pass func(slog.Level) bool, h slog.Handler) LevelFilter {
	return LevelFilter{pass: pass, h: h}
}

func (f LevelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	if !f.pass(level) {
		return false
	}
	return f.h.Enabled(ctx, level)
}

func (f LevelFilter) Handle(ctx context.Context, r slog.Record) error {
	if !f.pass(r.Level) {
		return nil
	}
	return f.h.Handle(ctx, r)
}

func (f LevelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return LevelFilter{pass: f.pass, h: f.h.WithAttrs(attrs)}
}
func (f LevelFilter) WithGroup(name string) slog.Handler {
	return LevelFilter{pass: f.pass, h: f.h.WithGroup(name)}
}

// WarnCounter passes records through to the wrapped handler and counts
// those at warning level. Derived handlers share the counter.
type WarnCounter struct {
	h     slog.Handler
	count *atomic.Int64
}

func NewWarnCounter(h slog.Handler) *WarnCounter {
	return &WarnCounter{h: h, count: &atomic.Int64{}}
}

// Count returns the number of warnings seen so far.
func (c *WarnCounter) Count() int64 { return c.count.Load() }

func (c *WarnCounter) Enabled(ctx context.Context, level slog.Level) bool {
	// Warnings are always counted, even when the output hides them.
	return level == slog.LevelWarn || c.h.Enabled(ctx, level)
}

func (c *WarnCounter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level == slog.LevelWarn {
		c.count.Add(1)
	}
	if !c.h.Enabled(ctx, r.Level) {
		return nil
	}
	return c.h.Handle(ctx, r)
}

func (c *WarnCounter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &WarnCounter{h: c.h.WithAttrs(attrs), count: c.count}
}

func (c *WarnCounter) WithGroup(name string) slog.Handler {
	return &WarnCounter{h: c.h.WithGroup(name), count: c.count}
}

// Options configure SetupLogger. The kong tags expose them as the global
// --log.* flags.
type Options struct {
	Level    string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"COMMSDSLGEN_LOG_LEVEL"`
	File     string `help:"Write logs to this file instead of the console" type:"path"`
	EmitFile string `help:"Record every generated file with its size and digest" type:"path"`
	JSON     bool   `name:"json" help:"Emit JSON log lines when stdout is not a terminal"`
}

func consoleHandler(w io.Writer, level slog.Level, asJSON bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SetupLogger builds a slog.Logger with console and optional file handlers.
// The returned WarnCounter sees every record the logger emits.
func SetupLogger(opts Options) (*slog.Logger, *WarnCounter, []io.Closer, error) {
	level := ParseLevel(opts.Level)
	asJSON := opts.JSON && !term.IsTerminal(int(os.Stdout.Fd()))
	var handlers []slog.Handler

	if opts.File == "" {
		stdoutHandler := consoleHandler(os.Stdout, level, asJSON)
		handlers = append(handlers, LevelFilter{pass: func(l slog.Level) bool { return l < slog.LevelError }, h: stdoutHandler})

		stderrHandler := consoleHandler(os.Stderr, slog.LevelError, asJSON)
		handlers = append(handlers, LevelFilter{pass: func(l slog.Level) bool { return l >= slog.LevelError }, h: stderrHandler})
	} else {
		handlers = append(handlers, consoleHandler(os.Stderr, level, asJSON))
	}
	var closeFiles []io.Closer
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFiles = append(closeFiles, f)
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}
	counter := NewWarnCounter(MultiHandler{hs: handlers})
	return slog.New(counter), counter, closeFiles, nil
}
