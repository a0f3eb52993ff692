// Package tmpl implements the #^#TOKEN#$# template substitution used by every
// code generation backend.
//
// Substitution is single-pass: values taken from the replacement map are
// inserted literally and never scanned for further placeholders.
package tmpl

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

const (
	OpenMarker  = "#^#"
	CloseMarker = "#$#"
)

const lineWhitespace = " \t\r"

// Error reports a malformed template.
type Error struct {
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("template error at offset %d: %s", e.Offset, e.Msg)
}

type options struct {
	keepOneBlankLine bool
	tidy             bool
	logger           *slog.Logger
}

type Option func(*options)

// KeepOneBlankLine makes a dropped placeholder line leave a single blank line
// behind. Consecutive dropped lines collapse into one blank line.
func KeepOneBlankLine() Option {
	return func(o *options) { o.keepOneBlankLine = true }
}

// Tidy runs TidyCode over the result.
func Tidy() Option {
	return func(o *options) { o.tidy = true }
}

// LogMissing reports placeholders that have no map entry at all at debug
// level. Output is the same as for an explicitly empty value.
func LogMissing(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Process is like Execute but panics on a malformed template. Templates are
// literals owned by the backends, so a failure here is a programming error.
func Process(templ string, repl Map, opts ...Option) string {
	out, err := Execute(templ, repl, opts...)
	if err != nil {
		panic(err)
	}
	return out
}

// Execute substitutes every placeholder in templ with its value from repl.
// Missing keys are treated as empty values. When an empty placeholder is the
// only thing on its line, the whole line is removed.
func Execute(templ string, repl Map, opts ...Option) (string, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var b strings.Builder
	b.Grow(len(templ) * 2)

	pendingBlank := false
	write := func(s string) {
		if s == "" {
			return
		}
		if pendingBlank {
			pendingBlank = false
			if !strings.HasPrefix(s, "\n") && !strings.HasPrefix(s, "\r\n") && !endsWithBlankLine(b.String()) {
				b.WriteByte('\n')
			}
		}
		b.WriteString(s)
	}

	pos := 0
	for pos < len(templ) {
		start := strings.Index(templ[pos:], OpenMarker)
		if start < 0 {
			break
		}
		start += pos

		keyStart := start + len(OpenMarker)
		end := strings.Index(templ[keyStart:], CloseMarker)
		if end < 0 {
			return "", &Error{Offset: start, Msg: "unterminated placeholder"}
		}
		end += keyStart
		after := end + len(CloseMarker)

		lineStart := strings.LastIndexByte(templ[:start], '\n') + 1
		value := repl[templ[keyStart:end]]

		if value == "" {
			if next, ok := wholeLine(templ, pos, lineStart, start, after); ok {
				write(templ[pos:lineStart])
				pos = next
				if o.keepOneBlankLine {
					pendingBlank = true
				}
				continue
			}

			write(templ[pos:start])
			pos = after
			continue
		}

		write(templ[pos:start])
		pos = after

		if indent := start - lineStart; indent > 0 {
			value = strings.ReplaceAll(value, "\n", "\n"+strings.Repeat(" ", indent))
		}
		write(value)
	}

	write(templ[pos:])
	if pendingBlank && !endsWithBlankLine(b.String()) {
		b.WriteByte('\n')
	}

	if o.logger != nil && o.logger.Enabled(context.Background(), slog.LevelDebug) {
		if missing := Missing(templ, repl); len(missing) > 0 {
			o.logger.Debug("Template placeholders without value", "keys", missing)
		}
	}

	out := b.String()
	if o.tidy {
		out = TidyCode(out)
	}
	return out, nil
}

// wholeLine reports whether the placeholder spanning [start, after) is alone on
// its line and returns the position of the following line.
func wholeLine(templ string, pos, lineStart, start, after int) (int, bool) {
	if lineStart < pos {
		return 0, false
	}
	if strings.Trim(templ[lineStart:start], lineWhitespace) != "" {
		return 0, false
	}

	nl := strings.IndexByte(templ[after:], '\n')
	if nl < 0 {
		return 0, false
	}
	nl += after
	if strings.Trim(templ[after:nl], lineWhitespace) != "" {
		return 0, false
	}
	return nl + 1, true
}

func endsWithBlankLine(s string) bool {
	return s == "\n" || strings.HasSuffix(s, "\n\n")
}

// Missing lists the placeholders of templ that have no entry in repl.
func Missing(templ string, repl Map) []string {
	seen := make(map[string]struct{})
	var result []string
	pos := 0
	for {
		start := strings.Index(templ[pos:], OpenMarker)
		if start < 0 {
			break
		}
		keyStart := pos + start + len(OpenMarker)
		end := strings.Index(templ[keyStart:], CloseMarker)
		if end < 0 {
			break
		}
		key := templ[keyStart : keyStart+end]
		pos = keyStart + end + len(CloseMarker)

		if _, ok := repl[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}
