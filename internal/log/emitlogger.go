package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// digestPrefixLen is the number of digest characters printed per file.
const digestPrefixLen = 16

// EmitLogger records every generated file with optional file output.
type EmitLogger interface {
	Log(path string, data []byte, digest string)
}

// emitLogger implements EmitLogger with thread-safe log.
type emitLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewEmit creates a new EmitLogger. If writer is nil, returns a no-op logger.
func NewEmit(w io.Writer) EmitLogger {
	return &emitLogger{w: w}
}

// Log emits a single line with timestamp, size and digest prefix of the
// generated file.
func (e *emitLogger) Log(path string, data []byte, digest string) {
	if e.w == nil {
		return
	}
	if len(digest) > digestPrefixLen {
		digest = digest[:digestPrefixLen]
	}

	line := fmt.Sprintf("%s %s %d bytes, digest: %s\n",
		time.Now().Format("2006/01/02 15:04:05"),
		path,
		len(data),
		digest)

	e.mu.Lock()
	_, _ = e.w.Write([]byte(line))
	e.mu.Unlock()
}
