// Package capture holds size-capped output buffers shared by the runners.
package capture

import (
	"bytes"
	"sync"
)

// DefaultLimit is the per-stream cap used when a runner sets none.
const DefaultLimit = 64 << 20

// TruncatedMarker is appended to stderr when either stream hit its cap.
const TruncatedMarker = "\n[output truncated]\n"

// Buffer keeps at most limit bytes and silently drops the rest so a runaway
// program cannot exhaust memory. Writes never fail, which keeps the child
// from receiving EPIPE because of the cap.
type Buffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int
	truncated bool
}

// NewBuffer returns a Buffer capped at limit bytes. A non-positive limit
// falls back to DefaultLimit.
func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Buffer{limit: limit}
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.limit - b.buf.Len()
	if room <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

// String returns the retained bytes.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Truncated reports whether any byte was dropped.
func (b *Buffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}

// Streams returns the text of both buffers. Stdout is never altered, so a
// cut stream cannot be mistaken for program output; the marker goes to stderr.
func Streams(stdout, stderr *Buffer) (string, string) {
	errText := stderr.String()
	if stdout.Truncated() || stderr.Truncated() {
		errText += TruncatedMarker
	}
	return stdout.String(), errText
}
