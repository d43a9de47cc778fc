// Package sink provides append-only destinations for generated CSS.
package sink

import (
	"io"
	"strings"
	"sync"
)

// Sink receives generated CSS text. Text is only ever appended; previously
// appended text is never edited or removed.
type Sink interface {
	Append(text string) error
}

// Null discards everything. Used where no document is available, live
// emission becomes a no-op.
type Null struct{}

// Append implements Sink.
func (Null) Append(string) error { return nil }

// Buffer keeps appended text in memory. Safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	sb      strings.Builder
	appends int
}

// Append implements Sink.
func (b *Buffer) Append(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sb.WriteString(text)
	b.appends++
	return nil
}

// String returns everything appended so far.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// Appends returns number of Append calls, including empty ones.
func (b *Buffer) Appends() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.appends
}

// Writer forwards text to an io.Writer, e.g. an open stylesheet file.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Append implements Sink. Empty text is not written.
func (w *Writer) Append(text string) error {
	if len(text) == 0 {
		return nil
	}
	_, err := io.WriteString(w.w, text)
	return err
}
