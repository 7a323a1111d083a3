package core

import (
	"fmt"
	"io"
	"sync"
)

// Logger interface for voxelizer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// WriterLogger writes log lines to a writer. Safe for concurrent use.
type WriterLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterLogger creates a logger writing to w
func NewWriterLogger(w io.Writer) *WriterLogger {
	return &WriterLogger{w: w}
}

// Printf implements Logger
func (l *WriterLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, format, args...)
}

// NopLogger discards everything
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(string, ...interface{}) {}

// Progress receives observational progress updates. Implementations must be
// safe for concurrent Add calls; updates never affect control flow.
type Progress interface {
	SetTotal(total int)
	Add(n int)
}

// NopProgress ignores progress updates
type NopProgress struct{}

// SetTotal implements Progress
func (NopProgress) SetTotal(int) {}

// Add implements Progress
func (NopProgress) Add(int) {}
