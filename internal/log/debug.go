// Package log provides the lazyqr debug log. Messages are buffered in memory
// until a destination is configured, then flushed and appended to that file.
package log

import (
	"log"
	"os"
	"sync"
)

// DebugLogger is an io.Writer that buffers output until SetFile is called.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	globalDebugLogger = &DebugLogger{}
	stdLogger         = log.New(globalDebugLogger, "lazyqr ", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer.
func (l *DebugLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.discard {
		return len(p), nil
	}

	if l.file != nil {
		n, err := l.file.Write(p)
		_ = l.file.Sync()
		return n, err
	}

	// p may be reused by the caller.
	l.buffer = append(l.buffer, p...)
	return len(p), nil
}

// SetFile points the debug log at path, flushing anything buffered so far.
// An empty path (or an open failure) discards buffered and future output.
func SetFile(path string) error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.file != nil {
		_ = globalDebugLogger.file.Close()
		globalDebugLogger.file = nil
	}

	if path == "" {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return err
	}

	globalDebugLogger.file = f
	globalDebugLogger.discard = false
	if len(globalDebugLogger.buffer) > 0 {
		_, _ = f.Write(globalDebugLogger.buffer)
		_ = f.Sync()
		globalDebugLogger.buffer = nil
	}
	return nil
}

// Printf writes a formatted debug line.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug line.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Errorf writes a formatted line tagged as an error so failures stand out
// when tailing the log.
func Errorf(format string, args ...any) {
	stdLogger.Printf("ERROR "+format, args...)
}

// Close closes the log file if one is open.
func Close() error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.file == nil {
		return nil
	}
	err := globalDebugLogger.file.Close()
	globalDebugLogger.file = nil
	return err
}
