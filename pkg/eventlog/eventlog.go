// Package eventlog provides the append-only text event log collaborator.
//
// The log is a best-effort, write-only sink: Append never fails the
// caller. Only opening the file at startup can return an error.
package eventlog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Log appends timestamped lines to a single file.
type Log struct {
	mu  sync.Mutex
	f   *os.File
	now func() time.Time
}

// Open opens (or creates) the event log file for appending.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600) //nolint:gosec // path from server config
	if err != nil {
		return nil, fmt.Errorf("eventlog: open %s: %w", path, err)
	}
	return &Log{f: f, now: time.Now}, nil
}

// Append writes one line to the log, prefixed with a UTC timestamp.
// Failures are logged at debug level and otherwise ignored; a nil
// receiver ignores appends entirely so the collaborator is optional.
func (l *Log) Append(line string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	stamp := l.now().UTC().Format(time.RFC3339)
	if _, err := fmt.Fprintf(l.f, "%s %s\n", stamp, line); err != nil {
		slog.Debug("event log write failed", "err", err)
	}
}

// Close closes the underlying file. Safe on a nil receiver.
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	return l.f.Close()
}
