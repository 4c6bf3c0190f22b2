// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the name of the launcher log file inside the log directory.
const FileName = "launcher.log"

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init installs a text handler writing to stderr and, when dir is not empty,
// to dir/launcher.log. The previous log file is truncated on every start.
// If the log file cannot be opened, logging continues on stderr only and the
// error is returned.
func Init(dir string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	var openErr error
	if dir != "" {
		f, err := openLogFile(dir)
		if err != nil {
			openErr = err
		} else {
			closeLocked()
			logFile = f
			w = io.MultiWriter(os.Stderr, f)
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return openErr
}

// Close flushes and closes the log file opened by Init.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if logFile == nil {
		return
	}
	_ = logFile.Sync()
	_ = logFile.Close()
	logFile = nil
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	return f, nil
}

// StringPtr returns a loggable value for an optional string: the string
// itself, or nil when p is nil.
func StringPtr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
