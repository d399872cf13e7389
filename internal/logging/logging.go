package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component names used throughout the application. Keeping them here makes it
// easy to grep a single component's activity out of the shared log file.
const (
	CompSession = "session"
	CompUI      = "ui"
	CompStore   = "store"
	CompRefresh = "refresh"
)

var (
	mu  sync.RWMutex
	out io.Writer = io.Discard
)

// switchWriter forwards writes to the current package-level output. Loggers
// returned by ForComponent hold one of these so Setup can be called before or
// after the loggers are created.
type switchWriter struct{}

func (switchWriter) Write(p []byte) (int, error) {
	mu.RLock()
	w := out
	mu.RUnlock()
	return w.Write(p)
}

// Options configures the rotating log file.
type Options struct {
	Path       string // log file path; empty disables file logging
	MaxSizeMB  int    // rotate after this size (default 10)
	MaxBackups int    // rotated files to keep (default 3)
	MaxAgeDays int    // days to keep rotated files (default 14)
}

// Setup directs all component loggers to a size-rotated log file.
// Without Setup, log output is discarded (the TUI owns the terminal).
func Setup(opts Options) error {
	if opts.Path == "" {
		return nil
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 10
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 3
	}
	if opts.MaxAgeDays <= 0 {
		opts.MaxAgeDays = 14
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return err
	}

	mu.Lock()
	out = &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}
	mu.Unlock()

	// Route the default logger too, so stray log.Printf calls don't write
	// to stderr underneath the TUI.
	log.SetOutput(switchWriter{})
	return nil
}

// ForComponent returns a logger whose lines are tagged with the component name.
func ForComponent(name string) *log.Logger {
	return log.New(switchWriter{}, "["+name+"] ", log.LstdFlags)
}
