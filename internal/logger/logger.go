// Package logger prints verbose diagnostics for the canopy CLI.
// The --verbose flag enables it; output goes to stderr so it never
// mixes with a rendered report on stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	verbose bool
	out     io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput redirects log output. Defaults to os.Stderr.
// Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Debug prints per-node pipeline detail.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", format, args...)
}

// Info prints run-level progress.
func Info(format string, args ...any) {
	logf("[INFO] ", format, args...)
}

// Warn prints a recoverable problem.
func Warn(format string, args ...any) {
	logf("[WARN] ", format, args...)
}

// logf holds the lock across the write: the upsert pipeline logs from
// concurrent goroutines and lines must not interleave.
func logf(prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose {
		return
	}
	fmt.Fprintf(out, prefix+format+"\n", args...)
}
