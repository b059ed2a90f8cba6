// Package logger provides verbose logging for the articles-to-anki CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow the card pipeline.
//
// Warnings are always printed; WarnOnce collapses repeated conditions
// (such as signature backend degradation) into a single line per run.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	warned  = make(map[string]bool)
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	warned = make(map[string]bool)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[DEBUG] "+format+"\n", args...)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[INFO] "+format+"\n", args...)
	}
}

// Warn prints a warning message regardless of verbose mode.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fmt.Fprintf(output, "[WARN] "+format+"\n", args...)
}

// WarnOnce prints a warning at most once per key for the process
// lifetime. Used for conditions that would otherwise repeat for every
// card, such as embedding backend degradation.
func WarnOnce(key, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if warned[key] {
		return
	}
	warned[key] = true
	fmt.Fprintf(output, "[WARN] "+format+"\n", args...)
}
