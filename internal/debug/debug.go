// Package debug is the migrator's component logger. Output is off unless the
// binary was built with EnableDebug=true, DEBUG=1 is set, or the CLI enables
// it; lines are prefixed with the component that wrote them.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// EnableDebug can be set at build time:
// go build -ldflags "-X github.com/RushilK7/smartui-migration-tool-sub004/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// Quiet suppresses all debug output, whatever enabled it
var Quiet = false

// Component names the pipeline stage a line comes from
type Component string

const (
	Detect    Component = "DETECT"
	Scan      Component = "SCAN"
	Transform Component = "TRANSFORM"
	Aggregate Component = "AGGREGATE"
)

var (
	mu      sync.Mutex
	out     io.Writer
	logFile *os.File
)

// SetQuiet toggles output suppression
func SetQuiet(enabled bool) {
	Quiet = enabled
}

// SetDebugOutput sets the writer for debug output; nil discards it
func SetDebugOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Enable turns debug output on and sends it to w
func Enable(w io.Writer) {
	EnableDebug = "true"
	SetDebugOutput(w)
}

// InitDebugLogFile sends debug output to a fresh file under the temp
// directory and returns its path. Call CloseDebugLog when done.
func InitDebugLogFile() (string, error) {
	mu.Lock()
	defer mu.Unlock()

	dir := filepath.Join(os.TempDir(), "smartui-migrate-logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("migrate-%s-%d.log", time.Now().Format("2006-01-02T150405"), os.Getpid()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	logFile = f
	out = f
	return path, nil
}

// CloseDebugLog closes the log file opened by InitDebugLogFile, if any
func CloseDebugLog() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	out = nil
	return err
}

// IsDebugEnabled reports whether debug lines are currently written
func IsDebugEnabled() bool {
	if Quiet {
		return false
	}
	if EnableDebug == "true" {
		return true
	}
	switch os.Getenv("DEBUG") {
	case "1", "true":
		return true
	}
	return false
}

// Log writes one "[DEBUG:<COMPONENT>] ..." line
func Log(component Component, format string, args ...any) {
	if !IsDebugEnabled() {
		return
	}
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}

	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		return
	}
	fmt.Fprintf(out, "[DEBUG:%s] %s", component, fmt.Sprintf(format, args...))
}

// LogDetect logs anchor resolution and classification decisions
func LogDetect(format string, args ...any) { Log(Detect, format, args...) }

// LogScan logs content search progress
func LogScan(format string, args ...any) { Log(Scan, format, args...) }

// LogTransform logs per-file rewrite decisions
func LogTransform(format string, args ...any) { Log(Transform, format, args...) }

// LogAggregate logs project-level aggregation
func LogAggregate(format string, args ...any) { Log(Aggregate, format, args...) }
