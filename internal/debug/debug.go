package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Build flag for debug mode - can be overridden at build time
// go build -ldflags "-X github.com/standardbeagle/searcher/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// debugOutput is the writer for debug output (defaults to nil, meaning no output)
var debugOutput io.Writer

// debugFile holds the open file handle if debug output goes to a file
var debugFile *os.File

// debugMutex protects access to debug output
var debugMutex sync.Mutex

// Enable turns debug logging on for the rest of the process.
func Enable() {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	EnableDebug = "true"
}

// SetDebugOutput sets a custom writer for debug output.
// Pass nil to disable debug output entirely.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// InitDebugLogFile initializes debug logging to a file.
// Returns the path to the log file, or an error if initialization fails.
// Call CloseDebugLog when done to ensure the file is properly closed.
func InitDebugLogFile() (string, error) {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	logDir := filepath.Join(os.TempDir(), "searcher-debug-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	// concurrent runs started in the same second each get their own file
	runID := uuid.New().String()
	timestamp := time.Now().Format("2006-01-02T150405")
	logPath := filepath.Join(logDir, fmt.Sprintf("debug-%s-%s.log", timestamp, runID[:8]))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}
	fmt.Fprintf(file, "[DEBUG] run %s started %s\n", runID, time.Now().Format(time.RFC3339))

	debugFile = file
	debugOutput = file
	return logPath, nil
}

// CloseDebugLog closes the debug log file if one is open.
func CloseDebugLog() error {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if debugFile != nil {
		err := debugFile.Close()
		debugFile = nil
		debugOutput = nil
		return err
	}
	return nil
}

// IsDebugEnabled returns true if debug mode is enabled by build flag or environment
func IsDebugEnabled() bool {
	debugMutex.Lock()
	enabled := EnableDebug
	debugMutex.Unlock()

	if enabled == "true" {
		return true
	}

	// Allow runtime override via environment variable
	for _, key := range []string{"SEARCHER_DEBUG", "DEBUG"} {
		if v := os.Getenv(key); v == "1" || v == "true" {
			return true
		}
	}

	return false
}

// Component tags a log line with the part of the search that wrote it
type Component string

const (
	Walk   Component = "WALK"
	Scan   Component = "SCAN"
	Config Component = "CONFIG"
)

// write formats one line under the lock so lines from parallel workers never
// interleave. Nothing is formatted unless debug mode is on and a writer is set.
func write(prefix, format string, args []interface{}) {
	if !IsDebugEnabled() {
		return
	}
	debugMutex.Lock()
	defer debugMutex.Unlock()
	if debugOutput == nil {
		return
	}
	fmt.Fprintf(debugOutput, prefix+format, args...)
}

// Printf prints debug information only when debug mode is enabled and output is configured
func Printf(format string, args ...interface{}) {
	write("[DEBUG] ", format, args)
}

// Log writes a line tagged with component
func Log(component Component, format string, args ...interface{}) {
	write("[DEBUG:"+string(component)+"] ", format, args)
}

func LogWalk(format string, args ...interface{}) {
	Log(Walk, format, args...)
}

func LogScan(format string, args ...interface{}) {
	Log(Scan, format, args...)
}

func LogConfig(format string, args ...interface{}) {
	Log(Config, format, args...)
}
