package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Build flag for debug mode - can be overridden at build time
// go build -ldflags "-X github.com/open-agent-tools/codenav/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// MCPMode tracks if we're serving MCP on stdio (set by main)
var MCPMode = false

// debugOutput is the writer for debug output (defaults to nil, meaning no output)
var debugOutput io.Writer

// debugMutex protects access to debug output
var debugMutex sync.Mutex

// SetMCPMode enables MCP mode which suppresses all debug output to stdio
func SetMCPMode(enabled bool) {
	MCPMode = enabled
}

// SetOutput sets a custom writer for debug output.
// Pass nil to disable debug output entirely.
func SetOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// Enabled returns true if debug mode is on and we're not serving MCP
func Enabled() bool {
	if MCPMode {
		return false
	}

	if EnableDebug == "true" {
		return true
	}

	// Runtime override via environment variable
	if v := os.Getenv("CODENAV_DEBUG"); v == "1" || v == "true" {
		return true
	}

	return false
}

// Printf prints debug information only when debug mode is enabled and output is configured
func Printf(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	debugMutex.Lock()
	defer debugMutex.Unlock()
	if debugOutput == nil {
		return
	}
	fmt.Fprintf(debugOutput, "[DEBUG] "+format, args...)
}

// Log provides structured debug logging with component names. The mutex is
// held across the write so interleaved goroutines emit whole lines.
func Log(component, format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	debugMutex.Lock()
	defer debugMutex.Unlock()
	if debugOutput == nil {
		return
	}
	fmt.Fprintf(debugOutput, "[DEBUG:%s] "+format, append([]interface{}{component}, args...)...)
}

// LogQuery provides debug logging for query-engine operations
func LogQuery(format string, args ...interface{}) {
	Log("QUERY", format, args...)
}

// LogScan provides debug logging for scan and watch operations
func LogScan(format string, args ...interface{}) {
	Log("SCAN", format, args...)
}

// LogMCP provides debug logging for MCP server operations
func LogMCP(format string, args ...interface{}) {
	Log("MCP", format, args...)
}
