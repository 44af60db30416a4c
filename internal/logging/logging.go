package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

var (
	Debug   *log.Logger
	Scanner *log.Logger
	Enabled bool
)

// LogFile is where debug output goes once enabled
const LogFile = "debug.log"

func init() {
	// Only enable logging if TREESCAN_DEBUG environment variable is set
	if os.Getenv("TREESCAN_DEBUG") == "" {
		disable()
		return
	}
	enable()
}

// SetLevel enables debug output for "debug" and "trace", and leaves the
// environment's choice alone for anything else
func SetLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		if !Enabled {
			enable()
		}
	}
}

// SetOutput sends both loggers to w, mainly for tests
func SetOutput(w io.Writer) {
	Debug = log.New(w, "", log.Lmicroseconds)
	Scanner = log.New(w, "", log.Lmicroseconds)
	Enabled = w != io.Discard
}

func disable() {
	// Create no-op loggers that discard output
	Debug = log.New(io.Discard, "", 0)
	Scanner = log.New(io.Discard, "", 0)
	Enabled = false
}

func enable() {
	Enabled = true

	// Open debug.log once for all loggers
	debugFile, err := os.OpenFile(LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		// Fallback to stderr if we can't open the file
		Debug = log.New(os.Stderr, "[DEBUG] ", log.Ldate|log.Ltime)
		Scanner = log.New(os.Stderr, "[SCANNER] ", log.Ldate|log.Ltime)
		return
	}

	Debug = log.New(debugFile, "", log.Lmicroseconds)
	Scanner = log.New(debugFile, "[SCANNER] ", log.Lmicroseconds)
}
