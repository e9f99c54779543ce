package log

import (
	"sync"
)

var (
	loggerMu      sync.Mutex
	defaultLogger *Logger
)

// SetDefaultLogger installs the process-wide logger, called by the CLI layer
// once the --log-level and --log-format flags are parsed.
func SetDefaultLogger(logger *Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = logger
}

// DefaultLogger returns the process-wide logger. Before flag parsing it
// falls back to the stderr JSON default so no log line is dropped.
func DefaultLogger() *Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if defaultLogger == nil {
		defaultLogger = Default()
	}
	return defaultLogger
}
