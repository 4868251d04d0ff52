package logger

import corelogger "github.com/kilianp07/planner/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger mirrors the core no-op logger.
type NopLogger = corelogger.NopLogger

// New returns a Logger for the given component. The output format is detected
// via APP_ENV and the level via LOG_LEVEL.
func New(component string) Logger {
	return NewZerologLogger(component)
}
