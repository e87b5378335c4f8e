package neat

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
)

// LoggerLevel type to specify logger output level
type LoggerLevel string

const (
	// LogLevelDebug the Debug log level
	LogLevelDebug LoggerLevel = "debug"
	// LogLevelInfo the Info log level
	LogLevelInfo LoggerLevel = "info"
	// LogLevelWarning the Warning log level
	LogLevelWarning LoggerLevel = "warn"
	// LogLevelError the Error log level
	LogLevelError LoggerLevel = "error"
)

// LogLevel is the current log level of the package, shared by every
// component logger.
var LogLevel LoggerLevel = LogLevelInfo

var (
	loggerDebug = log.New(os.Stdout, "DEBUG: ", log.Ltime|log.Lshortfile)
	loggerInfo  = log.New(os.Stdout, "INFO: ", log.Ltime|log.Lshortfile)
	loggerWarn  = log.New(os.Stdout, "ALERT: ", log.Ltime|log.Lshortfile)
	loggerError = log.New(os.Stderr, "ERROR: ", log.Ltime|log.Lshortfile)
)

// Logger tags every message it emits with a component name, so output from
// genetics and network can be told apart on a shared stream.
type Logger struct {
	component string
}

// ForComponent returns a Logger that prefixes every message with
// "[component]". Callers hold one per package (e.g. a package-level
// `var logger = neat.ForComponent("network")`).
func ForComponent(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) tag(message string) string {
	return fmt.Sprintf("[%s] %s", l.component, message)
}

// Debug outputs a message when the current level accepts Debug.
func (l *Logger) Debug(message string) {
	if acceptLogLevel(LogLevel, LogLevelDebug) {
		_ = loggerDebug.Output(2, l.tag(message))
	}
}

// Info outputs a message when the current level accepts Info.
func (l *Logger) Info(message string) {
	if acceptLogLevel(LogLevel, LogLevelInfo) {
		_ = loggerInfo.Output(2, l.tag(message))
	}
}

// Warn outputs a message when the current level accepts Warn.
func (l *Logger) Warn(message string) {
	if acceptLogLevel(LogLevel, LogLevelWarning) {
		_ = loggerWarn.Output(2, l.tag(message))
	}
}

// Error outputs a message when the current level accepts Error.
func (l *Logger) Error(message string) {
	if acceptLogLevel(LogLevel, LogLevelError) {
		_ = loggerError.Output(2, l.tag(message))
	}
}

// InitLogger initializes the package log level from a string name.
func InitLogger(level string) error {
	switch level {
	case "", string(LogLevelInfo):
		LogLevel = LogLevelInfo
	case string(LogLevelDebug):
		LogLevel = LogLevelDebug
	case string(LogLevelWarning):
		LogLevel = LogLevelWarning
	case string(LogLevelError):
		LogLevel = LogLevelError
	default:
		return errors.Errorf("unsupported log level: [%s]", level)
	}
	return nil
}

func acceptLogLevel(currentLevel, targetLevel LoggerLevel) bool {
	switch currentLevel {
	case LogLevelDebug:
		return true
	case LogLevelInfo:
		return targetLevel == LogLevelInfo || targetLevel == LogLevelWarning || targetLevel == LogLevelError
	case LogLevelWarning:
		return targetLevel == LogLevelWarning || targetLevel == LogLevelError
	case LogLevelError:
		return targetLevel == LogLevelError
	}
	_ = loggerError.Output(2, fmt.Sprintf("unsupported NEAT log level: '%s'", currentLevel))
	return false
}
