// Package ports defines the interfaces between the compositing core and its
// collaborators: drawing backend, file system, logging, debug output and the
// external content generation service.
package ports

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for stage internals such as wrapped lines and crop rectangles.
	LevelDebug LogLevel = iota
	// LevelInfo is for orchestration progress (decode, compose, write).
	LevelInfo
	// LevelWarn is for recoverable problems such as a font falling back.
	LevelWarn
	// LevelError is for failures that abort a composition attempt.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown names map to info.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger abstracts logging operations with multi-language support.
type Logger interface {
	// Debug logs a debug message. msg is a translatable format key.
	Debug(msg string, args ...interface{})

	// Info logs an informational message.
	Info(msg string, args ...interface{})

	// Warn logs a recoverable problem.
	Warn(msg string, args ...interface{})

	// Error logs a failure.
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with the component
	// name, e.g. "[textlayout]".
	WithComponent(component string) Logger
}
