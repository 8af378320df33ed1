package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"github.com/rs/zerolog"
)

var log = zerolog.New(io.Discard)

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Init initializes the logger based on the given configuration
func Init(level LogLevel, isService bool) {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	if isService {
		output.NoColor = true
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	log = zerolog.New(output).With().Timestamp().Logger()

	SetLogLevel(level)
}

// ParseLevel maps a configured level name to a LogLevel. Unknown names map
// to InfoLevel.
func ParseLevel(name string) LogLevel {
	switch strings.ToLower(name) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// IsService checks if the application is running as a service or was
// launched by the session autostart rather than from a terminal.
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}

	return os.Getppid() == 1
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{withCode(log.Error(), err)}
}

// Fatal logs a fatal message and exits the program
func Fatal() *LogEvent {
	return &LogEvent{log.Fatal()}
}

// FatalWithCode logs a fatal message with a specific error code and exits the program
func FatalWithCode(err errors.Error) *LogEvent {
	return &LogEvent{withCode(log.Fatal(), err)}
}

func withCode(e *zerolog.Event, err errors.Error) *zerolog.Event {
	return e.
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())
}

// component is a Logger bound to the package-level zerolog instance with a
// fixed component field.
type component struct {
	name string
	zl   *zerolog.Logger
}

// New returns a Logger that tags every event with the given component name.
func New(name string) Logger {
	return &component{name: name}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	zl := zerolog.Nop()
	return &component{zl: &zl}
}

// NewWithWriter returns a Logger writing JSON events to w. Used by tests
// that assert on log output.
func NewWithWriter(w io.Writer) Logger {
	zl := zerolog.New(w)
	return &component{zl: &zl}
}

func (c *component) base() *zerolog.Logger {
	if c.zl != nil {
		return c.zl
	}
	return &log
}

func (c *component) event(e *zerolog.Event) *LogEvent {
	if c.name != "" {
		e = e.Str("component", c.name)
	}
	return &LogEvent{e}
}

func (c *component) Debug() *LogEvent { return c.event(c.base().Debug()) }
func (c *component) Info() *LogEvent  { return c.event(c.base().Info()) }
func (c *component) Warn() *LogEvent  { return c.event(c.base().Warn()) }
func (c *component) Error() *LogEvent { return c.event(c.base().Error()) }

func (c *component) ErrorWithCode(err errors.Error) *LogEvent {
	return c.event(withCode(c.base().Error(), err))
}

func (c *component) With(name string) Logger {
	return &component{name: name, zl: c.zl}
}
