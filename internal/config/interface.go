package config

import "github.com/spf13/pflag"

// Provider defines the interface for accessing configuration values.
// All values are immutable after loading.
type Provider interface {
	// GetTimeout returns the idle timeout in minutes
	GetTimeout() int

	// GetLogLevel returns the configured logging level
	GetLogLevel() string

	// IsMetricsEnabled returns whether tick history is recorded
	IsMetricsEnabled() bool

	// GetMetricsDBPath returns the path to the history database
	GetMetricsDBPath() string

	// GetAppName returns the name used for the autostart entry
	GetAppName() string
}

// Option defines a configuration option that can be passed to Load
type Option func(*options) error

// options holds internal configuration options
type options struct {
	configPath string
	flags      *pflag.FlagSet
}

// WithConfigFile specifies an explicit configuration file path. An empty
// path is ignored.
func WithConfigFile(path string) Option {
	return func(o *options) error {
		if path != "" {
			o.configPath = path
		}
		return nil
	}
}

// WithFlags overrides file and environment values with any flags from fs
// that were set on the command line. fs should carry the flags added by
// RegisterFlags.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(o *options) error {
		o.flags = fs
		return nil
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}
