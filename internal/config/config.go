package config

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultTimeout   = 1
	MaxTimeout       = 1440
	DefaultLogLevel  = string(LogLevelInfo)
	DefaultAppName   = "dpmsctl"
	DefaultEnvPrefix = "DPMSCTL"

	configName = "dpmsctl"
	configType = "toml"
)

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"timeout":    "timeout",
	"log-level":  "log_level",
	"metrics":    "metrics",
	"metrics-db": "metrics_db",
	"app-name":   "app_name",
}

type Config struct {
	Timeout   int    `mapstructure:"timeout" validate:"min=1,max=1440"`
	LogLevel  string `mapstructure:"log_level" validate:"loglevel"`
	Metrics   bool   `mapstructure:"metrics"`
	MetricsDB string `mapstructure:"metrics_db" validate:"required_if=Metrics true"`
	AppName   string `mapstructure:"app_name" validate:"required,excludesall=/\\"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		return LogLevel(fl.Field().String()).IsValid()
	})
	return v
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Int("timeout", DefaultTimeout, "Idle timeout in minutes before displays are powered off")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Bool("metrics", false, "Record tick history to SQLite")
	fs.String("metrics-db", defaultMetricsDB(), "Path to the tick history database")
	fs.String("app-name", DefaultAppName, "Name of the autostart entry")
}

// Load reads configuration from, in increasing precedence: defaults, the
// TOML config file, DPMSCTL_* environment variables and command line flags.
// The config file is the one given by WithConfigFile or $DPMSCTL_CONFIG,
// otherwise dpmsctl.toml is searched for in $XDG_CONFIG_HOME/dpmsctl and
// /etc/dpmsctl. A missing file is not an error.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("metrics", false)
	v.SetDefault("metrics_db", defaultMetricsDB())
	v.SetDefault("app_name", DefaultAppName)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	configPath := o.configPath
	if configPath == "" {
		configPath = os.Getenv(DefaultEnvPrefix + "_CONFIG")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType(configType)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, configName))
		}
		v.AddConfigPath(filepath.Join("/etc", configName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	if o.flags != nil {
		for name, key := range flagKeys {
			flag := o.flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, errFactory.Wrap(errors.ErrBindFlags, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every field and returns the first violation as a coded
// error.
func (c *Config) Validate() error {
	errFactory := errors.New()

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	fe := verrs[0]
	switch fe.Field() {
	case "LogLevel":
		return errFactory.WithData(errors.ErrInvalidLogLevel, fe.Value())
	case "Timeout":
		return errFactory.WithData(errors.ErrInvalidTimeout, fe.Value())
	default:
		return errFactory.WithData(errors.ErrInvalidConfig, fe.Field()+": "+fe.Tag())
	}
}

func defaultMetricsDB() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, configName, "history.db")
}

func (c *Config) GetTimeout() int          { return c.Timeout }
func (c *Config) GetLogLevel() string      { return c.LogLevel }
func (c *Config) IsMetricsEnabled() bool   { return c.Metrics }
func (c *Config) GetMetricsDBPath() string { return c.MetricsDB }
func (c *Config) GetAppName() string       { return c.AppName }
